package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// JSONRecoverer is the last-resort middleware: any panic escaping a handler
// becomes a JSON 500 instead of a dropped connection. The panic value only
// reaches the client outside production mode.
func JSONRecoverer(logger *slog.Logger, production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					logger.Error("Panic recovered in handler",
						"panic", fmt.Sprintf("%v", rec),
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					message := "An unexpected error occurred."
					if !production {
						message = fmt.Sprintf("panic: %v", rec)
					}

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]interface{}{
						"success": false,
						"message": message,
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

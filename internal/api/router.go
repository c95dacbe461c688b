package api

import (
	"log/slog"
	"net/http"
	"time"

	"library-engine/internal/api/handler"
	mw "library-engine/internal/api/middleware"
	"library-engine/internal/config"
	"library-engine/internal/domain/book"
	"library-engine/internal/domain/loan"
	"library-engine/internal/domain/member"

	_ "library-engine/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func SetupRouter(loanService loan.LoanService, memberService member.MemberService, bookService book.BookService, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	handler.SetProductionMode(cfg.IsProduction())

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupLoanRoutes(router, loanService, cfg, logger)
	setupMemberRoutes(router, memberService, cfg, logger)
	setupBookRoutes(router, bookService, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"Route not found"}`))
	})

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(mw.JSONRecoverer(logger, cfg.IsProduction()))
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupLoanRoutes(router *chi.Mux, loanService loan.LoanService, cfg *config.Config, logger *slog.Logger) {
	loanHandler := handler.NewLoanHandler(loanService, logger)
	authHandler := handler.NewAuthHandler(*cfg, logger)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", loanHandler.Borrow)
		r.Put("/return", loanHandler.Return)
		r.Put("/renewal", loanHandler.Renew)
		r.Get("/active", loanHandler.ActiveLoans)
		r.Get("/overdue", loanHandler.OverdueLoans)
		r.Get("/overdue/members", loanHandler.OverdueMembers)
		r.Get("/history/member/{memberID}", loanHandler.HistoryByMember)
		r.Get("/history/book/{bookID}", loanHandler.HistoryByBook)
	})
}

func setupMemberRoutes(router *chi.Mux, memberService member.MemberService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewMemberHandler(memberService, logger)

	router.Route("/members", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.Register)
		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Get("/stats", h.Stats)
		r.Route("/{memberID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Deactivate)
		})
	})
}

func setupBookRoutes(router *chi.Mux, bookService book.BookService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewBookHandler(bookService, logger)

	router.Route("/books", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Get("/stats", h.Stats)
		r.Route("/{bookID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Post("/copies", h.AddCopy)
		})
	})

	router.Route("/copies", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Delete("/{copyID}", h.DeleteCopy)
	})
}

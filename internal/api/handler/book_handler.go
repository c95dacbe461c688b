package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"library-engine/internal/api/handler/dto"
	"library-engine/internal/domain/book"
	"library-engine/internal/pkg/apperrors"
)

type BookHandler struct {
	service book.BookService
	logger  *slog.Logger
}

func NewBookHandler(s book.BookService, l *slog.Logger) *BookHandler {
	return &BookHandler{
		service: s,
		logger:  l.With("component", "BookHandler"),
	}
}

// Create adds a book to the catalog with an initial number of copies.
//
// @Summary Create a book
// @Tags Books
// @Accept json
// @Produce json
// @Param request body dto.CreateBookRequest true "Book payload"
// @Success 201 {object} dto.CreateBookResponse "Book created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Router /books [post]
// @Security BearerAuth
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.CreateBook(r.Context(), req.Title, req.Author, req.PublicationYear, req.Copies)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.CreateBookResponse{
		Success: true,
		Message: "Book created successfully",
		BookID:  created.ID,
	})
}

// List returns the catalog with copy availability counts.
//
// @Summary List books
// @Tags Books
// @Produce json
// @Success 200 {object} dto.BooksResponse "Catalog listing"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books [get]
// @Security BearerAuth
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListBooks(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewBooksResponse(books))
}

// Search finds books by title or author substring.
//
// @Summary Search books
// @Tags Books
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} dto.BooksResponse "Matching books"
// @Failure 400 {object} dto.ErrorResponse "Missing search term"
// @Router /books/search [get]
// @Security BearerAuth
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		respondError(w, fmt.Errorf("%w: query parameter q is required", apperrors.ErrInvalidArgument))
		return
	}

	books, err := h.service.SearchBooks(r.Context(), term)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewBooksResponse(books))
}

// Stats reports the catalog size.
//
// @Summary Book statistics
// @Tags Books
// @Produce json
// @Success 200 {object} dto.BookStatsResponse "Book count"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books/stats [get]
// @Security BearerAuth
func (h *BookHandler) Stats(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.CountBooks(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.BookStatsResponse{Success: true, Total: total})
}

// Get returns one book with its availability counts.
//
// @Summary Get a book
// @Tags Books
// @Produce json
// @Param bookID path int true "Book ID"
// @Success 200 {object} dto.BookDetailResponse "Book details"
// @Failure 400 {object} dto.ErrorResponse "Invalid book ID"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{bookID} [get]
// @Security BearerAuth
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookID, err := getIDFromURL(r, "bookID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	b, err := h.service.GetBook(r.Context(), bookID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.BookDetailResponse{Success: true, Book: dto.NewBookResponse(b)})
}

// Update applies a partial update to the catalog fields of a book.
//
// @Summary Update a book
// @Tags Books
// @Accept json
// @Produce json
// @Param bookID path int true "Book ID"
// @Param request body dto.UpdateBookRequest true "Fields to update"
// @Success 200 {object} dto.MessageResponse "Book updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{bookID} [put]
// @Security BearerAuth
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	bookID, err := getIDFromURL(r, "bookID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.UpdateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.service.UpdateBook(r.Context(), bookID, req.ToUpdate()); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Book updated successfully"})
}

// AddCopy registers another physical copy of an existing book.
//
// @Summary Add a copy
// @Tags Books
// @Produce json
// @Param bookID path int true "Book ID"
// @Success 201 {object} dto.AddCopyResponse "Copy added"
// @Failure 400 {object} dto.ErrorResponse "Invalid book ID"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{bookID}/copies [post]
// @Security BearerAuth
func (h *BookHandler) AddCopy(w http.ResponseWriter, r *http.Request) {
	bookID, err := getIDFromURL(r, "bookID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	c, err := h.service.AddCopy(r.Context(), bookID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.AddCopyResponse{
		Success: true,
		Message: "Copy added successfully",
		CopyID:  c.ID,
		BookID:  c.BookID,
		Status:  string(c.Status),
	})
}

// DeleteCopy removes a copy that is not currently loaned.
//
// @Summary Delete a copy
// @Description Deletes a copy unless it is currently loaned. When the last copy of a book is deleted and cascade=true is passed, the book's catalog entry is removed too.
// @Tags Books
// @Produce json
// @Param copyID path int true "Copy ID"
// @Param cascade query bool false "Also delete the book when this was its last copy"
// @Success 200 {object} dto.DeleteCopyResponse "Copy deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid copy ID"
// @Failure 404 {object} dto.ErrorResponse "Copy not found"
// @Failure 409 {object} dto.ErrorResponse "Copy is currently loaned"
// @Router /copies/{copyID} [delete]
// @Security BearerAuth
func (h *BookHandler) DeleteCopy(w http.ResponseWriter, r *http.Request) {
	copyID, err := getIDFromURL(r, "copyID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	cascade := r.URL.Query().Get("cascade") == "true"

	bookDeleted, err := h.service.DeleteCopy(r.Context(), copyID, cascade)
	if err != nil {
		respondError(w, err)
		return
	}

	message := "Copy deleted successfully"
	if bookDeleted {
		message = "Copy and its book deleted successfully"
	}
	respondJSON(w, http.StatusOK, dto.DeleteCopyResponse{
		Success:     true,
		Message:     message,
		BookDeleted: bookDeleted,
	})
}

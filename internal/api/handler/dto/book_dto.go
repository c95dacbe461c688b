package dto

import (
	"library-engine/internal/domain/book"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateBookRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear int    `json:"publication_year"`
	Copies          int    `json:"copies"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, 255)),
		validation.Field(&r.Author, validation.Required.Error("author is required"), validation.Length(1, 255)),
		validation.Field(&r.PublicationYear, validation.Min(0), validation.Max(3000)),
		validation.Field(&r.Copies, validation.Min(0), validation.Max(1000)),
	)
}

type UpdateBookRequest struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	PublicationYear *int    `json:"publication_year"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("title cannot be empty"), validation.Length(1, 255)),
		validation.Field(&r.Author, validation.NilOrNotEmpty.Error("author cannot be empty"), validation.Length(1, 255)),
		validation.Field(&r.PublicationYear, validation.Min(0), validation.Max(3000)),
	)
}

func (r UpdateBookRequest) ToUpdate() book.BookUpdate {
	return book.BookUpdate{
		Title:           r.Title,
		Author:          r.Author,
		PublicationYear: r.PublicationYear,
	}
}

type CreateBookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	BookID  int64  `json:"book_id"`
}

type BookResponse struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear int    `json:"publication_year"`
	TotalCopies     int64  `json:"total_copies"`
	AvailableCopies int64  `json:"available_copies"`
}

type BookDetailResponse struct {
	Success bool         `json:"success"`
	Book    BookResponse `json:"book"`
}

type BooksResponse struct {
	Success bool           `json:"success"`
	Books   []BookResponse `json:"books"`
}

type BookStatsResponse struct {
	Success bool  `json:"success"`
	Total   int64 `json:"total"`
}

type AddCopyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	CopyID  int64  `json:"copy_id"`
	BookID  int64  `json:"book_id"`
	Status  string `json:"status"`
}

type DeleteCopyResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	BookDeleted bool   `json:"book_deleted"`
}

func NewBookResponse(b *book.BookWithAvailability) BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		PublicationYear: b.PublicationYear,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
	}
}

func NewBooksResponse(books []book.BookWithAvailability) BooksResponse {
	entries := make([]BookResponse, len(books))
	for i := range books {
		entries[i] = NewBookResponse(&books[i])
	}
	return BooksResponse{Success: true, Books: entries}
}

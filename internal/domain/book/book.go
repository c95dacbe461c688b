package book

import (
	"fmt"
	"strings"

	"library-engine/internal/pkg/apperrors"
)

type CopyStatus string

const (
	CopyStatusAvailable CopyStatus = "available"
	CopyStatusLoaned    CopyStatus = "loaned"
	CopyStatusWithdrawn CopyStatus = "withdrawn"
)

type Book struct {
	ID              int64
	Title           string
	Author          string
	PublicationYear int
}

// Copy is one physical, individually lendable instance of a cataloged book.
// Its status column is the single source of truth for lendability.
type Copy struct {
	ID     int64
	BookID int64
	Status CopyStatus
}

// BookWithAvailability is the catalog listing row: the book plus how many
// of its copies are currently lendable.
type BookWithAvailability struct {
	Book
	TotalCopies     int64
	AvailableCopies int64
}

func NewBook(title, author string, publicationYear int) (*Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", apperrors.ErrInvalidArgument)
	}
	if author == "" {
		return nil, fmt.Errorf("%w: author cannot be empty", apperrors.ErrInvalidArgument)
	}
	return &Book{
		Title:           title,
		Author:          author,
		PublicationYear: publicationYear,
	}, nil
}

// BookUpdate is the whitelisted set of updatable catalog fields. Nil means
// "leave unchanged"; client-supplied keys outside this set never reach SQL.
type BookUpdate struct {
	Title           *string
	Author          *string
	PublicationYear *int
}

func (u *BookUpdate) IsEmpty() bool {
	return u.Title == nil && u.Author == nil && u.PublicationYear == nil
}

func (u *BookUpdate) Validate() error {
	if u.IsEmpty() {
		return fmt.Errorf("%w: at least one updatable field is required", apperrors.ErrInvalidArgument)
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return apperrors.NewValidationError("title", "cannot be empty")
	}
	if u.Author != nil && strings.TrimSpace(*u.Author) == "" {
		return apperrors.NewValidationError("author", "cannot be empty")
	}
	return nil
}

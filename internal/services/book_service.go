package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/openshelf/library-api/internal/apperr"
	"github.com/openshelf/library-api/internal/models"
	repo "github.com/openshelf/library-api/internal/repository"
	"github.com/openshelf/library-api/internal/worker"
)

// BookService manages the catalog and its copy-count invariants.
type BookService struct {
	books   repo.Books
	borrows repo.Borrows
	audit   repo.AuditLogs
	wp      *worker.Pool
	log     *slog.Logger
}

func NewBookService(books repo.Books, borrows repo.Borrows, audit repo.AuditLogs, wp *worker.Pool, log *slog.Logger) *BookService {
	return &BookService{books: books, borrows: borrows, audit: audit, wp: wp, log: log}
}

func (s *BookService) auditAsync(bookID int64, action string, details map[string]any) {
	s.wp.Submit(func() {
		_ = s.audit.Create(context.Background(), models.AuditLog{
			EntityType: "book",
			EntityID:   bookID,
			Action:     action,
			Details:    details,
		})
	})
}

func (s *BookService) Create(ctx context.Context, title, author, isbn string, copies int) (models.Book, error) {
	book, err := s.books.Create(ctx, models.Book{
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		TotalCopies:     copies,
		AvailableCopies: copies,
	})
	if err != nil {
		s.log.Error("create book", "title", title, "err", err)
		return models.Book{}, err
	}
	s.auditAsync(book.ID, "created", map[string]any{"copies": copies})
	return book, nil
}

func (s *BookService) Get(ctx context.Context, id int64) (models.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Book{}, apperr.NotFound("Book Not found")
	}
	return book, err
}

func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	return s.books.List(ctx)
}

// Update resizes the pool while preserving the currently-borrowed count:
// available moves by the same delta as total. Shrinking total below the
// number of copies out on loan drives available negative; that matches
// the contract this service replaces and is deliberately not clamped.
func (s *BookService) Update(ctx context.Context, id int64, title, author, isbn string, copies int) error {
	book, err := s.books.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound("Book Not found")
	}
	if err != nil {
		s.log.Error("update book: load", "book_id", id, "err", err)
		return err
	}

	diff := copies - book.TotalCopies
	book.Title = title
	book.Author = author
	book.ISBN = isbn
	book.TotalCopies = copies
	book.AvailableCopies += diff

	if err := s.books.Update(ctx, book); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Book Not found")
		}
		s.log.Error("update book", "book_id", id, "err", err)
		return err
	}
	s.auditAsync(id, "updated", map[string]any{"copies": copies})
	return nil
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	if _, err := s.books.GetByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Book Not found")
		}
		return err
	}

	open, err := s.borrows.HasOpenForBook(ctx, id)
	if err != nil {
		s.log.Error("delete book: open-borrow check", "book_id", id, "err", err)
		return err
	}
	if open {
		return apperr.InvalidRequest("Cannot delete book with active borrows")
	}

	if err := s.books.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Book Not found")
		}
		s.log.Error("delete book", "book_id", id, "err", err)
		return err
	}
	s.auditAsync(id, "deleted", nil)
	return nil
}

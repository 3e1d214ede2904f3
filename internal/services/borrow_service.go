package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/openshelf/library-api/internal/apperr"
	"github.com/openshelf/library-api/internal/metrics"
	"github.com/openshelf/library-api/internal/models"
	repo "github.com/openshelf/library-api/internal/repository"
	"github.com/openshelf/library-api/internal/worker"
)

// BorrowService is the borrow ledger: it opens and closes borrow records
// and keeps the copy counts honest.
type BorrowService struct {
	borrows repo.Borrows
	books   repo.Books
	audit   repo.AuditLogs
	wp      *worker.Pool
	log     *slog.Logger
}

func NewBorrowService(borrows repo.Borrows, books repo.Books, audit repo.AuditLogs, wp *worker.Pool, log *slog.Logger) *BorrowService {
	return &BorrowService{borrows: borrows, books: books, audit: audit, wp: wp, log: log}
}

func (s *BorrowService) auditAsync(entityID int64, action string, details map[string]any) {
	s.wp.Submit(func() {
		_ = s.audit.Create(context.Background(), models.AuditLog{
			EntityType: "borrow_record",
			EntityID:   entityID,
			Action:     action,
			Details:    details,
		})
	})
}

// Borrow lends one copy of bookID to userID. The copy decrement and the
// record insert are one atomic store operation.
func (s *BorrowService) Borrow(ctx context.Context, bookID, userID int64) error {
	book, err := s.books.GetByID(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound("Book not found")
	}
	if err != nil {
		s.log.Error("borrow: load book", "book_id", bookID, "err", err)
		return err
	}

	if book.AvailableCopies <= 0 {
		metrics.BorrowsRejected.Inc()
		return apperr.InvalidRequest("No copies available")
	}

	open, err := s.borrows.HasOpenForUser(ctx, userID, bookID)
	if err != nil {
		s.log.Error("borrow: open-record check", "book_id", bookID, "user_id", userID, "err", err)
		return err
	}
	if open {
		metrics.BorrowsRejected.Inc()
		return apperr.InvalidRequest("You already have this book borrowed")
	}

	rec, err := s.borrows.Borrow(ctx, bookID, userID, time.Now().UTC())
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return apperr.NotFound("Book not found")
	case errors.Is(err, repo.ErrNoCopies):
		// lost the race for the last copy
		metrics.BorrowsRejected.Inc()
		return apperr.InvalidRequest("No copies available")
	case errors.Is(err, repo.ErrAlreadyBorrowed):
		metrics.BorrowsRejected.Inc()
		return apperr.InvalidRequest("You already have this book borrowed")
	case err != nil:
		s.log.Error("borrow: create record", "book_id", bookID, "user_id", userID, "err", err)
		return err
	}

	metrics.BorrowsTotal.WithLabelValues("borrow").Inc()
	s.auditAsync(rec.ID, "borrowed", map[string]any{"user_id": userID, "book_id": bookID})
	return nil
}

// Return closes a borrow record. The check order is fixed: existence, then
// ownership or librarian role, then returned state — a caller who does not
// own the record gets Forbidden even when it is already closed.
func (s *BorrowService) Return(ctx context.Context, borrowID int64, ident models.Identity) error {
	rec, err := s.borrows.GetByID(ctx, borrowID)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound("Borrow record not found")
	}
	if err != nil {
		s.log.Error("return: load record", "borrow_id", borrowID, "err", err)
		return err
	}

	if rec.UserID != ident.UserID && !ident.IsLibrarian() {
		return apperr.Forbidden("Returning others book is not allowed. Contact librarian.")
	}

	if rec.IsReturned {
		metrics.BorrowsRejected.Inc()
		return apperr.InvalidRequest("Book already returned")
	}

	err = s.borrows.Close(ctx, rec.ID, rec.BookID, time.Now().UTC())
	switch {
	case errors.Is(err, repo.ErrAlreadyReturned):
		metrics.BorrowsRejected.Inc()
		return apperr.InvalidRequest("Book already returned")
	case errors.Is(err, repo.ErrNotFound):
		return apperr.NotFound("Borrow record not found")
	case err != nil:
		s.log.Error("return: close record", "borrow_id", borrowID, "err", err)
		return err
	}

	metrics.BorrowsTotal.WithLabelValues("return").Inc()
	s.auditAsync(rec.ID, "returned", map[string]any{"user_id": ident.UserID, "book_id": rec.BookID})
	return nil
}

// MyBorrows returns every record for userID, open and closed, enriched
// with the book it refers to.
func (s *BorrowService) MyBorrows(ctx context.Context, userID int64) ([]models.BorrowDetail, error) {
	return s.borrows.ListByUser(ctx, userID)
}

// AllBorrows returns every record system-wide. Role gating happens at the
// API layer.
func (s *BorrowService) AllBorrows(ctx context.Context) ([]models.BorrowSummary, error) {
	return s.borrows.ListAll(ctx)
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/openshelf/library-api/internal/models"
)

// Sentinel errors shared by every store driver. Services translate these
// into the error kinds the API boundary maps to HTTP statuses.
var (
	ErrNotFound          = errors.New("not found")
	ErrNoCopies          = errors.New("no copies available")
	ErrAlreadyBorrowed   = errors.New("open borrow record exists")
	ErrAlreadyReturned   = errors.New("borrow record already closed")
	ErrDuplicateUsername = errors.New("username already exists")
)

type Users interface {
	Create(ctx context.Context, username, passwordHash, role string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	Count(ctx context.Context) (int64, error)
}

type Books interface {
	Create(ctx context.Context, b models.Book) (models.Book, error)
	GetByID(ctx context.Context, id int64) (models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
	Update(ctx context.Context, b models.Book) error
	Delete(ctx context.Context, id int64) error
}

type Borrows interface {
	// Borrow applies the copy decrement and the record insert as one
	// atomic unit. The decrement is conditional on available_copies > 0
	// so concurrent borrows of the same book serialize at the store and
	// cannot oversell.
	Borrow(ctx context.Context, bookID, userID int64, at time.Time) (models.BorrowRecord, error)

	// Close marks the record returned and gives the copy back to the
	// book, atomically.
	Close(ctx context.Context, borrowID, bookID int64, at time.Time) error

	GetByID(ctx context.Context, id int64) (models.BorrowRecord, error)
	HasOpenForUser(ctx context.Context, userID, bookID int64) (bool, error)
	HasOpenForBook(ctx context.Context, bookID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]models.BorrowDetail, error)
	ListAll(ctx context.Context) ([]models.BorrowSummary, error)

	// Insert stores a pre-built record verbatim; used by seeding.
	Insert(ctx context.Context, rec models.BorrowRecord) (models.BorrowRecord, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}

// Stores bundles one driver's repositories.
type Stores struct {
	Users     Users
	Books     Books
	Borrows   Borrows
	AuditLogs AuditLogs
}

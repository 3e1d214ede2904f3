package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/library-api/internal/apperr"
	"github.com/openshelf/library-api/internal/models"
	repo "github.com/openshelf/library-api/internal/repository"
	"github.com/openshelf/library-api/internal/repository/memory"
	"github.com/openshelf/library-api/internal/worker"
)

type ledgerFixture struct {
	stores  repo.Stores
	books   *BookService
	borrows *BorrowService
	wp      *worker.Pool
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	stores := memory.NewRepositories()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	wp := worker.NewPool(1)
	t.Cleanup(wp.Stop)
	return &ledgerFixture{
		stores:  stores,
		books:   NewBookService(stores.Books, stores.Borrows, stores.AuditLogs, wp, log),
		borrows: NewBorrowService(stores.Borrows, stores.Books, stores.AuditLogs, wp, log),
		wp:      wp,
	}
}

func (f *ledgerFixture) addBook(t *testing.T, total, available int) models.Book {
	t.Helper()
	b, err := f.stores.Books.Create(context.Background(), models.Book{
		Title: "Test Book", Author: "Author", ISBN: "123",
		TotalCopies: total, AvailableCopies: available,
	})
	require.NoError(t, err)
	return b
}

func asClient(userID int64) models.Identity {
	return models.Identity{UserID: userID, Username: "client", Role: models.RoleClient}
}

func asLibrarian(userID int64) models.Identity {
	return models.Identity{UserID: userID, Username: "librarian", Role: models.RoleLibrarian}
}

func TestBorrow_DecrementsAndOpensRecord(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 5, 5)

	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 2))

	got, err := f.stores.Books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.AvailableCopies)

	details, err := f.borrows.MyBorrows(ctx, 2)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.False(t, details[0].IsReturned)
	assert.Nil(t, details[0].ReturnDate)
	assert.False(t, details[0].BorrowDate.IsZero())
}

func TestBorrow_BookNotFound(t *testing.T) {
	f := newLedgerFixture(t)

	err := f.borrows.Borrow(context.Background(), 999, 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestBorrow_NoCopiesAvailable(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 5, 0)

	err := f.borrows.Borrow(ctx, book.ID, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))
	assert.Equal(t, "No copies available", err.Error())

	got, err := f.stores.Books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableCopies)

	details, err := f.borrows.MyBorrows(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestBorrow_SecondOpenRecordRejected(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 5, 5)

	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 2))

	err := f.borrows.Borrow(ctx, book.ID, 2)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))
	assert.Equal(t, "You already have this book borrowed", err.Error())

	got, _ := f.stores.Books.GetByID(ctx, book.ID)
	assert.Equal(t, 4, got.AvailableCopies)
}

func TestBorrow_AllowedAgainAfterReturn(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 5, 5)

	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 2))
	details, _ := f.borrows.MyBorrows(ctx, 2)
	require.Len(t, details, 1)
	require.NoError(t, f.borrows.Return(ctx, details[0].ID, asClient(2)))

	assert.NoError(t, f.borrows.Borrow(ctx, book.ID, 2))
}

func TestReturn_RoundTripRestoresAvailability(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 5, 5)

	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 2))
	details, _ := f.borrows.MyBorrows(ctx, 2)
	require.Len(t, details, 1)

	require.NoError(t, f.borrows.Return(ctx, details[0].ID, asClient(2)))

	got, err := f.stores.Books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.AvailableCopies)

	details, _ = f.borrows.MyBorrows(ctx, 2)
	require.Len(t, details, 1)
	assert.True(t, details[0].IsReturned)
	require.NotNil(t, details[0].ReturnDate)
}

func TestReturn_RecordNotFound(t *testing.T) {
	f := newLedgerFixture(t)

	err := f.borrows.Return(context.Background(), 42, asClient(1))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Borrow record not found", err.Error())
}

func TestReturn_AlreadyReturned(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 5, 5)

	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 2))
	details, _ := f.borrows.MyBorrows(ctx, 2)
	require.NoError(t, f.borrows.Return(ctx, details[0].ID, asClient(2)))

	err := f.borrows.Return(ctx, details[0].ID, asClient(2))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))
	assert.Equal(t, "Book already returned", err.Error())

	got, _ := f.stores.Books.GetByID(ctx, book.ID)
	assert.Equal(t, 5, got.AvailableCopies, "double return must not over-credit copies")
}

func TestReturn_OthersBorrowForbiddenForClient(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 5, 5)

	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 2))
	details, _ := f.borrows.MyBorrows(ctx, 2)

	err := f.borrows.Return(ctx, details[0].ID, asClient(3))
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	got, _ := f.stores.Books.GetByID(ctx, book.ID)
	assert.Equal(t, 4, got.AvailableCopies)
}

func TestReturn_LibrarianMayReturnAnyBorrow(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 5, 5)

	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 2))
	details, _ := f.borrows.MyBorrows(ctx, 2)

	require.NoError(t, f.borrows.Return(ctx, details[0].ID, asLibrarian(1)))

	got, _ := f.stores.Books.GetByID(ctx, book.ID)
	assert.Equal(t, 5, got.AvailableCopies)
}

// Ownership is checked before returned-state: a stranger poking at a
// closed record still gets the forbidden answer, not "already returned".
func TestReturn_OwnershipCheckedBeforeReturnedState(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 5, 5)

	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 2))
	details, _ := f.borrows.MyBorrows(ctx, 2)
	require.NoError(t, f.borrows.Return(ctx, details[0].ID, asClient(2)))

	err := f.borrows.Return(ctx, details[0].ID, asClient(3))
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestBorrow_ConcurrentCallersCannotOversell(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 1, 1)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.borrows.Borrow(ctx, book.ID, int64(i+1))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)

	got, _ := f.stores.Books.GetByID(ctx, book.ID)
	assert.Equal(t, 0, got.AvailableCopies)
}

func TestAllBorrows_EnrichedProjection(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	u, err := f.stores.Users.Create(ctx, "reader", "hash", models.RoleClient)
	require.NoError(t, err)
	book := f.addBook(t, 3, 3)

	require.NoError(t, f.borrows.Borrow(ctx, book.ID, u.ID))

	all, err := f.borrows.AllBorrows(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "reader", all[0].Username)
	assert.Equal(t, "Test Book", all[0].BookTitle)
	assert.False(t, all[0].IsReturned)
}

func TestMyBorrows_IncludesClosedRecords(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 3, 3)
	other := f.addBook(t, 3, 3)

	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 2))
	require.NoError(t, f.borrows.Borrow(ctx, other.ID, 2))
	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 3))

	details, _ := f.borrows.MyBorrows(ctx, 2)
	require.Len(t, details, 2)
	require.NoError(t, f.borrows.Return(ctx, details[0].ID, asClient(2)))

	details, err := f.borrows.MyBorrows(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, details, 2)
	assert.Equal(t, "Test Book", details[0].BookTitle)
	assert.Equal(t, "Author", details[0].BookAuthor)
}

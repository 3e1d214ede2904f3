package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/library-api/internal/apperr"
)

func TestCreateBook_SetsBothCopyCounts(t *testing.T) {
	f := newLedgerFixture(t)

	book, err := f.books.Create(context.Background(), "Clean Code", "Robert Martin", "9780132350884", 5)
	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, 5, book.TotalCopies)
	assert.Equal(t, 5, book.AvailableCopies)
}

func TestGetBook_NotFound(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.books.Get(context.Background(), 7)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListBooks(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.books.Create(ctx, "A", "X", "1", 1)
	require.NoError(t, err)
	_, err = f.books.Create(ctx, "B", "Y", "2", 2)
	require.NoError(t, err)

	books, err := f.books.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "A", books[0].Title)
	assert.Equal(t, "B", books[1].Title)
}

func TestUpdateBook_NotFound(t *testing.T) {
	f := newLedgerFixture(t)

	err := f.books.Update(context.Background(), 7, "T", "A", "I", 3)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateBook_GrowPreservesBorrowedCount(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	book, err := f.books.Create(ctx, "T", "A", "I", 5)
	require.NoError(t, err)
	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 2))
	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 3))

	require.NoError(t, f.books.Update(ctx, book.ID, "T", "A", "I", 10))

	got, err := f.books.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.TotalCopies)
	assert.Equal(t, 8, got.AvailableCopies)
}

// Shrinking total below the number of copies out on loan drives available
// negative. That is the inherited resize policy, kept on purpose.
func TestUpdateBook_ShrinkBelowBorrowedGoesNegative(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	book, err := f.books.Create(ctx, "T", "A", "I", 5)
	require.NoError(t, err)
	for userID := int64(1); userID <= 5; userID++ {
		require.NoError(t, f.borrows.Borrow(ctx, book.ID, userID))
	}

	require.NoError(t, f.books.Update(ctx, book.ID, "T", "A", "I", 3))

	got, err := f.books.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalCopies)
	assert.Equal(t, -2, got.AvailableCopies)
}

func TestDeleteBook_NotFound(t *testing.T) {
	f := newLedgerFixture(t)

	err := f.books.Delete(context.Background(), 7)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteBook_BlockedByOpenBorrow(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	book, err := f.books.Create(ctx, "T", "A", "I", 5)
	require.NoError(t, err)
	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 2))

	err = f.books.Delete(ctx, book.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))
	assert.Equal(t, "Cannot delete book with active borrows", err.Error())

	// the book and its record survive the failed delete
	got, err := f.books.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.AvailableCopies)
	details, _ := f.borrows.MyBorrows(ctx, 2)
	assert.Len(t, details, 1)
}

func TestDeleteBook_AllowedAfterAllReturns(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	book, err := f.books.Create(ctx, "T", "A", "I", 5)
	require.NoError(t, err)
	require.NoError(t, f.borrows.Borrow(ctx, book.ID, 2))
	details, _ := f.borrows.MyBorrows(ctx, 2)
	require.NoError(t, f.borrows.Return(ctx, details[0].ID, asClient(2)))

	require.NoError(t, f.books.Delete(ctx, book.ID))

	_, err = f.books.Get(ctx, book.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteBook_AllowedWithoutBorrows(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	book, err := f.books.Create(ctx, "T", "A", "I", 2)
	require.NoError(t, err)

	require.NoError(t, f.books.Delete(ctx, book.ID))
}

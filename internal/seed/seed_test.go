package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/library-api/internal/auth"
	"github.com/openshelf/library-api/internal/models"
	"github.com/openshelf/library-api/internal/repository/memory"
)

func TestInitialize_LoadsStarterDataset(t *testing.T) {
	stores := memory.NewRepositories()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	require.NoError(t, Initialize(ctx, stores, log))

	n, err := stores.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	books, err := stores.Books.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 4)

	borrows, err := stores.Borrows.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, borrows, 6)
	for _, br := range borrows {
		assert.False(t, br.IsReturned)
	}

	// every book's open-borrow count matches its missing copies
	openByBook := map[int64]int{}
	for _, br := range borrows {
		openByBook[br.BookID]++
	}
	for _, b := range books {
		assert.Equal(t, b.TotalCopies-b.AvailableCopies, openByBook[b.ID], b.Title)
	}
}

func TestInitialize_SeededCredentialsWork(t *testing.T) {
	stores := memory.NewRepositories()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	require.NoError(t, Initialize(ctx, stores, log))

	librarian, err := stores.Users.GetByUsername(ctx, "librarian")
	require.NoError(t, err)
	assert.Equal(t, models.RoleLibrarian, librarian.Role)
	assert.NoError(t, auth.VerifyPassword("admin123", librarian.PasswordHash))

	client, err := stores.Users.GetByUsername(ctx, "client1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, client.Role)
	assert.NoError(t, auth.VerifyPassword("pass123", client.PasswordHash))
}

func TestInitialize_Idempotent(t *testing.T) {
	stores := memory.NewRepositories()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	require.NoError(t, Initialize(ctx, stores, log))
	require.NoError(t, Initialize(ctx, stores, log))

	n, err := stores.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
}

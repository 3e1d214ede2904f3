// Package seed loads the starter dataset: one librarian, five clients,
// four books and six open borrow records. It is invoked explicitly at
// process start with the store as a parameter.
package seed

import (
	"context"
	"log/slog"
	"time"

	"github.com/openshelf/library-api/internal/auth"
	"github.com/openshelf/library-api/internal/models"
	repo "github.com/openshelf/library-api/internal/repository"
)

// Initialize is idempotent: it does nothing when any user already exists.
func Initialize(ctx context.Context, stores repo.Stores, log *slog.Logger) error {
	n, err := stores.Users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Debug("seed: users present, skipping")
		return nil
	}

	seedUsers := []struct {
		username string
		password string
		role     string
	}{
		{"librarian", "admin123", models.RoleLibrarian},
		{"client1", "pass123", models.RoleClient},
		{"client2", "pass123", models.RoleClient},
		{"client3", "pass123", models.RoleClient},
		{"client4", "pass123", models.RoleClient},
		{"client5", "pass123", models.RoleClient},
	}
	userIDs := make([]int64, 0, len(seedUsers))
	for _, su := range seedUsers {
		hash, err := auth.HashPassword(su.password)
		if err != nil {
			return err
		}
		u, err := stores.Users.Create(ctx, su.username, hash, su.role)
		if err != nil {
			return err
		}
		userIDs = append(userIDs, u.ID)
	}

	seedBooks := []models.Book{
		{ISBN: "98754215632", Author: "Gayle Laakmann McDowell", Title: "Cracking the Coding Interview", TotalCopies: 10, AvailableCopies: 8},
		{ISBN: "98754215632", Author: "Gayle Laakmann McDowell", Title: "Cracking the Tech Career", TotalCopies: 10, AvailableCopies: 10},
		{ISBN: "98754215632", Author: "Gayle Laakmann McDowell", Title: "Cracking the PM Career", TotalCopies: 10, AvailableCopies: 7},
		{ISBN: "98754215632", Author: "Gayle Laakmann McDowell", Title: "Cracking the PM Interview", TotalCopies: 10, AvailableCopies: 9},
	}
	bookIDs := make([]int64, 0, len(seedBooks))
	for _, b := range seedBooks {
		created, err := stores.Books.Create(ctx, b)
		if err != nil {
			return err
		}
		bookIDs = append(bookIDs, created.ID)
	}

	// Open records matching the pre-decremented available counts above.
	now := time.Now().UTC()
	seedBorrows := []struct {
		user, book int // indexes into the slices above
		daysAgo    int
	}{
		{1, 0, 2},
		{2, 3, 10},
		{1, 2, 2},
		{2, 0, 10},
		{4, 2, 2},
		{5, 2, 10},
	}
	for _, sb := range seedBorrows {
		_, err := stores.Borrows.Insert(ctx, models.BorrowRecord{
			UserID:     userIDs[sb.user],
			BookID:     bookIDs[sb.book],
			BorrowDate: now.AddDate(0, 0, -sb.daysAgo),
		})
		if err != nil {
			return err
		}
	}

	log.Info("seed: starter data loaded",
		"users", len(seedUsers), "books", len(seedBooks), "borrows", len(seedBorrows))
	return nil
}

// Package memory is an in-process store driver with the same semantics as
// the postgres driver. It backs tests and the dev profile, the way the
// system this replaces ran against an in-memory database.
package memory

import (
	"sync"

	"github.com/openshelf/library-api/internal/models"
	repo "github.com/openshelf/library-api/internal/repository"
)

type store struct {
	mu sync.Mutex

	users   map[int64]models.User
	books   map[int64]models.Book
	borrows map[int64]models.BorrowRecord
	audits  []models.AuditLog

	nextUserID   int64
	nextBookID   int64
	nextBorrowID int64
}

func NewRepositories() repo.Stores {
	s := &store{
		users:   make(map[int64]models.User),
		books:   make(map[int64]models.Book),
		borrows: make(map[int64]models.BorrowRecord),
	}
	return repo.Stores{
		Users:     &usersRepo{s},
		Books:     &booksRepo{s},
		Borrows:   &borrowsRepo{s},
		AuditLogs: &auditLogsRepo{s},
	}
}

package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/openshelf/library-api/internal/repository"
)

func NewRepositories(pool *pgxpool.Pool) repo.Stores {
	return repo.Stores{
		Users:     &usersRepo{pool},
		Books:     &booksRepo{pool},
		Borrows:   &borrowsRepo{pool},
		AuditLogs: &auditLogsRepo{pool},
	}
}

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openshelf/library-api/internal/models"
	repo "github.com/openshelf/library-api/internal/repository"
)

type booksRepo struct{ pool *pgxpool.Pool }

func (r *booksRepo) Create(ctx context.Context, b models.Book) (models.Book, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO books(title, author, isbn, total_copies, available_copies)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING id`,
		b.Title, b.Author, b.ISBN, b.TotalCopies, b.AvailableCopies,
	).Scan(&b.ID)
	return b, err
}

func (r *booksRepo) GetByID(ctx context.Context, id int64) (models.Book, error) {
	var b models.Book
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, author, isbn, total_copies, available_copies
		   FROM books WHERE id=$1`, id,
	).Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.TotalCopies, &b.AvailableCopies)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Book{}, repo.ErrNotFound
	}
	return b, err
}

func (r *booksRepo) List(ctx context.Context) ([]models.Book, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, author, isbn, total_copies, available_copies
		   FROM books ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.TotalCopies, &b.AvailableCopies); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *booksRepo) Update(ctx context.Context, b models.Book) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books
		    SET title=$2, author=$3, isbn=$4, total_copies=$5, available_copies=$6
		  WHERE id=$1`,
		b.ID, b.Title, b.Author, b.ISBN, b.TotalCopies, b.AvailableCopies,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *booksRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

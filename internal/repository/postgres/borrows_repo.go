package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openshelf/library-api/internal/models"
	repo "github.com/openshelf/library-api/internal/repository"
)

type borrowsRepo struct{ pool *pgxpool.Pool }

// withTx runs fn inside one transaction and commits only when it succeeds.
func (r *borrowsRepo) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (r *borrowsRepo) Borrow(ctx context.Context, bookID, userID int64, at time.Time) (models.BorrowRecord, error) {
	rec := models.BorrowRecord{UserID: userID, BookID: bookID, BorrowDate: at}

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		// The conditional decrement takes the row lock; every competing
		// borrow of the same book queues behind it.
		tag, err := tx.Exec(ctx,
			`UPDATE books SET available_copies = available_copies - 1
			  WHERE id=$1 AND available_copies > 0`, bookID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM books WHERE id=$1)`, bookID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return repo.ErrNotFound
			}
			return repo.ErrNoCopies
		}

		var open bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM borrow_records
			   WHERE user_id=$1 AND book_id=$2 AND NOT is_returned)`,
			userID, bookID).Scan(&open); err != nil {
			return err
		}
		if open {
			return repo.ErrAlreadyBorrowed
		}

		return tx.QueryRow(ctx,
			`INSERT INTO borrow_records(user_id, book_id, borrow_date, is_returned)
			 VALUES($1,$2,$3,false)
			 RETURNING id`,
			userID, bookID, at).Scan(&rec.ID)
	})
	if err != nil {
		return models.BorrowRecord{}, err
	}
	return rec, nil
}

func (r *borrowsRepo) Close(ctx context.Context, borrowID, bookID int64, at time.Time) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE borrow_records SET is_returned=true, return_date=$2
			  WHERE id=$1 AND NOT is_returned`, borrowID, at)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM borrow_records WHERE id=$1)`, borrowID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return repo.ErrNotFound
			}
			return repo.ErrAlreadyReturned
		}

		_, err = tx.Exec(ctx,
			`UPDATE books SET available_copies = available_copies + 1 WHERE id=$1`, bookID)
		return err
	})
}

func (r *borrowsRepo) GetByID(ctx context.Context, id int64) (models.BorrowRecord, error) {
	var rec models.BorrowRecord
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, book_id, borrow_date, return_date, is_returned
		   FROM borrow_records WHERE id=$1`, id,
	).Scan(&rec.ID, &rec.UserID, &rec.BookID, &rec.BorrowDate, &rec.ReturnDate, &rec.IsReturned)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.BorrowRecord{}, repo.ErrNotFound
	}
	return rec, err
}

func (r *borrowsRepo) HasOpenForUser(ctx context.Context, userID, bookID int64) (bool, error) {
	var open bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM borrow_records
		   WHERE user_id=$1 AND book_id=$2 AND NOT is_returned)`,
		userID, bookID).Scan(&open)
	return open, err
}

func (r *borrowsRepo) HasOpenForBook(ctx context.Context, bookID int64) (bool, error) {
	var open bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM borrow_records
		   WHERE book_id=$1 AND NOT is_returned)`, bookID).Scan(&open)
	return open, err
}

func (r *borrowsRepo) ListByUser(ctx context.Context, userID int64) ([]models.BorrowDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT br.id, br.book_id, b.title, b.author, br.borrow_date, br.return_date, br.is_returned
		   FROM borrow_records br
		   JOIN books b ON b.id = br.book_id
		  WHERE br.user_id=$1
		  ORDER BY br.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.BorrowDetail
	for rows.Next() {
		var d models.BorrowDetail
		if err := rows.Scan(&d.ID, &d.BookID, &d.BookTitle, &d.BookAuthor, &d.BorrowDate, &d.ReturnDate, &d.IsReturned); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *borrowsRepo) ListAll(ctx context.Context) ([]models.BorrowSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT br.id, br.user_id, u.username, br.book_id, b.title, br.borrow_date, br.return_date, br.is_returned
		   FROM borrow_records br
		   JOIN users u ON u.id = br.user_id
		   JOIN books b ON b.id = br.book_id
		  ORDER BY br.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.BorrowSummary
	for rows.Next() {
		var s models.BorrowSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.Username, &s.BookID, &s.BookTitle, &s.BorrowDate, &s.ReturnDate, &s.IsReturned); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *borrowsRepo) Insert(ctx context.Context, rec models.BorrowRecord) (models.BorrowRecord, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO borrow_records(user_id, book_id, borrow_date, return_date, is_returned)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING id`,
		rec.UserID, rec.BookID, rec.BorrowDate, rec.ReturnDate, rec.IsReturned).Scan(&rec.ID)
	return rec, err
}

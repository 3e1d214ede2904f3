package memory

import (
	"context"
	"sort"
	"time"

	"github.com/openshelf/library-api/internal/models"
	repo "github.com/openshelf/library-api/internal/repository"
)

type borrowsRepo struct{ s *store }

func (r *borrowsRepo) Borrow(_ context.Context, bookID, userID int64, at time.Time) (models.BorrowRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.books[bookID]
	if !ok {
		return models.BorrowRecord{}, repo.ErrNotFound
	}
	if b.AvailableCopies <= 0 {
		return models.BorrowRecord{}, repo.ErrNoCopies
	}
	for _, rec := range r.s.borrows {
		if rec.UserID == userID && rec.BookID == bookID && !rec.IsReturned {
			return models.BorrowRecord{}, repo.ErrAlreadyBorrowed
		}
	}

	b.AvailableCopies--
	r.s.books[bookID] = b

	r.s.nextBorrowID++
	rec := models.BorrowRecord{
		ID:         r.s.nextBorrowID,
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: at,
	}
	r.s.borrows[rec.ID] = rec
	return rec, nil
}

func (r *borrowsRepo) Close(_ context.Context, borrowID, bookID int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.borrows[borrowID]
	if !ok {
		return repo.ErrNotFound
	}
	if rec.IsReturned {
		return repo.ErrAlreadyReturned
	}

	rec.IsReturned = true
	rec.ReturnDate = &at
	r.s.borrows[borrowID] = rec

	if b, ok := r.s.books[bookID]; ok {
		b.AvailableCopies++
		r.s.books[bookID] = b
	}
	return nil
}

func (r *borrowsRepo) GetByID(_ context.Context, id int64) (models.BorrowRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.borrows[id]
	if !ok {
		return models.BorrowRecord{}, repo.ErrNotFound
	}
	return rec, nil
}

func (r *borrowsRepo) HasOpenForUser(_ context.Context, userID, bookID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range r.s.borrows {
		if rec.UserID == userID && rec.BookID == bookID && !rec.IsReturned {
			return true, nil
		}
	}
	return false, nil
}

func (r *borrowsRepo) HasOpenForBook(_ context.Context, bookID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range r.s.borrows {
		if rec.BookID == bookID && !rec.IsReturned {
			return true, nil
		}
	}
	return false, nil
}

func (r *borrowsRepo) ListByUser(_ context.Context, userID int64) ([]models.BorrowDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.BorrowDetail
	for _, rec := range r.s.borrows {
		if rec.UserID != userID {
			continue
		}
		b := r.s.books[rec.BookID]
		out = append(out, models.BorrowDetail{
			ID:         rec.ID,
			BookID:     rec.BookID,
			BookTitle:  b.Title,
			BookAuthor: b.Author,
			BorrowDate: rec.BorrowDate,
			ReturnDate: rec.ReturnDate,
			IsReturned: rec.IsReturned,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *borrowsRepo) ListAll(_ context.Context) ([]models.BorrowSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.BorrowSummary
	for _, rec := range r.s.borrows {
		b := r.s.books[rec.BookID]
		u := r.s.users[rec.UserID]
		out = append(out, models.BorrowSummary{
			ID:         rec.ID,
			UserID:     rec.UserID,
			Username:   u.Username,
			BookID:     rec.BookID,
			BookTitle:  b.Title,
			BorrowDate: rec.BorrowDate,
			ReturnDate: rec.ReturnDate,
			IsReturned: rec.IsReturned,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *borrowsRepo) Insert(_ context.Context, rec models.BorrowRecord) (models.BorrowRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextBorrowID++
	rec.ID = r.s.nextBorrowID
	r.s.borrows[rec.ID] = rec
	return rec, nil
}

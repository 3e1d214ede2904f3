package memory

import (
	"context"
	"sort"

	"github.com/openshelf/library-api/internal/models"
	repo "github.com/openshelf/library-api/internal/repository"
)

type booksRepo struct{ s *store }

func (r *booksRepo) Create(_ context.Context, b models.Book) (models.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextBookID++
	b.ID = r.s.nextBookID
	r.s.books[b.ID] = b
	return b, nil
}

func (r *booksRepo) GetByID(_ context.Context, id int64) (models.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.books[id]
	if !ok {
		return models.Book{}, repo.ErrNotFound
	}
	return b, nil
}

func (r *booksRepo) List(_ context.Context) ([]models.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]models.Book, 0, len(r.s.books))
	for _, b := range r.s.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *booksRepo) Update(_ context.Context, b models.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[b.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.books[b.ID] = b
	return nil
}

func (r *booksRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.books, id)
	return nil
}

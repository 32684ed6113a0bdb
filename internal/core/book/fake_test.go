// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/madr-app/madr/internal/core/book"
	"github.com/madr-app/madr/internal/platform/dberr"
	"github.com/madr-app/madr/pkg/pagination"
)

// fakeAuthors is a fixed set of author ids and names.
type fakeAuthors map[int64]string

func (f fakeAuthors) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f[id]
	return ok, nil
}

// memRepository is an in-memory book.Repository that joins author names from fakeAuthors.
type memRepository struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]*book.Book
	authors fakeAuthors
}

func newMemRepository(authors fakeAuthors) *memRepository {
	return &memRepository{nextID: 1, rows: map[int64]*book.Book{}, authors: authors}
}

func (m *memRepository) joined(b *book.Book) *book.Book {
	copied := *b
	copied.AuthorName = m.authors[b.AuthorID]
	return &copied
}

func (m *memRepository) List(_ context.Context, f book.Filter, page pagination.Params) ([]*book.Book, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]*book.Book, 0)
	for _, b := range m.rows {
		if f.Title != "" && !strings.Contains(b.Title, f.Title) {
			continue
		}
		if f.Year != nil && b.Year != *f.Year {
			continue
		}
		matched = append(matched, m.joined(b))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	start := min(page.Offset, total)
	end := min(start+page.Limit, total)
	return matched[start:end], total, nil
}

func (m *memRepository) GetByID(_ context.Context, id int64) (*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.rows[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return m.joined(b), nil
}

func (m *memRepository) GetByTitle(_ context.Context, title string) (*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.rows {
		if b.Title == title {
			return m.joined(b), nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (m *memRepository) write(b *book.Book) error {
	if _, ok := m.authors[b.AuthorID]; !ok {
		return &dberr.ConstraintError{Kind: dberr.KindForeignKey, Constraint: "fk_books_author"}
	}
	for _, existing := range m.rows {
		if existing.Title == b.Title && existing.ID != b.ID {
			return &dberr.ConstraintError{Kind: dberr.KindUnique, Constraint: "uq_books_title"}
		}
	}
	return nil
}

func (m *memRepository) Create(_ context.Context, b *book.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.write(b); err != nil {
		return err
	}
	b.ID = m.nextID
	b.CreatedAt = time.Now()
	m.nextID++
	m.rows[b.ID] = m.joined(b)
	*b = *m.rows[b.ID]
	return nil
}

func (m *memRepository) Update(_ context.Context, b *book.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[b.ID]; !ok {
		return dberr.ErrNotFound
	}
	if err := m.write(b); err != nil {
		return err
	}
	now := time.Now()
	b.UpdatedAt = &now
	m.rows[b.ID] = m.joined(b)
	*b = *m.rows[b.ID]
	return nil
}

func (m *memRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepository) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := m.rows[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

func (m *memRepository) DeleteMany(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		if _, ok := m.rows[id]; !ok {
			return dberr.ErrNotFound
		}
	}
	for _, id := range ids {
		delete(m.rows, id)
	}
	return nil
}

func (m *memRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// racingRepository misses every title lookup and fails writes with writeErr,
// as when a concurrent write lands between the pre-checks and the statement.
type racingRepository struct {
	*memRepository
	writeErr error
}

func (r *racingRepository) GetByTitle(context.Context, string) (*book.Book, error) {
	return nil, dberr.ErrNotFound
}

func (r *racingRepository) Create(context.Context, *book.Book) error { return r.writeErr }

func (r *racingRepository) Update(context.Context, *book.Book) error { return r.writeErr }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/madr-app/madr/internal/core/author"
	"github.com/madr-app/madr/internal/platform/dberr"
	"github.com/madr-app/madr/pkg/pagination"
)

// memRepository is an in-memory author.Repository.
type memRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*author.Author
}

func newMemRepository() *memRepository {
	return &memRepository{nextID: 1, rows: map[int64]*author.Author{}}
}

func (m *memRepository) List(_ context.Context, f author.Filter, page pagination.Params) ([]*author.Author, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]*author.Author, 0)
	for _, a := range m.rows {
		if f.Name == "" || strings.Contains(a.Name, f.Name) {
			copied := *a
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	start := min(page.Offset, total)
	end := min(start+page.Limit, total)
	return matched[start:end], total, nil
}

func (m *memRepository) GetByID(_ context.Context, id int64) (*author.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.rows[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *memRepository) GetByName(_ context.Context, name string) (*author.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.rows {
		if a.Name == name {
			copied := *a
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (m *memRepository) Create(_ context.Context, a *author.Author) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.rows {
		if existing.Name == a.Name {
			return &dberr.ConstraintError{Kind: dberr.KindUnique, Constraint: "uq_authors_name"}
		}
	}

	a.ID = m.nextID
	a.CreatedAt = time.Now()
	m.nextID++
	copied := *a
	m.rows[a.ID] = &copied
	return nil
}

func (m *memRepository) Update(_ context.Context, a *author.Author) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[a.ID]; !ok {
		return dberr.ErrNotFound
	}
	now := time.Now()
	a.UpdatedAt = &now
	copied := *a
	m.rows[a.ID] = &copied
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

// racingRepository misses every name lookup and fails writes with writeErr,
// as when a concurrent insert lands between the lookup and the write.
type racingRepository struct {
	*memRepository
	writeErr error
}

func (r *racingRepository) GetByName(context.Context, string) (*author.Author, error) {
	return nil, dberr.ErrNotFound
}

func (r *racingRepository) Create(context.Context, *author.Author) error { return r.writeErr }

func (r *racingRepository) Update(context.Context, *author.Author) error { return r.writeErr }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

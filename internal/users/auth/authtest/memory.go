// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides an in-memory [auth.UserRepository] for tests of
// packages that build on the credential store.
package authtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/madr-app/madr/internal/platform/database/schema"
	"github.com/madr-app/madr/internal/platform/dberr"
	"github.com/madr-app/madr/internal/users/auth"
	"github.com/madr-app/madr/pkg/pagination"
)

// Users is a concurrency-safe in-memory user table enforcing the same unique
// constraints as the Postgres schema.
type Users struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*auth.User
}

// NewUsers returns an empty table.
func NewUsers() *Users {
	return &Users{nextID: 1, rows: map[int64]*auth.User{}}
}

func (m *Users) find(match func(*auth.User) bool) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if match(m.rows[id]) {
			copied := *m.rows[id]
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (m *Users) FindByID(_ context.Context, id int64) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.ID == id })
}

func (m *Users) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.Email == email })
}

func (m *Users) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.Username == username })
}

func (m *Users) FindByGoogleSub(_ context.Context, sub string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.GoogleSub != nil && *u.GoogleSub == sub })
}

func (m *Users) FindConflicting(_ context.Context, username, email string, excludeID int64) (*auth.User, error) {
	if username != "" {
		user, err := m.find(func(u *auth.User) bool { return u.ID != excludeID && u.Username == username })
		if err == nil {
			return user, nil
		}
	}
	if email != "" {
		return m.find(func(u *auth.User) bool { return u.ID != excludeID && u.Email == email })
	}
	return nil, dberr.ErrNotFound
}

func (m *Users) List(_ context.Context, page pagination.Params) ([]*auth.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*auth.User, 0, len(m.rows))
	for _, u := range m.rows {
		copied := *u
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	start := min(page.Offset, total)
	end := min(start+page.Limit, total)
	return all[start:end], total, nil
}

// violation reports the unique constraint user would break.
func (m *Users) violation(user *auth.User) error {
	for _, existing := range m.rows {
		if existing.ID == user.ID {
			continue
		}
		switch {
		case existing.Username == user.Username:
			return &dberr.ConstraintError{Kind: dberr.KindUnique, Constraint: schema.UserAccount.UniqueUsername}
		case existing.Email == user.Email:
			return &dberr.ConstraintError{Kind: dberr.KindUnique, Constraint: schema.UserAccount.UniqueEmail}
		case user.GoogleSub != nil && existing.GoogleSub != nil && *existing.GoogleSub == *user.GoogleSub:
			return &dberr.ConstraintError{Kind: dberr.KindUnique, Constraint: schema.UserAccount.UniqueGoogleSub}
		}
	}
	return nil
}

func (m *Users) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.violation(user); err != nil {
		return err
	}
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.nextID++

	copied := *user
	m.rows[user.ID] = &copied
	return nil
}

func (m *Users) Update(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.rows[user.ID]
	if !ok {
		return dberr.ErrNotFound
	}
	if err := m.violation(user); err != nil {
		return err
	}

	now := time.Now()
	user.UpdatedAt = &now
	copied := *user
	copied.PasswordHash = existing.PasswordHash
	m.rows[user.ID] = &copied
	return nil
}

func (m *Users) UpdatePassword(_ context.Context, userID int64, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.rows[userID]
	if !ok {
		return dberr.ErrNotFound
	}
	existing.PasswordHash = newHash
	return nil
}

func (m *Users) MarkVerified(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.rows[userID]
	if !ok {
		return dberr.ErrNotFound
	}
	existing.IsVerified = true
	return nil
}

func (m *Users) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// Count returns the number of stored users.
func (m *Users) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// Seed stores user as-is (including its password hash) and returns its id.
func (m *Users) Seed(user auth.User) int64 {
	if err := m.Create(context.Background(), &user); err != nil {
		panic(err)
	}
	return user.ID
}

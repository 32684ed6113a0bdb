// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/madr-app/madr/internal/platform/dberr"
	"github.com/madr-app/madr/internal/platform/mail"
	"github.com/madr-app/madr/internal/users/auth"
	"github.com/madr-app/madr/internal/users/auth/authtest"
)

// racingUsers misses every conflict lookup and fails writes with writeErr,
// as when a concurrent signup lands between the lookup and the insert.
type racingUsers struct {
	*authtest.Users
	writeErr error
}

func (r *racingUsers) FindConflicting(context.Context, string, string, int64) (*auth.User, error) {
	return nil, dberr.ErrNotFound
}

func (r *racingUsers) Create(context.Context, *auth.User) error { return r.writeErr }

func (r *racingUsers) Update(context.Context, *auth.User) error { return r.writeErr }

// flakyUsers fails the next password or verification write with writeErr, then recovers.
type flakyUsers struct {
	*authtest.Users
	writeErr error
}

func (f *flakyUsers) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	if err := f.writeErr; err != nil {
		f.writeErr = nil
		return err
	}
	return f.Users.UpdatePassword(ctx, userID, hash)
}

func (f *flakyUsers) MarkVerified(ctx context.Context, userID int64) error {
	if err := f.writeErr; err != nil {
		f.writeErr = nil
		return err
	}
	return f.Users.MarkVerified(ctx, userID)
}

// memLedger is an in-memory token ledger.
type memLedger struct {
	mu   sync.Mutex
	used map[string]time.Duration
	err  error
}

func newLedger() *memLedger {
	return &memLedger{used: map[string]time.Duration{}}
}

func (l *memLedger) Consume(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return false, l.err
	}
	if _, ok := l.used[jti]; ok {
		return false, nil
	}
	l.used[jti] = ttl
	return true, nil
}

func (l *memLedger) Release(_ context.Context, jti string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.used, jti)
	return nil
}

// recordingMailer keeps every message it was asked to send.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, message mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, message)
	return nil
}

func (m *recordingMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

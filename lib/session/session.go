// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bureau-foundation/portal/account"
)

// Storage keys. Values are strings; the user record is stored as its
// JSON encoding.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

var (
	// ErrAnonymous is returned when an operation needs a signed-in
	// session and none exists.
	ErrAnonymous = errors.New("session: not logged in")

	// ErrCorrupt is returned when the store holds one key without the
	// other, or the user record does not decode.
	ErrCorrupt = errors.New("session: stored session is corrupt")
)

// State is the lifecycle state derived from the store.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Session is a persisted login: the access token and the account's
// profile as the server last returned it.
type Session struct {
	Token string
	User  account.UserRecord
}

// Entries is a set of key-value pairs read from or written to a Store.
type Entries map[string]string

// Store is the durable key-value boundary. Implementations must apply
// each Write atomically: after a crash either all of set and remove
// took effect or none did.
type Store interface {
	// Read returns every stored key. A store that was never written
	// returns an empty map and no error.
	Read(ctx context.Context) (Entries, error)
	// Write stores set and deletes remove in one atomic step.
	Write(ctx context.Context, set Entries, remove []string) error
	Close() error
}

// Manager implements the session lifecycle on top of a Store.
type Manager struct {
	store  Store
	logger *slog.Logger

	// mu serializes read-modify-write sequences within this process.
	mu sync.Mutex
}

// NewManager wraps store. A nil logger discards output.
func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{store: store, logger: logger}
}

// Load returns the stored session, [ErrAnonymous] when there is none,
// or an error wrapping [ErrCorrupt].
func (m *Manager) Load(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

func (m *Manager) load(ctx context.Context) (*Session, error) {
	entries, err := m.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	token, hasToken := entries[KeyToken]
	userJSON, hasUser := entries[KeyUser]
	switch {
	case !hasToken && !hasUser:
		return nil, ErrAnonymous
	case hasToken != hasUser:
		return nil, fmt.Errorf("%w: token present %t, user present %t", ErrCorrupt, hasToken, hasUser)
	}

	var user account.UserRecord
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("%w: decoding user: %v", ErrCorrupt, err)
	}
	return &Session{Token: token, User: user}, nil
}

// State reports Authenticated only for a complete, decodable session.
// Read failures and corrupt stores report Anonymous.
func (m *Manager) State(ctx context.Context) State {
	if _, err := m.Load(ctx); err != nil {
		return Anonymous
	}
	return Authenticated
}

// Require is the guard for views that need a signed-in account. It
// returns the session, or an error matching [ErrAnonymous] that the
// caller answers by sending the user to login. A corrupt store also
// matches [ErrCorrupt].
func (m *Manager) Require(ctx context.Context) (*Session, error) {
	current, err := m.Load(ctx)
	switch {
	case err == nil:
		return current, nil
	case errors.Is(err, ErrAnonymous):
		return nil, err
	case errors.Is(err, ErrCorrupt):
		m.logger.Warn("ignoring corrupt session", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAnonymous, err)
	default:
		return nil, err
	}
}

// Establish persists a new session, replacing any existing one. Both
// keys are written in one store operation.
func (m *Manager) Establish(ctx context.Context, token string, user account.UserRecord) error {
	if token == "" {
		return fmt.Errorf("session: refusing to store an empty token")
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encoding user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Write(ctx, Entries{KeyToken: token, KeyUser: string(userJSON)}, nil); err != nil {
		return fmt.Errorf("session: saving: %w", err)
	}
	m.logger.Info("session established", "email", user.Email)
	return nil
}

// ReplaceUser overwrites the stored user record with the server's
// latest copy and leaves the token untouched. It fails with
// [ErrAnonymous] when no complete session is stored.
func (m *Manager) ReplaceUser(ctx context.Context, user account.UserRecord) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encoding user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.load(ctx); err != nil {
		if errors.Is(err, ErrCorrupt) {
			return fmt.Errorf("%w: %w", ErrAnonymous, err)
		}
		return err
	}
	if err := m.store.Write(ctx, Entries{KeyUser: string(userJSON)}, nil); err != nil {
		return fmt.Errorf("session: saving user: %w", err)
	}
	m.logger.Debug("session user replaced", "email", user.Email)
	return nil
}

// Logout removes both keys. Logging out of an anonymous or corrupt
// store succeeds and leaves it empty.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Write(ctx, nil, []string{KeyToken, KeyUser}); err != nil {
		return fmt.Errorf("session: clearing: %w", err)
	}
	m.logger.Info("session cleared")
	return nil
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

// Package session tracks who is signed in on this device.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/yotip/homestead/internal/prefs"
	"github.com/yotip/homestead/internal/remote"
)

// Provider supplies the current user id and reports transitions.
type Provider interface {
	Current() string
	Subscribe(fn func(userID string)) (unsubscribe func())
}

// Persister stores the sign-in between runs.
type Persister interface {
	Session() prefs.Session
	SetSession(prefs.Session) error
}

var _ Provider = (*Manager)(nil)

// Manager is a Provider backed by remote accounts and persisted prefs.
type Manager struct {
	accounts remote.Accounts
	persist  Persister
	log      *slog.Logger

	mu      sync.Mutex
	current prefs.Session
	subs    map[int]func(string)
	nextSub int
}

// NewManager restores the persisted session, if any.
func NewManager(accounts remote.Accounts, persist Persister, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Manager{
		accounts: accounts,
		persist:  persist,
		log:      logger.With("component", "session"),
		subs:     make(map[int]func(string)),
	}
	if persist != nil {
		m.current = persist.Session()
	}
	return m
}

// Current returns the signed-in user id, or "" when signed out.
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.UserID
}

// Email returns the signed-in email, if known.
func (m *Manager) Email() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Email
}

// Subscribe registers fn for transitions. fn runs on the goroutine that caused
// the transition and must not call back into the Manager.
func (m *Manager) Subscribe(fn func(userID string)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
		})
	}
}

// SignUp creates an account and signs in as it.
func (m *Manager) SignUp(ctx context.Context, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	acct, err := m.accounts.SignUp(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	m.set(prefs.Session{UserID: acct.ID, Email: acct.Email})
	return nil
}

// SignIn authenticates and switches to the account.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	acct, err := m.accounts.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	m.set(prefs.Session{UserID: acct.ID, Email: acct.Email})
	return nil
}

// SignInAs switches to a raw user id without credentials. Used for local play.
func (m *Manager) SignInAs(userID string) {
	m.set(prefs.Session{UserID: strings.TrimSpace(userID)})
}

// SignOut clears the session.
func (m *Manager) SignOut() {
	m.set(prefs.Session{})
}

func (m *Manager) set(s prefs.Session) {
	m.mu.Lock()
	changed := s.UserID != m.current.UserID
	m.current = s
	subs := make([]func(string), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	if m.persist != nil {
		if err := m.persist.SetSession(s); err != nil {
			m.log.Warn("persist session failed", "error", err)
		}
	}
	if !changed {
		return
	}
	m.log.Info("session changed", "user_id", s.UserID)
	for _, fn := range subs {
		fn(s.UserID)
	}
}

func validateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("enter a valid email address")
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

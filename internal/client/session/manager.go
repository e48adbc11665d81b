// Package session holds the signed-in identity and the decrypted API key for
// the lifetime of the CLI process. Only the server-issued token and the
// identity are persisted; the API key itself never touches disk.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/nihongo/internal/client/client"
	"github.com/dmitrijs2005/nihongo/internal/client/models"
	"github.com/dmitrijs2005/nihongo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/nihongo/internal/common"
	"github.com/dmitrijs2005/nihongo/internal/logging"
)

var ErrNotLoggedIn = errors.New("not logged in")

type state struct {
	identity models.Identity
	secret   []byte
	token    string
}

// Manager moves between LoggedOut (state nil) and LoggedIn.
type Manager struct {
	// op serialises Login, Register, Logout and Restore.
	op sync.Mutex

	mu    sync.RWMutex
	state *state

	api   client.API
	store metadata.Repository
	log   logging.Logger
}

func NewManager(api client.API, store metadata.Repository, log logging.Logger) *Manager {
	return &Manager{api: api, store: store, log: log.With("module", "session")}
}

// Login replaces any current session. On failure the manager is LoggedOut
// and the server's message is returned unchanged.
func (m *Manager) Login(ctx context.Context, username, password string) (models.Identity, error) {
	m.op.Lock()
	defer m.op.Unlock()

	m.endLocked(ctx)

	s, err := m.api.Login(ctx, username, password)
	if err != nil {
		return models.Identity{}, err
	}
	return m.begin(ctx, s), nil
}

// Register follows the same transition rules as Login.
func (m *Manager) Register(ctx context.Context, username, password, apiKey string) (models.Identity, error) {
	m.op.Lock()
	defer m.op.Unlock()

	m.endLocked(ctx)

	s, err := m.api.Register(ctx, username, password, apiKey)
	if err != nil {
		return models.Identity{}, err
	}
	return m.begin(ctx, s), nil
}

// Restore resumes a session persisted by an earlier run. It reports false
// when nothing was stored or the server no longer accepts the token; a
// rejected token is forgotten.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	m.op.Lock()
	defer m.op.Unlock()

	token, ok, err := m.store.Get(ctx, metadata.KeySessionToken)
	if err != nil {
		return false, err
	}
	if !ok || token == "" {
		return false, nil
	}

	s, err := m.api.Resume(ctx, token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			m.log.Info(ctx, "stored session rejected, clearing it")
			if derr := m.store.Delete(ctx, metadata.SessionKeys...); derr != nil {
				m.log.Warn(ctx, "clear stored session failed", "error", derr)
			}
			return false, nil
		}
		return false, err
	}

	m.begin(ctx, s)
	return true, nil
}

// Logout wipes the in-memory secret and every persisted session key, then
// asks the server to revoke the token. Revocation is best effort.
func (m *Manager) Logout(ctx context.Context) error {
	m.op.Lock()
	defer m.op.Unlock()

	if m.current() == nil {
		return ErrNotLoggedIn
	}
	return m.endLocked(ctx)
}

func (m *Manager) CurrentIdentity() (models.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return models.Identity{}, false
	}
	return m.state.identity, true
}

// Secret returns a copy of the decrypted API key.
func (m *Manager) Secret() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return "", false
	}
	return string(m.state.secret), true
}

// Token is the bearer token for authenticated API calls, "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return ""
	}
	return m.state.token
}

func (m *Manager) current() *state {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) begin(ctx context.Context, s *models.Session) models.Identity {
	m.mu.Lock()
	m.state = &state{identity: s.User, secret: []byte(s.APIKey), token: s.Token}
	m.mu.Unlock()

	if s.Token != "" {
		err := m.store.SetAll(ctx, map[string]string{
			metadata.KeySessionToken: s.Token,
			metadata.KeyUserID:       s.User.ID,
			metadata.KeyUsername:     s.User.Username,
		})
		if err != nil {
			// the session still works for this run
			m.log.Warn(ctx, "persist session failed", "error", err)
		}
	}

	m.log.Info(ctx, "signed in", "user_id", s.User.ID, "username", s.User.Username)
	return s.User
}

// endLocked drops the current session, if any. Callers hold m.op.
func (m *Manager) endLocked(ctx context.Context) error {
	m.mu.Lock()
	old := m.state
	m.state = nil
	m.mu.Unlock()

	if old != nil {
		common.WipeByteArray(old.secret)
		old.secret = nil
	}

	var storeErr error
	if err := m.store.Delete(ctx, metadata.SessionKeys...); err != nil {
		m.log.Error(ctx, "erase stored session failed", "error", err)
		storeErr = err
	}

	if old != nil && old.token != "" {
		if err := m.api.Logout(ctx, old.token); err != nil {
			m.log.Warn(ctx, "server logout failed", "error", err)
		}
	}

	return storeErr
}

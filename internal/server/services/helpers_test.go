package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/nihongo/internal/cryptox"
	"github.com/dmitrijs2005/nihongo/internal/logging"
	"github.com/dmitrijs2005/nihongo/internal/server/config"
	"github.com/dmitrijs2005/nihongo/internal/server/models"
	"github.com/dmitrijs2005/nihongo/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/nihongo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nihongo/internal/server/repositories/studylogs"
	"github.com/dmitrijs2005/nihongo/internal/server/sessions"
)

const testPassphrase = "test-passphrase"

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	return &config.Config{SecretKey: "jwt-test-key", SessionTokenValidityDuration: time.Hour}
}

func newCipher(t *testing.T, passphrase string) *cryptox.Cipher {
	t.Helper()
	c, err := cryptox.NewCipher(passphrase)
	require.NoError(t, err)
	return c
}

func newAuthService(t *testing.T, m repomanager.RepositoryManager) *AuthService {
	t.Helper()
	return NewAuthService(m, newCipher(t, testPassphrase), sessions.NewMemoryRevoker(), testConfig(), discardLogger())
}

// fakeManager lets a test swap in failing repositories.
type fakeManager struct {
	repomanager.RepositoryManager
	accounts  accounts.Repository
	studyLogs studylogs.Repository
}

func (f *fakeManager) Accounts() accounts.Repository   { return f.accounts }
func (f *fakeManager) StudyLogs() studylogs.Repository { return f.studyLogs }

var errDBDown = errors.New("db down")

type fakeAccounts struct {
	getByUsername func(ctx context.Context, username string) (*models.Account, error)
	getByID       func(ctx context.Context, id string) (*models.Account, error)
	create        func(ctx context.Context, a *models.Account) (*models.Account, error)
}

func (f *fakeAccounts) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	return f.create(ctx, a)
}

func (f *fakeAccounts) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return f.getByUsername(ctx, username)
}

func (f *fakeAccounts) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return f.getByID(ctx, id)
}

type fakeStudyLogs struct {
	appendErr error
	listErr   error
}

func (f *fakeStudyLogs) Append(ctx context.Context, l *models.StudyLog) (*models.StudyLog, error) {
	return nil, f.appendErr
}

func (f *fakeStudyLogs) ListByUser(ctx context.Context, userID string, limit int) ([]models.StudyLog, error) {
	return nil, f.listErr
}

type failingRevoker struct{ sessions.MemoryRevoker }

func (f *failingRevoker) Revoke(context.Context, string, time.Time) error { return errDBDown }
func (f *failingRevoker) IsRevoked(context.Context, string) (bool, error) { return false, errDBDown }

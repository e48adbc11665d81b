package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/nihongo/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/nihongo/internal/server/repositories/studylogs"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestPostgresManager_Factories(t *testing.T) {
	db, _ := newDB(t)
	m := NewPostgresRepositoryManager(db)

	assert.IsType(t, &accounts.PostgresRepository{}, m.Accounts())
	assert.IsType(t, &studylogs.PostgresRepository{}, m.StudyLogs())

	var _ RepositoryManager = m
}

func TestPostgresManager_RunMigrations(t *testing.T) {
	db, _ := newDB(t)

	var gotDir string
	stubGoose(t, func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		assert.Same(t, db, got)
		return nil
	})

	require.NoError(t, NewPostgresRepositoryManager(db).RunMigrations(context.Background()))
	assert.Equal(t, ".", gotDir)
}

func TestPostgresManager_RunMigrationsError(t *testing.T) {
	db, _ := newDB(t)
	stubGoose(t, func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	err := NewPostgresRepositoryManager(db).RunMigrations(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestPostgresManager_Ping(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	m := NewPostgresRepositoryManager(db)
	assert.NoError(t, m.Ping(context.Background()))
	assert.Error(t, m.Ping(context.Background()))
}

func TestNew_EmptyDSNSelectsMemory(t *testing.T) {
	m, err := New(context.Background(), "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepositoryManager{}, m)
	assert.NoError(t, m.RunMigrations(context.Background()))
	assert.NoError(t, m.Ping(context.Background()))
	assert.NoError(t, m.Close())
}

func TestNew_PostgresPingFailure(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()

	orig := sqlOpen
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		assert.Equal(t, "pgx", driver)
		return db, nil
	}
	t.Cleanup(func() { sqlOpen = orig })

	_, err := New(context.Background(), "postgres://localhost/nihongo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping db")
}

func TestNew_Postgres(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectPing()

	orig := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { sqlOpen = orig })

	m, err := New(context.Background(), "postgres://localhost/nihongo")
	require.NoError(t, err)
	assert.IsType(t, &PostgresRepositoryManager{}, m)
}

func TestMemoryManager_SharesStore(t *testing.T) {
	m := NewMemoryRepositoryManager()
	assert.NotNil(t, m.Accounts())
	assert.NotNil(t, m.StudyLogs())
}

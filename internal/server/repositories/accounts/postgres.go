package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nihongo/internal/common"
	"github.com/dmitrijs2005/nihongo/internal/dbx"
	"github.com/dmitrijs2005/nihongo/internal/server/models"
	"github.com/dmitrijs2005/nihongo/internal/server/repositories/pgcode"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create relies on the unique index on username, so a lost race surfaces as
// common.ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (username, password_salt, password_hash, encrypted_api_key, iv)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Username, account.PasswordSalt, account.PasswordHash, account.EncryptedAPIKey, account.IV,
	).Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		if pgcode.Is(err, pgcode.UniqueViolation) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, username, password_salt, password_hash, encrypted_api_key, iv, created_at FROM accounts
		 WHERE username = $1
		 `

	return r.getOne(ctx, query, username)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT id, username, password_salt, password_hash, encrypted_api_key, iv, created_at FROM accounts
		 WHERE id = $1
		 `

	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Username, &a.PasswordSalt, &a.PasswordHash, &a.EncryptedAPIKey, &a.IV, &a.CreatedAt,
	)

	if err != nil {
		// a malformed uuid cannot match any row
		if errors.Is(err, sql.ErrNoRows) || pgcode.Is(err, pgcode.InvalidTextRepresentation) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

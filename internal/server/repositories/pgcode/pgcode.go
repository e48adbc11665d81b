// Package pgcode maps PostgreSQL error codes the repositories care about.
package pgcode

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	UniqueViolation           = "23505"
	ForeignKeyViolation       = "23503"
	InvalidTextRepresentation = "22P02"
)

// Is reports whether err wraps a *pgconn.PgError with the given code.
func Is(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// Package accounts stores registered learners.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/nihongo/internal/server/models"
)

// Repository persists accounts. Create must reject a duplicate username with
// common.ErrorConflict atomically, even when two registrations race.
// Lookups return common.ErrorNotFound when nothing matches.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
}

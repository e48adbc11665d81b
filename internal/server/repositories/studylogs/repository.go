// Package studylogs stores the append-only study history.
package studylogs

import (
	"context"

	"github.com/dmitrijs2005/nihongo/internal/server/models"
)

// Repository appends and lists study logs. Append returns
// common.ErrorNotFound when the owning account does not exist. ListByUser
// returns at most limit logs, newest first, and an empty slice (not an error)
// for a user without history.
type Repository interface {
	Append(ctx context.Context, log *models.StudyLog) (*models.StudyLog, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.StudyLog, error)
}

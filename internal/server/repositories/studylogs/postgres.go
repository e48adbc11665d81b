package studylogs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/nihongo/internal/common"
	"github.com/dmitrijs2005/nihongo/internal/dbx"
	"github.com/dmitrijs2005/nihongo/internal/modules"
	"github.com/dmitrijs2005/nihongo/internal/server/models"
	"github.com/dmitrijs2005/nihongo/internal/server/repositories/pgcode"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, log *models.StudyLog) (*models.StudyLog, error) {
	query :=
		`INSERT INTO study_logs (user_id, module_type, duration_sec, accuracy_score)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, completed_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		log.UserID, string(log.ModuleType), log.DurationSec, log.AccuracyScore,
	).Scan(&log.ID, &log.CompletedAt)

	if err != nil {
		if pgcode.Is(err, pgcode.ForeignKeyViolation) || pgcode.Is(err, pgcode.InvalidTextRepresentation) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return log, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.StudyLog, error) {
	query :=
		`SELECT id, user_id, module_type, duration_sec, accuracy_score, completed_at FROM study_logs
		 WHERE user_id = $1
		 ORDER BY completed_at DESC, id DESC
		 LIMIT $2
		 `

	result := make([]models.StudyLog, 0)

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		if pgcode.Is(err, pgcode.InvalidTextRepresentation) {
			return result, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.StudyLog
		var module string
		if err := rows.Scan(&l.ID, &l.UserID, &module, &l.DurationSec, &l.AccuracyScore, &l.CompletedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		l.ModuleType = modules.Type(module)
		result = append(result, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nihongo/internal/common"
	"github.com/dmitrijs2005/nihongo/internal/logging"
	"github.com/dmitrijs2005/nihongo/internal/modules"
	"github.com/dmitrijs2005/nihongo/internal/server/models"
	"github.com/dmitrijs2005/nihongo/internal/server/repositories/repomanager"
)

// HistoryService appends and reads study logs.
type HistoryService struct {
	repomanager repomanager.RepositoryManager
	limit       int
	log         logging.Logger
}

func NewHistoryService(m repomanager.RepositoryManager, limit int, log logging.Logger) *HistoryService {
	if limit <= 0 || limit > common.HistoryLimit {
		limit = common.HistoryLimit
	}
	return &HistoryService{repomanager: m, limit: limit, log: log.With("service", "history")}
}

// Record validates and appends one log entry for userID.
func (s *HistoryService) Record(ctx context.Context, userID string, module modules.Type, durationSec, accuracyScore int) (*models.StudyLog, error) {
	switch {
	case isBlank(userID):
		return nil, fmt.Errorf("%w: user_id is required", common.ErrorValidation)
	case module == "":
		return nil, fmt.Errorf("%w: module_type is required", common.ErrorValidation)
	case !module.Valid():
		return nil, fmt.Errorf("%w: unknown module_type %q", common.ErrorValidation, module)
	case durationSec < 0:
		return nil, fmt.Errorf("%w: duration_sec must not be negative", common.ErrorValidation)
	case accuracyScore < models.MinAccuracyScore || accuracyScore > models.MaxAccuracyScore:
		return nil, fmt.Errorf("%w: accuracy_score must be between 0 and 100", common.ErrorValidation)
	}

	entry, err := s.repomanager.StudyLogs().Append(ctx, &models.StudyLog{
		UserID:        userID,
		ModuleType:    module,
		DurationSec:   durationSec,
		AccuracyScore: accuracyScore,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: unknown user_id", common.ErrorValidation)
		}
		s.log.Error(ctx, "append study log failed", "error", err)
		return nil, common.ErrorInternal
	}

	return entry, nil
}

// ListRecent returns the newest logs for userID, never more than the
// configured limit. A user with no history gets an empty slice.
func (s *HistoryService) ListRecent(ctx context.Context, userID string) ([]models.StudyLog, error) {
	if isBlank(userID) {
		return nil, fmt.Errorf("%w: userId is required", common.ErrorValidation)
	}

	logs, err := s.repomanager.StudyLogs().ListByUser(ctx, userID, s.limit)
	if err != nil {
		s.log.Error(ctx, "list study logs failed", "error", err)
		return nil, common.ErrorInternal
	}
	if logs == nil {
		logs = []models.StudyLog{}
	}
	return logs, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/nihongo/internal/common"
	"github.com/dmitrijs2005/nihongo/internal/logging"
	"github.com/dmitrijs2005/nihongo/internal/server/archive"
	"github.com/dmitrijs2005/nihongo/internal/server/models"
)

// Archive is the object store the history export writes to.
type Archive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// Export points at an uploaded history snapshot.
type Export struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type exportDocument struct {
	UserID     string            `json:"user_id"`
	ExportedAt time.Time         `json:"exported_at"`
	Logs       []models.StudyLog `json:"logs"`
}

// ExportService snapshots a user's recent history into object storage.
type ExportService struct {
	history *HistoryService
	archive Archive
	now     func() time.Time
	log     logging.Logger
}

// NewExportService accepts a nil archive; Export then reports
// common.ErrorNotConfigured.
func NewExportService(history *HistoryService, a Archive, log logging.Logger) *ExportService {
	return &ExportService{history: history, archive: a, now: time.Now, log: log.With("service", "export")}
}

func (s *ExportService) Export(ctx context.Context, userID string) (*Export, error) {
	if s.archive == nil {
		return nil, common.ErrorNotConfigured
	}

	logs, err := s.history.ListRecent(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	body, err := json.Marshal(exportDocument{UserID: userID, ExportedAt: now, Logs: logs})
	if err != nil {
		return nil, errors.Join(common.ErrorInternal, err)
	}

	key := archive.HistoryKey(userID, now)
	if err := s.archive.Put(ctx, key, body, "application/json"); err != nil {
		s.log.Error(ctx, "upload history export failed", "key", key, "error", err)
		return nil, common.ErrorInternal
	}

	url, err := s.archive.PresignGet(ctx, key)
	if err != nil {
		s.log.Error(ctx, "presign history export failed", "key", key, "error", err)
		return nil, common.ErrorInternal
	}

	return &Export{URL: url, Key: key}, nil
}

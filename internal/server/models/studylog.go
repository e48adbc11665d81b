package models

import (
	"time"

	"github.com/dmitrijs2005/nihongo/internal/modules"
)

const (
	MinAccuracyScore = 0
	MaxAccuracyScore = 100
)

// StudyLog is one completed visit to a learning module. Logs are append-only.
type StudyLog struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	ModuleType    modules.Type `json:"module_type"`
	DurationSec   int          `json:"duration_sec"`
	AccuracyScore int          `json:"accuracy_score"`
	CompletedAt   time.Time    `json:"completed_at"`
}

// Package models holds the client-side view of the API payloads.
package models

import "time"

type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Session is what register, login and session resume return.
type Session struct {
	User   Identity `json:"user"`
	APIKey string   `json:"apiKey"`
	Token  string   `json:"token"`
}

type StudyLog struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ModuleType    string    `json:"module_type"`
	DurationSec   int       `json:"duration_sec"`
	AccuracyScore int       `json:"accuracy_score"`
	CompletedAt   time.Time `json:"completed_at"`
}

// NewStudyLog is the body of POST /history.
type NewStudyLog struct {
	UserID        string `json:"user_id"`
	ModuleType    string `json:"module_type"`
	DurationSec   int    `json:"duration_sec"`
	AccuracyScore int    `json:"accuracy_score"`
}

type Export struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

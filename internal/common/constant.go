// Package common contains shared constants, sentinel errors and small helpers
// used by both the server and the CLI client.
package common

import "time"

const (
	// AuthorizationHeaderName carries the session token as "Bearer <token>".
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the session token in the Authorization header.
	BearerPrefix = "Bearer "

	// HistoryLimit caps how many study logs a single history read returns.
	HistoryLimit = 50

	// MinVisitDuration is the dwell time a module visit must exceed to be logged.
	MinVisitDuration = 5 * time.Second
)

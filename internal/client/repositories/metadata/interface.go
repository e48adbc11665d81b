// Package metadata is the client's local key/value store. The session manager
// keeps the session token and the signed-in identity here between runs.
package metadata

import (
	"context"
)

// Keys written by the session manager.
const (
	KeySessionToken = "session.token"
	KeyUserID       = "session.user_id"
	KeyUsername     = "session.username"
)

// SessionKeys lists every key logout must erase.
var SessionKeys = []string{KeySessionToken, KeyUserID, KeyUsername}

type Repository interface {
	// Get reports ok=false when key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// SetAll upserts every pair in one transaction.
	SetAll(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}

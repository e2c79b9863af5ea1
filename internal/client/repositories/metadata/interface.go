// Package metadata stores the CLI's small key/value state (session and
// last known profile) in the local SQLite database.
package metadata

import (
	"context"
)

const (
	KeyEmail        = "email"
	KeyUserID       = "user_id"
	KeyRefreshToken = "refresh_token"
)

// Repository is a string key/value store. Get reports a missing key as
// common.ErrorNotFound.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}

package hunt

import (
	"context"
	"time"
)

// Profile is the per-user hunt record.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname,omitempty"`
	AvatarRef string    `json:"avatar_ref,omitempty"`
	Progress  int       `json:"progress"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressStore persists profiles.
//
// CompareAndSetProgress writes next only if the stored progress equals
// expected, and returns common.ErrVersionConflict otherwise. Missing profiles
// are reported as common.ErrorNotFound.
type ProgressStore interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	CompareAndSetProgress(ctx context.Context, userID string, expected, next int) (*Profile, error)
	ResetProgress(ctx context.Context, userID string) (*Profile, error)
}

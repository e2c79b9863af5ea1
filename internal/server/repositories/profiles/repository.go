// Package profiles stores the per-user hunt record.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
)

// Repository is a hunt.ProgressStore plus the profile edits the web and CLI
// surfaces need.
type Repository interface {
	hunt.ProgressStore

	Create(ctx context.Context, p *hunt.Profile) error
	// EnsureExists inserts a fresh profile unless one already exists.
	EnsureExists(ctx context.Context, userID, email string) error
	UpdateNickname(ctx context.Context, userID, nickname string) (*hunt.Profile, error)
	UpdateAvatar(ctx context.Context, userID, avatarRef string) (*hunt.Profile, error)
}

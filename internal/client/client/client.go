package client

import (
	"context"

	"github.com/dmitrijs2005/schnitzeljagd/internal/api"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
)

// Client is the transport-agnostic contract the CLI services need from the
// hunt backend. It is also a hunt.ProgressStore, so a hunt.Controller can
// run on the client against server-side state.
type Client interface {
	hunt.ProgressStore

	Ping(ctx context.Context) error
	Register(ctx context.Context, email, password, nickname string) (string, error)
	Login(ctx context.Context, email, password string) error
	Resume(ctx context.Context, refreshToken string) error
	Logout(ctx context.Context) error
	RefreshTokenValue() string
	OnTokenRefresh(fn func(refreshToken string))

	Profile(ctx context.Context) (*api.Profile, error)
	SubmitScan(ctx context.Context, payload string) (*api.SubmitScanResponse, error)
	Story(ctx context.Context, index int) (*api.GetStoryResponse, error)
	Hint(ctx context.Context, index int) (string, error)
	Chapters(ctx context.Context) ([]api.Chapter, error)
	UpdateNickname(ctx context.Context, nickname string) (*api.Profile, error)
	RequestAvatarUpload(ctx context.Context, ext string) (*api.RequestAvatarUploadResponse, error)
	ConfirmAvatar(ctx context.Context, key string) (*api.Profile, error)

	Close() error
}

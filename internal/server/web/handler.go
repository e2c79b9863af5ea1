// Package web serves the browser pages of the hunt on the original route
// surface.
package web

import (
	"context"
	"time"

	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/logging"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/models"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/services"
)

// Start of the hunt, shown on the initial view.
const (
	StartLat = 53.691712548796104
	StartLon = 7.802534736928744
)

type userSvc interface {
	Register(ctx context.Context, email, password, nickname string) (*models.User, error)
	Login(ctx context.Context, clientKey, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(accessToken string) (string, error)
}

type profileSvc interface {
	GetProfile(ctx context.Context, userID string) (*hunt.Profile, error)
	UpdateNickname(ctx context.Context, userID, nickname string) (*hunt.Profile, error)
	UploadAvatar(ctx context.Context, userID string, data []byte, ext string) (*hunt.Profile, error)
	AvatarURL(ref string) string
}

type huntSvc interface {
	Machine() hunt.Machine
	Profile(ctx context.Context, userID string) (*hunt.Profile, error)
	Scan(ctx context.Context, userID, payload string) (hunt.Outcome, error)
	Reset(ctx context.Context, userID string) (*hunt.Profile, error)
	Waypoint(ctx context.Context, userID string, k int) (*services.WaypointPage, error)
	Hint(ctx context.Context, userID string, k int) (string, error)
	Chapters(ctx context.Context, userID string) (*hunt.Profile, []models.Story, error)
}

// Handler holds the page handlers and the session middleware.
type Handler struct {
	users      userSvc
	profiles   profileSvc
	hunt       huntSvc
	logger     logging.Logger
	sessionTTL time.Duration
	secure     bool
}

func NewHandler(us userSvc, ps profileSvc, hs huntSvc, sessionTTL time.Duration, secureCookies bool, l logging.Logger) *Handler {
	return &Handler{
		users:      us,
		profiles:   ps,
		hunt:       hs,
		logger:     l.With("module", "web"),
		sessionTTL: sessionTTL,
		secure:     secureCookies,
	}
}

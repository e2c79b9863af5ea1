package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/schnitzeljagd/internal/api"
	"github.com/dmitrijs2005/schnitzeljagd/internal/client/client"
	"github.com/dmitrijs2005/schnitzeljagd/internal/client/config"
	"github.com/dmitrijs2005/schnitzeljagd/internal/client/services"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/logging"
	"github.com/dmitrijs2005/schnitzeljagd/internal/scanner"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type huntSvc interface {
	Load(ctx context.Context) (*hunt.Profile, error)
	Machine() hunt.Machine
	NewSession(decoder hunt.Decoder, notify func(hunt.Notice)) (*hunt.ScanSession, error)
	ScanFile(ctx context.Context, userID, path string) (hunt.Outcome, error)
	Submit(ctx context.Context, payload string) (*api.SubmitScanResponse, error)
	Reset(ctx context.Context, userID string) (*hunt.Profile, error)
	Story(ctx context.Context, k int) (*api.GetStoryResponse, error)
	Hint(ctx context.Context, k int) (string, error)
	Chapters(ctx context.Context) ([]api.Chapter, error)
}

type profileSvc interface {
	Profile(ctx context.Context) (*api.Profile, error)
	UpdateNickname(ctx context.Context, nickname string) (*api.Profile, error)
	UploadAvatar(ctx context.Context, path string) (*api.Profile, error)
}

type App struct {
	config         *config.Config
	logger         logging.Logger
	authService    services.AuthService
	huntService    huntSvc
	profileService profileSvc
	reader         *bufio.Reader
	out            io.Writer

	// newDecoder builds the camera decoder; replaced in tests.
	newDecoder func() hunt.Decoder

	mu           sync.Mutex
	email        string
	profile      *hunt.Profile
	Mode         Mode
	session      *hunt.ScanSession
	lastRejected int
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "initializing database", "error", err)
		return nil, err
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config:         c,
		logger:         logger.With("module", "cli"),
		authService:    services.NewAuthService(apiClient, db, logger),
		huntService:    services.NewHuntService(apiClient, logger),
		profileService: services.NewProfileService(apiClient),
		reader:         bufio.NewReader(os.Stdin),
		out:            os.Stdout,
	}
	a.newDecoder = func() hunt.Decoder {
		dir := c.FramesDir
		return scanner.NewDecoder(func() (scanner.FrameSource, error) {
			return scanner.NewDirSource(dir)
		}, scanner.WithInterval(c.FrameInterval))
	}
	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)
	defer a.stopCamera()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile != nil
}

func (a *App) currentProfile() (hunt.Profile, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.profile == nil {
		return hunt.Profile{}, false
	}
	return *a.profile, true
}

func (a *App) setProfile(p *hunt.Profile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.profile = p
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

// StartOnlineStatusWatcher pings the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := a.authService.Ping(ctx); err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}
		case <-ctx.Done():
			return
		}
	}
}

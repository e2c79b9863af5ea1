// Package server wires the hunt backend together: PostgreSQL, Redis, S3,
// the gRPC endpoint for the CLI and the web pages, with graceful shutdown on
// SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/logging"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/cache"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/config"
	gs "github.com/dmitrijs2005/schnitzeljagd/internal/server/grpc"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/services"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/web"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	redis          *redis.Client
	userService    *services.UserService
	profileService *services.ProfileService
	huntService    *services.HuntService
}

// caches picks Redis-backed limiter and locker when an address is
// configured, process-local ones otherwise.
type caches struct {
	limiter cache.Limiter
	locker  cache.Locker
	client  *redis.Client
}

func newCaches(ctx context.Context, c *config.Config) (*caches, error) {
	if c.RedisAddr == "" {
		return &caches{
			limiter: cache.NewLocalLimiter(c.LoginRateLimit, c.LoginRateWindow),
			locker:  cache.NewLocalLocker(),
		}, nil
	}
	rdb, err := cache.Connect(ctx, c.RedisAddr)
	if err != nil {
		return nil, err
	}
	return &caches{
		limiter: cache.NewRedisLimiter(rdb, "login", c.LoginRateLimit, c.LoginRateWindow),
		locker:  cache.NewRedisLocker(rdb),
		client:  rdb,
	}, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	cs, err := newCaches(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if cs.client == nil {
		logger.Warn(ctx, "redis not configured, using in-process rate limiter and scan lock")
	}

	machine := hunt.NewMachine(c.Waypoints)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		redis:          cs.client,
		userService:    services.NewUserService(db, rm, cs.limiter, c),
		profileService: services.NewProfileService(db, rm, services.NewAvatarStorage(c)),
		huntService:    services.NewHuntService(db, rm, machine, cs.locker, c.ScanLockTTL, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.userService, app.profileService, app.huntService, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := web.NewHandler(app.userService, app.profileService, app.huntService,
		app.config.RefreshTokenValidity, strings.HasPrefix(app.config.PublicBaseURL, "https://"), app.logger)
	s := web.NewHTTPServer(app.config.HTTPAddr, web.NewRouter(h, app.config.CORSOrigins), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "waypoints", app.huntService.Machine().Waypoints)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}

// Package grpc serves the hunt API to the scanner client.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/schnitzeljagd/internal/api"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/logging"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/models"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	Register(ctx context.Context, email, password, nickname string) (*models.User, error)
	Login(ctx context.Context, clientKey, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type profileSvc interface {
	GetProfile(ctx context.Context, userID string) (*hunt.Profile, error)
	UpdateNickname(ctx context.Context, userID, nickname string) (*hunt.Profile, error)
	RequestAvatarUpload(ctx context.Context, userID, ext string) (key, url, contentType string, err error)
	ConfirmAvatar(ctx context.Context, userID, key string) (*hunt.Profile, error)
	AvatarURL(ref string) string
}

type huntSvc interface {
	Machine() hunt.Machine
	Scan(ctx context.Context, userID, payload string) (hunt.Outcome, error)
	Advance(ctx context.Context, userID string, expected, next int) (*hunt.Profile, error)
	Reset(ctx context.Context, userID string) (*hunt.Profile, error)
	Waypoint(ctx context.Context, userID string, k int) (*services.WaypointPage, error)
	Hint(ctx context.Context, userID string, k int) (string, error)
	Chapters(ctx context.Context, userID string) (*hunt.Profile, []models.Story, error)
}

type GRPCServer struct {
	address   string
	users     userSvc
	profiles  profileSvc
	hunt      huntSvc
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us userSvc, ps profileSvc, hs huntSvc, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		profiles:  ps,
		hunt:      hs,
		jwtSecret: []byte(secretKey),
	}
}

var _ api.HuntServer = (*GRPCServer)(nil)

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterHuntServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}

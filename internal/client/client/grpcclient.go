package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/schnitzeljagd/internal/api"
	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// pingTimeout bounds the liveness check independently of the caller.
const pingTimeout = 3 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.HuntClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onRefresh    func(refreshToken string)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	s.accessToken = access
	s.refreshToken = refresh
	hook := s.onRefresh
	s.mu.Unlock()

	if hook != nil && refresh != "" {
		hook(refresh)
	}
}

// accessTokenInterceptor attaches the current access token. When the server
// answers Unauthenticated with "token expired" it rotates the token pair
// once and repeats the call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.tokens()

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return rerr
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewHuntClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// OnTokenRefresh registers fn to be called with every new refresh token,
// including the ones obtained transparently by the interceptor.
func (s *GRPCClient) OnTokenRefresh(fn func(refreshToken string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRefresh = fn
}

func (s *GRPCClient) RefreshTokenValue() string {
	_, refresh := s.tokens()
	return refresh
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, email, password, nickname string) (string, error) {
	resp, err := s.client.RegisterUser(ctx, &api.RegisterUserRequest{Email: email, Password: password, Nickname: nickname})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.UserID, nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) error {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return s.mapError(err)
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// Resume restores a session from a stored refresh token.
func (s *GRPCClient) Resume(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrNotLoggedIn
	}
	resp, err := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return s.mapError(err)
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// Logout revokes the refresh token on the server. Local tokens are dropped
// even when the call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	_, refresh := s.tokens()

	s.mu.Lock()
	s.accessToken, s.refreshToken = "", ""
	s.mu.Unlock()

	if refresh == "" {
		return nil
	}
	if _, err := s.client.Logout(ctx, &api.LogoutRequest{RefreshToken: refresh}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Profile(ctx context.Context) (*api.Profile, error) {
	resp, err := s.client.GetProfile(ctx, &api.GetProfileRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Profile, nil
}

// GetProfile implements hunt.ProgressStore. The server resolves the user
// from the access token, so userID only has to be non-empty for the
// controller.
func (s *GRPCClient) GetProfile(ctx context.Context, userID string) (*hunt.Profile, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return toHuntProfile(p), nil
}

func (s *GRPCClient) CompareAndSetProgress(ctx context.Context, userID string, expected, next int) (*hunt.Profile, error) {
	resp, err := s.client.AdvanceProgress(ctx, &api.AdvanceProgressRequest{Expected: expected, Next: next})
	if err != nil {
		return nil, s.mapError(err)
	}
	return toHuntProfile(&resp.Profile), nil
}

func (s *GRPCClient) ResetProgress(ctx context.Context, userID string) (*hunt.Profile, error) {
	resp, err := s.client.ResetProgress(ctx, &api.ResetProgressRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return toHuntProfile(&resp.Profile), nil
}

func (s *GRPCClient) SubmitScan(ctx context.Context, payload string) (*api.SubmitScanResponse, error) {
	resp, err := s.client.SubmitScan(ctx, &api.SubmitScanRequest{Payload: payload})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Story(ctx context.Context, index int) (*api.GetStoryResponse, error) {
	resp, err := s.client.GetStory(ctx, &api.GetStoryRequest{Index: index})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Hint(ctx context.Context, index int) (string, error) {
	resp, err := s.client.GetHint(ctx, &api.GetHintRequest{Index: index})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Hint, nil
}

func (s *GRPCClient) Chapters(ctx context.Context) ([]api.Chapter, error) {
	resp, err := s.client.ListChapters(ctx, &api.ListChaptersRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Chapters, nil
}

func (s *GRPCClient) UpdateNickname(ctx context.Context, nickname string) (*api.Profile, error) {
	resp, err := s.client.UpdateNickname(ctx, &api.UpdateNicknameRequest{Nickname: nickname})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Profile, nil
}

func (s *GRPCClient) RequestAvatarUpload(ctx context.Context, ext string) (*api.RequestAvatarUploadResponse, error) {
	resp, err := s.client.RequestAvatarUpload(ctx, &api.RequestAvatarUploadRequest{Extension: ext})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ConfirmAvatar(ctx context.Context, key string) (*api.Profile, error) {
	resp, err := s.client.ConfirmAvatar(ctx, &api.ConfirmAvatarRequest{Key: key})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Profile, nil
}

func toHuntProfile(p *api.Profile) *hunt.Profile {
	return &hunt.Profile{
		ID:        p.ID,
		Email:     p.Email,
		Nickname:  p.Nickname,
		AvatarRef: p.AvatarURL,
		Progress:  p.Progress,
	}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrLocked, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Aborted:
		return fmt.Errorf("%w: %s", common.ErrVersionConflict, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorValidation, st.Message())
	case codes.ResourceExhausted:
		return fmt.Errorf("%w: %s", common.ErrTooManyRequests, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

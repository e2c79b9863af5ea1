package grpc

import (
	"context"

	"github.com/dmitrijs2005/schnitzeljagd/internal/api"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *api.RegisterUserRequest) (*api.RegisterUserResponse, error) {
	s.logger.Info(ctx, "Registration request")

	user, err := s.users.Register(ctx, req.Email, req.Password, req.Nickname)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &api.RegisterUserResponse{UserID: user.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	tokens, err := s.users.Login(ctx, clientKey(ctx), req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.RefreshTokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *api.LogoutRequest) (*api.LogoutResponse, error) {
	if err := s.users.Logout(ctx, req.RefreshToken); err != nil {
		return nil, toStatus(err)
	}
	return &api.LogoutResponse{}, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, req *api.GetProfileRequest) (*api.ProfileResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.GetProfile(ctx, userID)
	return s.profileResponse(p, err)
}

func (s *GRPCServer) SubmitScan(ctx context.Context, req *api.SubmitScanRequest) (*api.SubmitScanResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	out, err := s.hunt.Scan(ctx, userID, req.Payload)
	if err != nil {
		s.logger.Warn(ctx, "scan failed", "user_id", userID, "error", err)
		return nil, toStatus(err)
	}

	resp := &api.SubmitScanResponse{
		Accepted: out.Decision.Accepted,
		Target:   out.Decision.Target,
		View:     string(out.View),
		Profile:  s.toProfile(out.Profile),
	}
	if !out.Decision.Accepted {
		resp.Reason = out.Decision.Reason.String()
	}
	return resp, nil
}

func (s *GRPCServer) AdvanceProgress(ctx context.Context, req *api.AdvanceProgressRequest) (*api.ProfileResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.hunt.Advance(ctx, userID, req.Expected, req.Next)
	return s.profileResponse(p, err)
}

func (s *GRPCServer) ResetProgress(ctx context.Context, req *api.ResetProgressRequest) (*api.ProfileResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.hunt.Reset(ctx, userID)
	return s.profileResponse(p, err)
}

func (s *GRPCServer) GetStory(ctx context.Context, req *api.GetStoryRequest) (*api.GetStoryResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	page, err := s.hunt.Waypoint(ctx, userID, req.Index)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetStoryResponse{
		Index:    page.Index,
		Title:    page.Story.Title,
		Content:  page.Story.Content,
		Terminal: page.Terminal,
	}, nil
}

func (s *GRPCServer) GetHint(ctx context.Context, req *api.GetHintRequest) (*api.GetHintResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	h, err := s.hunt.Hint(ctx, userID, req.Index)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetHintResponse{Hint: h}, nil
}

func (s *GRPCServer) ListChapters(ctx context.Context, req *api.ListChaptersRequest) (*api.ListChaptersResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	_, list, err := s.hunt.Chapters(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &api.ListChaptersResponse{Chapters: make([]api.Chapter, 0, len(list))}
	for _, st := range list {
		resp.Chapters = append(resp.Chapters, api.Chapter{Index: st.ID, Title: st.Title, Content: st.Content})
	}
	return resp, nil
}

func (s *GRPCServer) UpdateNickname(ctx context.Context, req *api.UpdateNicknameRequest) (*api.ProfileResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.UpdateNickname(ctx, userID, req.Nickname)
	return s.profileResponse(p, err)
}

func (s *GRPCServer) RequestAvatarUpload(ctx context.Context, req *api.RequestAvatarUploadRequest) (*api.RequestAvatarUploadResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	key, url, ct, err := s.profiles.RequestAvatarUpload(ctx, userID, req.Extension)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.RequestAvatarUploadResponse{Key: key, URL: url, ContentType: ct}, nil
}

func (s *GRPCServer) ConfirmAvatar(ctx context.Context, req *api.ConfirmAvatarRequest) (*api.ProfileResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.ConfirmAvatar(ctx, userID, req.Key)
	return s.profileResponse(p, err)
}

// --- helpers below ---

func (s *GRPCServer) userID(ctx context.Context) (string, error) {
	id, ok := userIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Internal, "missing user id in context")
	}
	return id, nil
}

func (s *GRPCServer) toProfile(p *hunt.Profile) api.Profile {
	if p == nil {
		return api.Profile{Waypoints: s.hunt.Machine().Waypoints}
	}
	return api.Profile{
		ID:        p.ID,
		Email:     p.Email,
		Nickname:  p.Nickname,
		AvatarURL: s.profiles.AvatarURL(p.AvatarRef),
		Progress:  p.Progress,
		Waypoints: s.hunt.Machine().Waypoints,
	}
}

func (s *GRPCServer) profileResponse(p *hunt.Profile, err error) (*api.ProfileResponse, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ProfileResponse{Profile: s.toProfile(p)}, nil
}

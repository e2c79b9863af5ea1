package api

import (
	"context"

	"google.golang.org/grpc"
)

// HuntClient is the client side of the hunt service.
type HuntClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error)
	GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	SubmitScan(ctx context.Context, in *SubmitScanRequest, opts ...grpc.CallOption) (*SubmitScanResponse, error)
	AdvanceProgress(ctx context.Context, in *AdvanceProgressRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	ResetProgress(ctx context.Context, in *ResetProgressRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	GetStory(ctx context.Context, in *GetStoryRequest, opts ...grpc.CallOption) (*GetStoryResponse, error)
	GetHint(ctx context.Context, in *GetHintRequest, opts ...grpc.CallOption) (*GetHintResponse, error)
	ListChapters(ctx context.Context, in *ListChaptersRequest, opts ...grpc.CallOption) (*ListChaptersResponse, error)
	UpdateNickname(ctx context.Context, in *UpdateNicknameRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	RequestAvatarUpload(ctx context.Context, in *RequestAvatarUploadRequest, opts ...grpc.CallOption) (*RequestAvatarUploadResponse, error)
	ConfirmAvatar(ctx context.Context, in *ConfirmAvatarRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
}

type huntClient struct {
	cc grpc.ClientConnInterface
}

func NewHuntClient(cc grpc.ClientConnInterface) HuntClient {
	return &huntClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *huntClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *huntClient) RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error) {
	return invoke[RegisterUserResponse](ctx, c.cc, MethodRegisterUser, in, opts)
}

func (c *huntClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *huntClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *huntClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, MethodLogout, in, opts)
}

func (c *huntClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodGetProfile, in, opts)
}

func (c *huntClient) SubmitScan(ctx context.Context, in *SubmitScanRequest, opts ...grpc.CallOption) (*SubmitScanResponse, error) {
	return invoke[SubmitScanResponse](ctx, c.cc, MethodSubmitScan, in, opts)
}

func (c *huntClient) AdvanceProgress(ctx context.Context, in *AdvanceProgressRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodAdvanceProgress, in, opts)
}

func (c *huntClient) ResetProgress(ctx context.Context, in *ResetProgressRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodResetProgress, in, opts)
}

func (c *huntClient) GetStory(ctx context.Context, in *GetStoryRequest, opts ...grpc.CallOption) (*GetStoryResponse, error) {
	return invoke[GetStoryResponse](ctx, c.cc, MethodGetStory, in, opts)
}

func (c *huntClient) GetHint(ctx context.Context, in *GetHintRequest, opts ...grpc.CallOption) (*GetHintResponse, error) {
	return invoke[GetHintResponse](ctx, c.cc, MethodGetHint, in, opts)
}

func (c *huntClient) ListChapters(ctx context.Context, in *ListChaptersRequest, opts ...grpc.CallOption) (*ListChaptersResponse, error) {
	return invoke[ListChaptersResponse](ctx, c.cc, MethodListChapters, in, opts)
}

func (c *huntClient) UpdateNickname(ctx context.Context, in *UpdateNicknameRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodUpdateNickname, in, opts)
}

func (c *huntClient) RequestAvatarUpload(ctx context.Context, in *RequestAvatarUploadRequest, opts ...grpc.CallOption) (*RequestAvatarUploadResponse, error) {
	return invoke[RequestAvatarUploadResponse](ctx, c.cc, MethodRequestAvatarUpload, in, opts)
}

func (c *huntClient) ConfirmAvatar(ctx context.Context, in *ConfirmAvatarRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodConfirmAvatar, in, opts)
}

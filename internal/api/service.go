package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "hunt.HuntService"

const (
	MethodPing                = "Ping"
	MethodRegisterUser        = "RegisterUser"
	MethodLogin               = "Login"
	MethodRefreshToken        = "RefreshToken"
	MethodLogout              = "Logout"
	MethodGetProfile          = "GetProfile"
	MethodSubmitScan          = "SubmitScan"
	MethodAdvanceProgress     = "AdvanceProgress"
	MethodResetProgress       = "ResetProgress"
	MethodGetStory            = "GetStory"
	MethodGetHint             = "GetHint"
	MethodListChapters        = "ListChapters"
	MethodUpdateNickname      = "UpdateNickname"
	MethodRequestAvatarUpload = "RequestAvatarUpload"
	MethodConfirmAvatar       = "ConfirmAvatar"
)

// FullMethod returns the "/service/method" path gRPC uses for name.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// HuntServer is implemented by the server side of the hunt service.
type HuntServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*ProfileResponse, error)
	SubmitScan(context.Context, *SubmitScanRequest) (*SubmitScanResponse, error)
	AdvanceProgress(context.Context, *AdvanceProgressRequest) (*ProfileResponse, error)
	ResetProgress(context.Context, *ResetProgressRequest) (*ProfileResponse, error)
	GetStory(context.Context, *GetStoryRequest) (*GetStoryResponse, error)
	GetHint(context.Context, *GetHintRequest) (*GetHintResponse, error)
	ListChapters(context.Context, *ListChaptersRequest) (*ListChaptersResponse, error)
	UpdateNickname(context.Context, *UpdateNicknameRequest) (*ProfileResponse, error)
	RequestAvatarUpload(context.Context, *RequestAvatarUploadRequest) (*RequestAvatarUploadResponse, error)
	ConfirmAvatar(context.Context, *ConfirmAvatarRequest) (*ProfileResponse, error)
}

func unary[Req, Resp any](name string, call func(HuntServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(HuntServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(HuntServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the hunt service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HuntServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, HuntServer.Ping),
		unary(MethodRegisterUser, HuntServer.RegisterUser),
		unary(MethodLogin, HuntServer.Login),
		unary(MethodRefreshToken, HuntServer.RefreshToken),
		unary(MethodLogout, HuntServer.Logout),
		unary(MethodGetProfile, HuntServer.GetProfile),
		unary(MethodSubmitScan, HuntServer.SubmitScan),
		unary(MethodAdvanceProgress, HuntServer.AdvanceProgress),
		unary(MethodResetProgress, HuntServer.ResetProgress),
		unary(MethodGetStory, HuntServer.GetStory),
		unary(MethodGetHint, HuntServer.GetHint),
		unary(MethodListChapters, HuntServer.ListChapters),
		unary(MethodUpdateNickname, HuntServer.UpdateNickname),
		unary(MethodRequestAvatarUpload, HuntServer.RequestAvatarUpload),
		unary(MethodConfirmAvatar, HuntServer.ConfirmAvatar),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hunt",
}

func RegisterHuntServer(s grpc.ServiceRegistrar, srv HuntServer) {
	s.RegisterService(&ServiceDesc, srv)
}

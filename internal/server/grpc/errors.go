package grpc

import (
	"errors"

	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC codes. Anything unknown becomes
// Internal without leaking the cause.
func toStatus(err error) error {
	if err == nil {
		return nil
	}

	var locked *services.LockedError
	var limited *services.RateLimitedError

	switch {
	case errors.As(err, &locked):
		return status.Error(codes.PermissionDenied, locked.Error())
	case errors.As(err, &limited):
		return status.Error(codes.ResourceExhausted, limited.Error())
	case errors.Is(err, hunt.ErrNotAuthenticated), errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrVersionConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrTooManyRequests):
		return status.Error(codes.ResourceExhausted, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

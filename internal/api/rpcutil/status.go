package rpcutil

import (
	"context"
	"errors"

	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/Domenick1991/roombooking/internal/reliability"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus converts service errors into gRPC status errors.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	switch domain.KindOf(err) {
	case domain.KindRoomNotFound, domain.KindReservationNotFound:
		return status.Error(codes.NotFound, err.Error())
	case domain.KindRoomTypeMismatch, domain.KindOverCapacity:
		return status.Error(codes.FailedPrecondition, err.Error())
	case domain.KindInvalidRange, domain.KindInvalidInput:
		return status.Error(codes.InvalidArgument, err.Error())
	case domain.KindDateOverlap:
		return status.Error(codes.AlreadyExists, err.Error())
	}
	switch {
	case errors.Is(err, reliability.ErrCircuitOpen):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, reliability.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

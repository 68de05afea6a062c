package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindRoomNotFound        ErrorKind = "ROOM_NOT_FOUND"
	KindRoomTypeMismatch    ErrorKind = "ROOM_TYPE_MISMATCH"
	KindOverCapacity        ErrorKind = "OVER_CAPACITY"
	KindInvalidRange        ErrorKind = "INVALID_RANGE"
	KindDateOverlap         ErrorKind = "DATE_OVERLAP"
	KindInvalidInput        ErrorKind = "INVALID_INPUT"
	KindReservationNotFound ErrorKind = "RESERVATION_NOT_FOUND"
)

// Error is a client-class failure. Two errors are equal under errors.Is
// when their kinds match, so the sentinels below work as match targets.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

var (
	ErrRoomNotFound        = &Error{Kind: KindRoomNotFound, Message: "room not found"}
	ErrRoomTypeMismatch    = &Error{Kind: KindRoomTypeMismatch, Message: "room type mismatch"}
	ErrOverCapacity        = &Error{Kind: KindOverCapacity, Message: "guests exceed room capacity"}
	ErrInvalidRange        = &Error{Kind: KindInvalidRange, Message: "check-out must be after check-in"}
	ErrDateOverlap         = &Error{Kind: KindDateOverlap, Message: "room already booked for these dates"}
	ErrInvalidInput        = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrReservationNotFound = &Error{Kind: KindReservationNotFound, Message: "reservation not found"}
)

func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func WrapError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// ClientError marks the failure as caused by the request, so it is never retried.
func (e *Error) ClientError() bool { return true }

// KindOf returns the kind of the first domain error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

/*
NAME
  errors.go

AUTHOR
  Alan Noble <alan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package fpv implements the FPV frame codec: bit-plane prediction
// against a delta frame, followed by a binary range coder with one
// static per-plane probability for each bit position, with optional
// Brotli wrapping of the resulting payload.
package fpv

import "github.com/pkg/errors"

// Kind classifies a codec failure so callers can react programmatically
// without parsing error strings.
type Kind int

const (
	// KindNone is the zero value; never returned from a failing operation.
	KindNone Kind = iota

	// KindInvalidArgument indicates zero dimensions, inconsistent W*H,
	// or a nil buffer was passed to an operation.
	KindInvalidArgument

	// KindCorruptHeader indicates the container header failed to parse.
	KindCorruptHeader

	// KindCorruptIndex indicates the trailing frame index block failed
	// to parse.
	KindCorruptIndex

	// KindCorruptTrailer indicates the container footer (index offset,
	// frame count, trailing magic) failed to parse.
	KindCorruptTrailer

	// KindTruncatedPayload indicates a frame payload ended before its
	// declared length was satisfied.
	KindTruncatedPayload

	// KindTruncatedRecord indicates a frame record ended before its
	// declared length was satisfied.
	KindTruncatedRecord

	// KindEntropyError indicates the range coder hit an impossible
	// state: a zero/saturated probability, or range collapse.
	KindEntropyError

	// KindOutOfBounds indicates a requested frame index fell outside
	// [0, num_frames).
	KindOutOfBounds

	// KindStateError indicates an API was called while its owner was
	// in the wrong state (e.g. CompressFrame before Init).
	KindStateError
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindCorruptHeader:
		return "CorruptHeader"
	case KindCorruptIndex:
		return "CorruptIndex"
	case KindCorruptTrailer:
		return "CorruptTrailer"
	case KindTruncatedPayload:
		return "TruncatedPayload"
	case KindTruncatedRecord:
		return "TruncatedRecord"
	case KindEntropyError:
		return "EntropyError"
	case KindOutOfBounds:
		return "OutOfBounds"
	case KindStateError:
		return "StateError"
	default:
		return "None"
	}
}

// Error is the error type returned by every fallible operation in this
// module and in container/fpv. It carries a Kind for programmatic
// dispatch and wraps an underlying cause, if any, via github.com/pkg/errors
// so that %+v formatting still shows the original stack/cause.
type Error struct {
	Kind  Kind
	Msg   string
	cause error
}

// NewError returns an *Error of the given kind with no wrapped cause.
func NewError(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

// WrapError returns an *Error of the given kind wrapping cause.
func WrapError(k Kind, cause error, msg string) *Error {
	return &Error{Kind: k, Msg: msg, cause: errors.WithMessage(cause, msg)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.Msg
}

// Unwrap allows errors.Is/errors.As (and github.com/pkg/errors.Cause)
// to reach the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether err is an *Error of Kind k.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

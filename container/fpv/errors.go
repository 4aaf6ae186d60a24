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

package fpv

import codecfpv "github.com/ausocean/fpv/codec/fpv"

// The container shares a single failure taxonomy with the frame codec:
// corruption or truncation can surface at either layer and callers
// should not have to care which. Kind and Error are aliases of the
// codec/fpv types so a single switch on Kind covers both.
type (
	Kind  = codecfpv.Kind
	Error = codecfpv.Error
)

const (
	KindInvalidArgument  = codecfpv.KindInvalidArgument
	KindCorruptHeader    = codecfpv.KindCorruptHeader
	KindCorruptIndex     = codecfpv.KindCorruptIndex
	KindCorruptTrailer   = codecfpv.KindCorruptTrailer
	KindTruncatedPayload = codecfpv.KindTruncatedPayload
	KindTruncatedRecord  = codecfpv.KindTruncatedRecord
	KindEntropyError     = codecfpv.KindEntropyError
	KindOutOfBounds      = codecfpv.KindOutOfBounds
	KindStateError       = codecfpv.KindStateError
)

// NewError returns an *Error of the given kind with no wrapped cause.
func NewError(k Kind, msg string) *Error { return codecfpv.NewError(k, msg) }

// WrapError returns an *Error of the given kind wrapping cause.
func WrapError(k Kind, cause error, msg string) *Error { return codecfpv.WrapError(k, cause, msg) }

// Is reports whether err is an *Error of Kind k.
func Is(err error, k Kind) bool { return codecfpv.Is(err, k) }

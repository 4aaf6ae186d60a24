/*
NAME
  frame.go

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

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// flagBrotli is bit 0 of a record's flags byte: set when the payload
// is Brotli-wrapped, clear when it is raw.
const flagBrotli = 0x1

// Codec holds the fixed, per-stream parameters (dimensions, shift,
// endianness) needed to encode or decode a single frame record. A
// Codec is immutable and safe for concurrent use by multiple workers,
// since it carries no per-frame state — the reference (delta) frame is
// passed explicitly to each call.
type Codec struct {
	Width, Height int
	Shift         uint
	BigEndian     bool
}

// NewCodec validates and returns a Codec for the given dimensions.
func NewCodec(width, height int, shift uint, bigEndian bool) (*Codec, error) {
	if width <= 0 || height <= 0 {
		return nil, NewError(KindInvalidArgument, "fpv: width and height must be positive")
	}
	if shift > MaxShift {
		return nil, NewError(KindInvalidArgument, "fpv: shift out of range")
	}
	if int64(width)*int64(height) > (1<<32)-1 {
		return nil, NewError(KindInvalidArgument, "fpv: width*height overflows 32 bits")
	}
	return &Codec{Width: width, Height: height, Shift: shift, BigEndian: bigEndian}, nil
}

// PixelCount returns Width*Height.
func (c *Codec) PixelCount() int { return c.Width * c.Height }

// EncodeFrame encodes raw (a PixelCount()-length slice of 16-bit
// pixels) against the reference frame delta, producing a complete,
// self-delimited frame record (length varint, flags byte, payload).
// For the delta frame itself, callers pass a zero-filled delta of the
// same length (spec.md §4.3).
func (c *Codec) EncodeFrame(raw, delta []uint16) ([]byte, error) {
	n := c.PixelCount()
	if len(raw) != n || len(delta) != n {
		return nil, NewError(KindInvalidArgument, "EncodeFrame: frame length mismatch")
	}

	prep := make([]uint16, n)
	if err := Preprocess(prep, raw, c.Shift, c.BigEndian); err != nil {
		return nil, err
	}

	hi := make([]byte, n)
	lo := make([]byte, n)
	if err := PlaneSplit(hi, lo, prep, delta); err != nil {
		return nil, err
	}

	probHi, codedHi := encodePlane(hi)
	probLo, codedLo := encodePlane(lo)

	payload := make([]byte, 0, 2*probTableSize+binary.MaxVarintLen64+len(codedHi)+len(codedLo))
	payload = append(payload, packProbs(probHi)...)
	payload = append(payload, packProbs(probLo)...)
	payload = binary.AppendUvarint(payload, uint64(len(codedHi)))
	payload = append(payload, codedHi...)
	payload = append(payload, codedLo...)

	body := payload
	flags := byte(0)
	if wrapped := brotliCompress(payload); len(wrapped) < len(payload) {
		body = wrapped
		flags = flagBrotli
	}

	record := make([]byte, 0, binary.MaxVarintLen64+1+len(body))
	record = binary.AppendUvarint(record, uint64(len(body)+1))
	record = append(record, flags)
	record = append(record, body...)
	return record, nil
}

// DecodeFrame parses one frame record from the head of data (which may
// have further records, the index block, or the footer following it),
// decodes it against the reference frame delta, and returns the
// reconstructed pixels along with the number of bytes the record
// occupied so the caller can advance past it.
func (c *Codec) DecodeFrame(data []byte, delta []uint16) (pixels []uint16, consumed int, err error) {
	recLen, n1 := binary.Uvarint(data)
	if n1 <= 0 {
		return nil, 0, NewError(KindTruncatedRecord, "DecodeFrame: incomplete record length")
	}
	if recLen == 0 {
		return nil, 0, NewError(KindCorruptHeader, "DecodeFrame: zero-length record")
	}
	total := n1 + int(recLen)
	if total > len(data) || int64(n1)+int64(recLen) > int64(len(data)) {
		return nil, 0, NewError(KindTruncatedRecord, "DecodeFrame: record body truncated")
	}

	flags := data[n1]
	body := data[n1+1 : total]

	payload := body
	if flags&flagBrotli != 0 {
		payload, err = brotliDecompress(body)
		if err != nil {
			return nil, 0, err
		}
	}

	if len(payload) < 2*probTableSize {
		return nil, 0, NewError(KindTruncatedPayload, "DecodeFrame: payload shorter than probability tables")
	}
	probHi, err := unpackProbs(payload[:probTableSize])
	if err != nil {
		return nil, 0, err
	}
	probLo, err := unpackProbs(payload[probTableSize : 2*probTableSize])
	if err != nil {
		return nil, 0, err
	}
	rest := payload[2*probTableSize:]

	hiLen, n2 := binary.Uvarint(rest)
	if n2 <= 0 {
		return nil, 0, NewError(KindTruncatedPayload, "DecodeFrame: incomplete hi-plane length")
	}
	if int64(n2)+int64(hiLen) > int64(len(rest)) {
		return nil, 0, NewError(KindTruncatedPayload, "DecodeFrame: hi-plane stream truncated")
	}
	hiBuf := rest[n2 : n2+int(hiLen)]
	loBuf := rest[n2+int(hiLen):]

	n := c.PixelCount()
	hi, _, err := decodePlane(probHi, hiBuf, n)
	if err != nil {
		return nil, 0, errors.WithMessage(err, "DecodeFrame: hi plane")
	}
	lo, _, err := decodePlane(probLo, loBuf, n)
	if err != nil {
		return nil, 0, errors.WithMessage(err, "DecodeFrame: lo plane")
	}

	if len(delta) != n {
		return nil, 0, NewError(KindInvalidArgument, "DecodeFrame: reference frame length mismatch")
	}
	prep := make([]uint16, n)
	if err := PlaneMerge(prep, hi, lo, delta); err != nil {
		return nil, 0, err
	}

	pixels = make([]uint16, n)
	if err := Postprocess(pixels, prep, c.Shift, c.BigEndian); err != nil {
		return nil, 0, err
	}
	return pixels, total, nil
}

// ZeroFrame returns a PixelCount()-length all-zero reference frame,
// used as the reference for decoding/encoding the very first (delta)
// frame of a stream.
func (c *Codec) ZeroFrame() []uint16 {
	return make([]uint16, c.PixelCount())
}

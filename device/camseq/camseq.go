/*
NAME
  camseq.go

AUTHOR
  Alan Noble <alan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package camseq provides sequential reading and writing of raw camera
// sequence files: a fixed 14-byte header followed by a run of
// (timestamp, frame) records, one per captured frame.
package camseq

import (
	"encoding/binary"
	"fmt"
	"io"

	codecfpv "github.com/ausocean/fpv/codec/fpv"
)

// HeaderSize is the fixed size of a camera sequence file's header:
// width(4) + height(4) + bit depth(2) + kept frame count(4).
const HeaderSize = 14

// timestampSize is the size of a frame record's leading timestamp.
const timestampSize = 8

// Header describes the fixed geometry of every frame in a sequence.
type Header struct {
	Width, Height  uint32
	BitDepth       uint16
	KeptFrameCount uint32
}

// BytesPerPixel returns 1 for 8-bit sources and 2 for anything wider,
// matching how the sequence's raw per-frame payload is packed.
func (h Header) BytesPerPixel() int {
	if h.BitDepth <= 8 {
		return 1
	}
	return 2
}

// FrameDataSize returns the number of raw payload bytes per frame,
// excluding the timestamp.
func (h Header) FrameDataSize() int {
	return int(h.Width) * int(h.Height) * h.BytesPerPixel()
}

// Encode appends the wire encoding of h to buf and returns the result.
func (h Header) Encode(buf []byte) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], h.Width)
	buf = append(buf, tmp[:]...)
	binary.LittleEndian.PutUint32(tmp[:], h.Height)
	buf = append(buf, tmp[:]...)
	var tmp2 [2]byte
	binary.LittleEndian.PutUint16(tmp2[:], h.BitDepth)
	buf = append(buf, tmp2[:]...)
	binary.LittleEndian.PutUint32(tmp[:], h.KeptFrameCount)
	buf = append(buf, tmp[:]...)
	return buf
}

// DecodeHeader parses a Header from the first HeaderSize bytes of buf.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, codecfpv.NewError(codecfpv.KindCorruptHeader, "camseq: header truncated")
	}
	h := Header{
		Width:          binary.LittleEndian.Uint32(buf[0:4]),
		Height:         binary.LittleEndian.Uint32(buf[4:8]),
		BitDepth:       binary.LittleEndian.Uint16(buf[8:10]),
		KeptFrameCount: binary.LittleEndian.Uint32(buf[10:14]),
	}
	if h.Width == 0 || h.Height == 0 {
		return Header{}, codecfpv.NewError(codecfpv.KindCorruptHeader, "camseq: zero dimension")
	}
	return h, nil
}

// Reader reads a camera sequence file frame by frame from an
// underlying io.Reader, widening 8-bit payloads to uint16 so the
// result can be fed straight into codec/fpv.
type Reader struct {
	r      io.Reader
	header Header
}

// NewReader reads and validates the sequence header from r.
func NewReader(r io.Reader) (*Reader, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("camseq: reading header: %w", err)
	}
	h, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	return &Reader{r: r, header: h}, nil
}

// Header returns the sequence's parsed header.
func (r *Reader) Header() Header { return r.header }

// ReadFrame reads the next (timestamp, pixels) record. It returns
// io.EOF once the underlying reader is exhausted between records.
func (r *Reader) ReadFrame() (timestamp int64, pixels []uint16, err error) {
	var tbuf [timestampSize]byte
	if _, err := io.ReadFull(r.r, tbuf[:]); err != nil {
		return 0, nil, err
	}
	timestamp = int64(binary.LittleEndian.Uint64(tbuf[:]))

	raw := make([]byte, r.header.FrameDataSize())
	if _, err := io.ReadFull(r.r, raw); err != nil {
		return 0, nil, fmt.Errorf("camseq: reading frame payload: %w", err)
	}

	n := int(r.header.Width) * int(r.header.Height)
	pixels = make([]uint16, n)
	if r.header.BytesPerPixel() == 1 {
		for i := 0; i < n; i++ {
			pixels[i] = uint16(raw[i])
		}
	} else {
		for i := 0; i < n; i++ {
			pixels[i] = binary.LittleEndian.Uint16(raw[2*i : 2*i+2])
		}
	}
	return timestamp, pixels, nil
}

// Writer writes a camera sequence file: a header followed by a run of
// frame records. It is the inverse of Reader, used by tests and by
// tools that synthesize camera sequence fixtures.
type Writer struct {
	w      io.Writer
	header Header
}

// NewWriter writes header to w immediately and returns a Writer ready
// to accept frames of that geometry.
func NewWriter(w io.Writer, header Header) (*Writer, error) {
	if _, err := w.Write(header.Encode(nil)); err != nil {
		return nil, fmt.Errorf("camseq: writing header: %w", err)
	}
	return &Writer{w: w, header: header}, nil
}

// WriteFrame appends one (timestamp, pixels) record.
func (w *Writer) WriteFrame(timestamp int64, pixels []uint16) error {
	n := int(w.header.Width) * int(w.header.Height)
	if len(pixels) != n {
		return codecfpv.NewError(codecfpv.KindInvalidArgument, "camseq: frame has wrong pixel count")
	}
	var tbuf [timestampSize]byte
	binary.LittleEndian.PutUint64(tbuf[:], uint64(timestamp))
	if _, err := w.w.Write(tbuf[:]); err != nil {
		return fmt.Errorf("camseq: writing timestamp: %w", err)
	}

	raw := make([]byte, w.header.FrameDataSize())
	if w.header.BytesPerPixel() == 1 {
		for i, p := range pixels {
			raw[i] = byte(p)
		}
	} else {
		for i, p := range pixels {
			binary.LittleEndian.PutUint16(raw[2*i:2*i+2], p)
		}
	}
	if _, err := w.w.Write(raw); err != nil {
		return fmt.Errorf("camseq: writing frame payload: %w", err)
	}
	return nil
}

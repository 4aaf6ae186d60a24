/*
NAME
  format.go

AUTHOR
  Alan Noble <alan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package fpv implements the FPV container: a self-contained byte
// stream holding a sequence of frame records produced by codec/fpv,
// a trailing index of byte offsets for random access, and a parallel
// encoder and two decoders (random-access and streaming) that operate
// on that layout.
package fpv

import (
	"encoding/binary"

	codecfpv "github.com/ausocean/fpv/codec/fpv"
)

const (
	// HeaderMagic leads every container.
	HeaderMagic = "FPV1"
	// FooterMagic trails every container, inside the 20-byte footer.
	FooterMagic = "FPVI"
	// Version is the only container version this package writes or
	// accepts.
	Version = 1

	// HeaderSize is magic(4) + version(1) + W(4) + H(4) + S(1) + E(1).
	HeaderSize = 4 + 1 + 4 + 4 + 1 + 1
	// FooterSize is indexOffset(8) + frameCount(8) + magic(4).
	FooterSize = 8 + 8 + 4
)

// Header is the fixed leading portion of a container.
type Header struct {
	Width, Height uint32
	Shift         uint8
	BigEndian     bool
}

// Encode appends the wire encoding of h to buf and returns the result.
func (h Header) Encode(buf []byte) []byte {
	buf = append(buf, HeaderMagic...)
	buf = append(buf, Version)
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], h.Width)
	buf = append(buf, tmp[:]...)
	binary.LittleEndian.PutUint32(tmp[:], h.Height)
	buf = append(buf, tmp[:]...)
	buf = append(buf, h.Shift)
	if h.BigEndian {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	return buf
}

// DecodeHeader parses a Header from the start of buf.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, codecfpv.NewError(codecfpv.KindCorruptHeader, "container: header truncated")
	}
	if string(buf[:4]) != HeaderMagic {
		return Header{}, codecfpv.NewError(codecfpv.KindCorruptHeader, "container: bad magic")
	}
	if buf[4] != Version {
		return Header{}, codecfpv.NewError(codecfpv.KindCorruptHeader, "container: unsupported version")
	}
	h := Header{
		Width:     binary.LittleEndian.Uint32(buf[5:9]),
		Height:    binary.LittleEndian.Uint32(buf[9:13]),
		Shift:     buf[13],
		BigEndian: buf[14] != 0,
	}
	if h.Width == 0 || h.Height == 0 {
		return Header{}, codecfpv.NewError(codecfpv.KindCorruptHeader, "container: zero dimension")
	}
	if h.Shift > codecfpv.MaxShift {
		return Header{}, codecfpv.NewError(codecfpv.KindCorruptHeader, "container: shift out of range")
	}
	return h, nil
}

// Footer is the fixed trailing portion of a container.
type Footer struct {
	IndexOffset uint64
	FrameCount  uint64
}

// Encode appends the wire encoding of f to buf and returns the result.
func (f Footer) Encode(buf []byte) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], f.IndexOffset)
	buf = append(buf, tmp[:]...)
	binary.LittleEndian.PutUint64(tmp[:], f.FrameCount)
	buf = append(buf, tmp[:]...)
	buf = append(buf, FooterMagic...)
	return buf
}

// DecodeFooter parses a Footer from the last FooterSize bytes of buf.
func DecodeFooter(buf []byte) (Footer, error) {
	if len(buf) < FooterSize {
		return Footer{}, codecfpv.NewError(codecfpv.KindCorruptTrailer, "container: buffer shorter than footer")
	}
	tail := buf[len(buf)-FooterSize:]
	if string(tail[16:20]) != FooterMagic {
		return Footer{}, codecfpv.NewError(codecfpv.KindCorruptTrailer, "container: bad trailing magic")
	}
	return Footer{
		IndexOffset: binary.LittleEndian.Uint64(tail[0:8]),
		FrameCount:  binary.LittleEndian.Uint64(tail[8:16]),
	}, nil
}

// EncodeIndex appends the wire encoding of an index block (frame count
// varint followed by that many little-endian u64 offsets) to buf.
func EncodeIndex(buf []byte, offsets []uint64) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(offsets)))
	var tmp [8]byte
	for _, off := range offsets {
		binary.LittleEndian.PutUint64(tmp[:], off)
		buf = append(buf, tmp[:]...)
	}
	return buf
}

// DecodeIndex parses an index block from the start of buf, returning
// the offsets and the number of bytes the block occupied.
func DecodeIndex(buf []byte) (offsets []uint64, consumed int, err error) {
	count, n := binary.Uvarint(buf)
	if n <= 0 {
		return nil, 0, codecfpv.NewError(codecfpv.KindCorruptIndex, "container: index count truncated")
	}
	need := n + int(count)*8
	if int64(n)+int64(count)*8 > int64(len(buf)) {
		return nil, 0, codecfpv.NewError(codecfpv.KindCorruptIndex, "container: index block truncated")
	}
	offsets = make([]uint64, count)
	pos := n
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint64(buf[pos : pos+8])
		pos += 8
	}
	return offsets, need, nil
}

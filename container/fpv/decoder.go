/*
NAME
  decoder.go

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
	codecfpv "github.com/ausocean/fpv/codec/fpv"
)

// Decoder provides random access into a complete, in-memory container:
// any frame can be decoded independent of decode order, in roughly
// constant time, once the delta frame has been decoded at construction.
//
// Decoder borrows data; it does not copy the container, so data must
// outlive the Decoder and must not be modified while in use.
type Decoder struct {
	codec       *codecfpv.Codec
	data        []byte
	header      Header
	indexOffset uint64
	offsets     []uint64
	delta       []uint16
}

// NewDecoder parses the header, footer and index block of data and
// eagerly decodes the delta (first) frame, which every other frame in
// the container is encoded against.
func NewDecoder(data []byte) (*Decoder, error) {
	header, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	footer, err := DecodeFooter(data)
	if err != nil {
		return nil, err
	}
	if footer.IndexOffset < HeaderSize || footer.IndexOffset > uint64(len(data))-FooterSize {
		return nil, NewError(KindCorruptTrailer, "NewDecoder: index offset out of range")
	}
	idxBuf := data[footer.IndexOffset : uint64(len(data))-FooterSize]
	offsets, _, err := DecodeIndex(idxBuf)
	if err != nil {
		return nil, err
	}
	if uint64(len(offsets)) != footer.FrameCount {
		return nil, NewError(KindCorruptIndex, "NewDecoder: index count disagrees with footer")
	}
	for i, off := range offsets {
		if off < HeaderSize || off >= footer.IndexOffset {
			return nil, NewError(KindCorruptIndex, "NewDecoder: index offset out of range")
		}
		if i > 0 && off <= offsets[i-1] {
			return nil, NewError(KindCorruptIndex, "NewDecoder: index offsets not increasing")
		}
	}

	codec, err := codecfpv.NewCodec(int(header.Width), int(header.Height), uint(header.Shift), header.BigEndian)
	if err != nil {
		return nil, err
	}

	d := &Decoder{codec: codec, data: data, header: header, indexOffset: footer.IndexOffset, offsets: offsets}
	if len(offsets) > 0 {
		zero := codec.ZeroFrame()
		pix, _, err := codec.DecodeFrame(data[offsets[0]:footer.IndexOffset], zero)
		if err != nil {
			return nil, err
		}
		d.delta = pix
	}
	return d, nil
}

// NumFrames reports the number of frames in the container.
func (d *Decoder) NumFrames() int { return len(d.offsets) }

// Dimensions reports the pixel width and height of every frame.
func (d *Decoder) Dimensions() (width, height int) {
	return int(d.header.Width), int(d.header.Height)
}

// DecodeFrame decodes frame i into out, which must have length
// width*height. Frames may be decoded in any order.
func (d *Decoder) DecodeFrame(i int, out []uint16) error {
	if i < 0 || i >= len(d.offsets) {
		return NewError(KindOutOfBounds, "DecodeFrame: index out of range")
	}
	if len(out) != d.codec.PixelCount() {
		return NewError(KindInvalidArgument, "DecodeFrame: output buffer has wrong length")
	}
	if i == 0 {
		copy(out, d.delta)
		return nil
	}
	pix, _, err := d.codec.DecodeFrame(d.data[d.offsets[i]:d.indexOffset], d.delta)
	if err != nil {
		return err
	}
	copy(out, pix)
	return nil
}

/*
NAME
  predictor.go

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

// MaxShift is the largest permitted shift S (spec: 0-8 inclusive).
const MaxShift = 8

// Preprocess applies the optional 16-bit byteswap then the right shift
// by s to every pixel of in, writing the result to out. in and out may
// overlap entirely (out == in) but must not partially overlap.
//
// Preprocess is its own round-trip partner with Postprocess: for every
// pixel p, Postprocess(Preprocess(p, s, swap), s, swap) == p with the
// bits discarded by the shift zeroed: the low s bits of p, or, when
// swap is set, the low s bits of the byteswapped value (bits 8 to
// 8+s-1 of p). Those bits cannot be recovered.
func Preprocess(out, in []uint16, shift uint, swap bool) error {
	if len(out) != len(in) {
		return NewError(KindInvalidArgument, "preprocess: out/in length mismatch")
	}
	if shift > MaxShift {
		return NewError(KindInvalidArgument, "preprocess: shift out of range")
	}
	for i, p := range in {
		if swap {
			p = byteswap16(p)
		}
		out[i] = (p >> shift) & 0xFFFF
	}
	return nil
}

// Postprocess inverts Preprocess: multiplies each pixel by 2^shift then
// optionally byteswaps. out and in may be the same slice.
func Postprocess(out, in []uint16, shift uint, swap bool) error {
	if len(out) != len(in) {
		return NewError(KindInvalidArgument, "postprocess: out/in length mismatch")
	}
	if shift > MaxShift {
		return NewError(KindInvalidArgument, "postprocess: shift out of range")
	}
	for i, p := range in {
		p = (p << shift) & 0xFFFF
		if swap {
			p = byteswap16(p)
		}
		out[i] = p
	}
	return nil
}

func byteswap16(v uint16) uint16 {
	return (v << 8) | (v >> 8)
}

// PlaneSplit computes the XOR residual of preprocessed frame x against
// the reference (delta) frame d, and splits it into high and low byte
// planes. hi and lo must each have length len(x); d must have the same
// length as x (the delta frame is established once, over the whole
// image, by the encoder's first frame).
func PlaneSplit(hi, lo []byte, x, d []uint16) error {
	n := len(x)
	if len(d) != n || len(hi) != n || len(lo) != n {
		return NewError(KindInvalidArgument, "planesplit: length mismatch")
	}
	for i := 0; i < n; i++ {
		r := x[i] ^ d[i]
		hi[i] = byte(r >> 8)
		lo[i] = byte(r)
	}
	return nil
}

// PlaneMerge inverts PlaneSplit: recombines hi/lo byte planes into a
// 16-bit residual and XORs it against the reference (delta) frame d,
// writing the reconstructed preprocessed frame to x.
func PlaneMerge(x []uint16, hi, lo []byte, d []uint16) error {
	n := len(x)
	if len(d) != n || len(hi) != n || len(lo) != n {
		return NewError(KindInvalidArgument, "planemerge: length mismatch")
	}
	for i := 0; i < n; i++ {
		r := uint16(hi[i])<<8 | uint16(lo[i])
		x[i] = r ^ d[i]
	}
	return nil
}

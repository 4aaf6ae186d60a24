package fpv

import (
	"bytes"
	"math/rand"
	"testing"

	codecfpv "github.com/ausocean/fpv/codec/fpv"
)

// buildContainer encodes frames[0] as the delta frame and every frame
// in frames against it, writing a complete container byte stream the
// way cmd/fpvenc does: header, frame records via Encoder, index block,
// footer.
func buildContainer(t *testing.T, w, h int, shift uint, bigEndian bool, frames [][]uint16, maxQueued int) []byte {
	t.Helper()
	codec, err := codecfpv.NewCodec(w, h, shift, bigEndian)
	if err != nil {
		t.Fatal(err)
	}
	zero := codec.ZeroFrame()
	rec0, err := codec.EncodeFrame(frames[0], zero)
	if err != nil {
		t.Fatal(err)
	}
	delta, _, err := codec.DecodeFrame(rec0, zero)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	header := Header{Width: uint32(w), Height: uint32(h), Shift: uint8(shift), BigEndian: bigEndian}
	buf.Write(header.Encode(nil))

	enc, err := Init(codec, &buf, maxQueued, uint64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range frames {
		ref := delta
		if i == 0 {
			// The delta frame's own record is coded against the zero
			// reference, exactly as cmd/fpvenc does, so NewDecoder and
			// StreamDecoder (which both decode record 0 against zero)
			// reconstruct frames[0] rather than an all-zero frame.
			ref = zero
		}
		if err := enc.CompressFrame(f, ref); err != nil {
			t.Fatal(err)
		}
	}
	offsets, err := enc.Finish()
	if err != nil {
		t.Fatal(err)
	}

	indexOffset := uint64(buf.Len())
	buf.Write(EncodeIndex(nil, offsets))
	footer := Footer{IndexOffset: indexOffset, FrameCount: uint64(len(offsets))}
	buf.Write(footer.Encode(nil))
	return buf.Bytes()
}

func randomFrames(seed int64, n, pixels int) [][]uint16 {
	rng := rand.New(rand.NewSource(seed))
	frames := make([][]uint16, n)
	for i := range frames {
		frames[i] = make([]uint16, pixels)
		for j := range frames[i] {
			frames[i][j] = uint16(rng.Intn(65536))
		}
	}
	return frames
}

package fpv

import "testing"

func TestStreamDecoderWholeBufferAtOnce(t *testing.T) {
	const w, h = 5, 4
	frames := randomFrames(21, 7, w*h)
	data := buildContainer(t, w, h, 0, false, frames, 2)

	sd := NewStreamDecoder()
	var got [][]uint16
	err := sd.Feed(data, true, func(index int, pixels []uint16) error {
		cp := append([]uint16(nil), pixels...)
		got = append(got, cp)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(frames) {
		t.Fatalf("decoded %d frames, want %d", len(got), len(frames))
	}
	for i, f := range frames {
		for j := range f {
			if got[i][j] != f[j] {
				t.Fatalf("frame %d pixel %d: got %#x want %#x", i, j, got[i][j], f[j])
			}
		}
	}
}

func TestStreamDecoderByteAtATime(t *testing.T) {
	const w, h = 3, 3
	frames := randomFrames(22, 4, w*h)
	data := buildContainer(t, w, h, 0, false, frames, 1)

	sd := NewStreamDecoder()
	var indices []int
	for i := 0; i < len(data); i++ {
		final := i == len(data)-1
		err := sd.Feed(data[i:i+1], final, func(index int, pixels []uint16) error {
			indices = append(indices, index)
			return nil
		})
		if err != nil {
			t.Fatalf("byte %d: %v", i, err)
		}
	}
	if len(indices) != len(frames) {
		t.Fatalf("decoded %d frames, want %d", len(indices), len(frames))
	}
	for i, idx := range indices {
		if idx != i {
			t.Errorf("frame %d reported index %d", i, idx)
		}
	}
}

func TestStreamDecoderToleratesMissingTrailer(t *testing.T) {
	const w, h = 4, 2
	frames := randomFrames(23, 3, w*h)
	data := buildContainer(t, w, h, 0, false, frames, 2)

	footer, err := DecodeFooter(data)
	if err != nil {
		t.Fatal(err)
	}
	// Cut everything from the index block onward: only the header and
	// frame records survive, as if the stream was cut mid-transfer
	// right before the trailer was ever written.
	truncated := data[:footer.IndexOffset]

	sd := NewStreamDecoder()
	var count int
	err = sd.Feed(truncated, true, func(index int, pixels []uint16) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != len(frames) {
		t.Fatalf("decoded %d frames, want %d", count, len(frames))
	}
}

func TestStreamDecoderTruncatedMidFrameFails(t *testing.T) {
	const w, h = 6, 6
	frames := randomFrames(24, 3, w*h)
	data := buildContainer(t, w, h, 0, false, frames, 2)

	footer, err := DecodeFooter(data)
	if err != nil {
		t.Fatal(err)
	}
	// Drop the final byte of the last frame record: its declared
	// length can no longer be satisfied, so the cut is guaranteed to
	// land mid-record rather than on a record boundary.
	truncated := data[:footer.IndexOffset-1]

	sd := NewStreamDecoder()
	err = sd.Feed(truncated, true, func(index int, pixels []uint16) error {
		return nil
	})
	if err == nil {
		t.Fatal("expected an error when the final chunk ends mid-record")
	}
}

func TestStreamDecoderRejectsBadHeader(t *testing.T) {
	sd := NewStreamDecoder()
	err := sd.Feed([]byte("not a valid fpv header at all"), true, func(int, []uint16) error { return nil })
	if !Is(err, KindCorruptHeader) {
		t.Fatalf("expected KindCorruptHeader, got %v", err)
	}
}

package camseq

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{Width: 64, Height: 32, BitDepth: 16, KeptFrameCount: 5}
	buf := h.Encode(nil)
	if len(buf) != HeaderSize {
		t.Fatalf("encoded header length = %d, want %d", len(buf), HeaderSize)
	}
	got, err := DecodeHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(h, got); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderWriter8BitRoundTrip(t *testing.T) {
	header := Header{Width: 4, Height: 3, BitDepth: 8, KeptFrameCount: 0}
	var buf bytes.Buffer
	w, err := NewWriter(&buf, header)
	if err != nil {
		t.Fatal(err)
	}
	frames := [][]uint16{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		{255, 254, 253, 252, 251, 250, 249, 248, 247, 246, 245, 244},
	}
	timestamps := []int64{1000, 2000}
	for i, f := range frames {
		if err := w.WriteFrame(timestamps[i], f); err != nil {
			t.Fatal(err)
		}
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if r.Header() != header {
		t.Fatalf("got header %+v, want %+v", r.Header(), header)
	}
	for i, want := range frames {
		ts, pixels, err := r.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if ts != timestamps[i] {
			t.Errorf("frame %d timestamp: got %d want %d", i, ts, timestamps[i])
		}
		for j := range want {
			if pixels[j] != want[j] {
				t.Errorf("frame %d pixel %d: got %d want %d", i, j, pixels[j], want[j])
			}
		}
	}
	if _, _, err := r.ReadFrame(); err != io.EOF {
		t.Fatalf("expected io.EOF after last frame, got %v", err)
	}
}

func TestReaderWriter16BitRoundTrip(t *testing.T) {
	header := Header{Width: 2, Height: 2, BitDepth: 16, KeptFrameCount: 0}
	var buf bytes.Buffer
	w, err := NewWriter(&buf, header)
	if err != nil {
		t.Fatal(err)
	}
	frame := []uint16{0x1234, 0xABCD, 0x0000, 0xFFFF}
	if err := w.WriteFrame(42, frame); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	ts, pixels, err := r.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if ts != 42 {
		t.Errorf("timestamp = %d, want 42", ts)
	}
	for i := range frame {
		if pixels[i] != frame[i] {
			t.Errorf("pixel %d: got %#x want %#x", i, pixels[i], frame[i])
		}
	}
}

func TestWriteFrameRejectsWrongLength(t *testing.T) {
	header := Header{Width: 2, Height: 2, BitDepth: 8}
	var buf bytes.Buffer
	w, err := NewWriter(&buf, header)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFrame(0, []uint16{1, 2, 3}); err == nil {
		t.Fatal("expected an error for a mismatched pixel count")
	}
}

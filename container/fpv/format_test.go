package fpv

import "testing"

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{Width: 640, Height: 480, Shift: 3, BigEndian: true}
	buf := h.Encode(nil)
	if len(buf) != HeaderSize {
		t.Fatalf("encoded header length = %d, want %d", len(buf), HeaderSize)
	}
	got, err := DecodeHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Errorf("got %+v, want %+v", got, h)
	}
}

func TestDecodeHeaderRejectsBadMagic(t *testing.T) {
	h := Header{Width: 1, Height: 1}
	buf := h.Encode(nil)
	buf[0] = 'X'
	if _, err := DecodeHeader(buf); !Is(err, KindCorruptHeader) {
		t.Fatalf("expected KindCorruptHeader, got %v", err)
	}
}

func TestDecodeHeaderRejectsZeroDimension(t *testing.T) {
	h := Header{Width: 0, Height: 1}
	buf := h.Encode(nil)
	if _, err := DecodeHeader(buf); !Is(err, KindCorruptHeader) {
		t.Fatalf("expected KindCorruptHeader, got %v", err)
	}
}

func TestFooterEncodeDecodeRoundTrip(t *testing.T) {
	f := Footer{IndexOffset: 12345, FrameCount: 99}
	buf := f.Encode(nil)
	if len(buf) != FooterSize {
		t.Fatalf("encoded footer length = %d, want %d", len(buf), FooterSize)
	}
	got, err := DecodeFooter(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != f {
		t.Errorf("got %+v, want %+v", got, f)
	}
}

func TestDecodeFooterRejectsShortBuffer(t *testing.T) {
	if _, err := DecodeFooter([]byte{1, 2, 3}); !Is(err, KindCorruptTrailer) {
		t.Fatalf("expected KindCorruptTrailer, got %v", err)
	}
}

func TestIndexEncodeDecodeRoundTrip(t *testing.T) {
	offsets := []uint64{15, 1024, 999999, 0xFFFFFFFF}
	buf := EncodeIndex(nil, offsets)
	got, consumed, err := DecodeIndex(buf)
	if err != nil {
		t.Fatal(err)
	}
	if consumed != len(buf) {
		t.Errorf("consumed = %d, want %d", consumed, len(buf))
	}
	if len(got) != len(offsets) {
		t.Fatalf("got %d offsets, want %d", len(got), len(offsets))
	}
	for i := range offsets {
		if got[i] != offsets[i] {
			t.Errorf("offset %d: got %d want %d", i, got[i], offsets[i])
		}
	}
}

func TestIndexEncodeEmpty(t *testing.T) {
	buf := EncodeIndex(nil, nil)
	got, consumed, err := DecodeIndex(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %d offsets, want 0", len(got))
	}
	if consumed != len(buf) {
		t.Errorf("consumed = %d, want %d", consumed, len(buf))
	}
}

func TestDecodeIndexRejectsTruncated(t *testing.T) {
	buf := EncodeIndex(nil, []uint64{1, 2, 3})
	if _, _, err := DecodeIndex(buf[:len(buf)-2]); !Is(err, KindCorruptIndex) {
		t.Fatalf("expected KindCorruptIndex, got %v", err)
	}
}

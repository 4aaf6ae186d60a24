/*
NAME
  stream.go

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

// streamState names a position in the incremental parse. StreamDecoder
// advances through these as bytes arrive; it never goes backward.
type streamState int

const (
	stateHeaderPending streamState = iota
	stateFramePending
	stateTerminal
)

// FrameCallback receives a decoded frame's pixels and its index within
// the stream. pixels is only valid for the duration of the call: a
// callback that needs to keep the data must copy it.
type FrameCallback func(index int, pixels []uint16) error

// StreamDecoder decodes a container incrementally as bytes arrive,
// without requiring the whole stream (or even its length) up front.
// It does not read the trailing index: frames are recognized purely by
// their self-delimiting record length prefix, and the footer is only
// checked to recognize that the records have ended. A stream that ends
// right after its last complete record (no trailer at all) decodes
// cleanly; leftover bytes at the end of a final Feed that are neither a
// complete record nor end in a valid footer, such as a partial trailer,
// are reported as an error.
type StreamDecoder struct {
	state  streamState
	buf    []byte
	codec  *codecfpv.Codec
	header Header
	delta  []uint16
	index  int
	err    error
}

// NewStreamDecoder returns a StreamDecoder ready to receive bytes via
// Feed, starting from the container header.
func NewStreamDecoder() *StreamDecoder {
	return &StreamDecoder{state: stateHeaderPending}
}

// Err returns the error that moved the decoder into its terminal
// state, or nil if it hasn't failed.
func (s *StreamDecoder) Err() error { return s.err }

// Done reports whether the decoder has stopped making progress,
// either because it hit unrecoverable corruption or because Feed was
// told the stream ended and no further record fit in the buffer.
func (s *StreamDecoder) Done() bool { return s.state == stateTerminal }

// Dimensions reports the frame geometry once the container header has
// been parsed. ok is false until then; it never becomes false again.
func (s *StreamDecoder) Dimensions() (width, height int, ok bool) {
	if s.codec == nil {
		return 0, 0, false
	}
	return int(s.header.Width), int(s.header.Height), true
}

// Feed appends chunk to the internal buffer and decodes as many
// complete records as are now available, invoking cb once per frame in
// stream order. Feed may be called repeatedly with arbitrarily small
// chunks, including one byte at a time. If final is true, Feed treats
// the buffered bytes as the entire remaining stream: a partial record
// at the tail is reported via Err rather than silently ignored.
func (s *StreamDecoder) Feed(chunk []byte, final bool, cb FrameCallback) error {
	if s.state == stateTerminal {
		return s.err
	}
	s.buf = append(s.buf, chunk...)

	for {
		switch s.state {
		case stateHeaderPending:
			if len(s.buf) < HeaderSize {
				if final {
					return s.fail(NewError(KindCorruptHeader, "Feed: stream ended before header"))
				}
				return nil
			}
			header, err := DecodeHeader(s.buf)
			if err != nil {
				return s.fail(err)
			}
			codec, err := codecfpv.NewCodec(int(header.Width), int(header.Height), uint(header.Shift), header.BigEndian)
			if err != nil {
				return s.fail(err)
			}
			s.header = header
			s.codec = codec
			s.delta = codec.ZeroFrame()
			s.buf = s.buf[HeaderSize:]
			s.state = stateFramePending

		case stateFramePending:
			if len(s.buf) == 0 && final {
				s.state = stateTerminal
				return nil
			}
			pixels, consumed, err := s.codec.DecodeFrame(s.buf, s.delta)
			if err != nil {
				if !final {
					// s.buf may be a genuinely incomplete record, or it may
					// be the leading bytes of the index block (whose frame
					// count varint can misparse as a plausible-looking but
					// short record). Either way, more bytes can still
					// resolve this cleanly, so wait rather than latch an
					// error on a guess.
					return nil
				}
				if isTrailerLike(s.buf) {
					// What's left looks like an index block and footer,
					// not a frame record: the stream is simply complete.
					s.state = stateTerminal
					return nil
				}
				return s.fail(err)
			}
			if err := cb(s.index, pixels); err != nil {
				return s.fail(err)
			}
			if s.index == 0 {
				s.delta = pixels
			}
			s.index++
			s.buf = s.buf[consumed:]

		case stateTerminal:
			return s.err
		}
	}
}

// isTrailerLike guesses whether buf is the container's trailer rather
// than a frame record, by checking only that its last FooterSize bytes
// decode as a footer with the trailing magic; the index block in front
// of the footer is not parsed.
func isTrailerLike(buf []byte) bool {
	if len(buf) < FooterSize {
		return false
	}
	_, err := DecodeFooter(buf)
	return err == nil
}

func (s *StreamDecoder) fail(err error) error {
	s.err = err
	s.state = stateTerminal
	return err
}

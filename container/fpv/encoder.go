/*
NAME
  encoder.go

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
	"context"
	"io"
	"sync"

	codecfpv "github.com/ausocean/fpv/codec/fpv"
	"golang.org/x/sync/semaphore"
)

// frameResult carries one worker's output back to the reorder stage.
type frameResult struct {
	seq  uint64
	data []byte
	err  error
}

// Encoder compresses a sequence of frames in parallel while writing
// them to sink in submission order. Frames are encoded by a bounded
// pool of worker goroutines; a single coordinator goroutine reorders
// completed frames by sequence number and is the only goroutine that
// ever touches sink, so callers needn't synchronize their io.Writer.
//
// Encoder's output is independent of how many workers it happens to
// run with: the same frames in the same order always produce the same
// byte stream, because reordering happens before anything is written.
type Encoder struct {
	codec   *codecfpv.Codec
	sink    io.Writer
	sem     *semaphore.Weighted
	results chan frameResult

	wg   sync.WaitGroup // counts frames submitted but not yet encoded
	done chan struct{}  // closed once the coordinator drains results

	mu       sync.Mutex
	pending  map[uint64][]byte
	nextSeq  uint64 // next sequence number to hand to a worker
	nextEmit uint64 // next sequence number the coordinator must flush
	offset   uint64 // bytes written to sink so far
	offsets  []uint64
	firstErr error
	finished bool
}

// Init constructs an Encoder for the given codec, writing finished
// records to sink starting at byte offset startOffset (the caller's
// responsibility: typically the length of whatever container header
// it has already written to sink). maxQueued bounds the number of
// frames that may be encoding at once: CompressFrame blocks once that
// many frames are being encoded. A worker frees its slot as soon as
// its record is handed to the coordinator, so finished records held
// for reordering behind a slower, earlier frame are not counted
// against maxQueued and their number is not bounded.
// The offsets Finish returns are absolute, suitable for writing
// directly into an index block.
func Init(codec *codecfpv.Codec, sink io.Writer, maxQueued int, startOffset uint64) (*Encoder, error) {
	if codec == nil {
		return nil, NewError(KindInvalidArgument, "Init: nil codec")
	}
	if maxQueued <= 0 {
		return nil, NewError(KindInvalidArgument, "Init: maxQueued must be positive")
	}
	e := &Encoder{
		codec:   codec,
		sink:    sink,
		offset:  startOffset,
		sem:     semaphore.NewWeighted(int64(maxQueued)),
		results: make(chan frameResult, maxQueued),
		done:    make(chan struct{}),
		pending: make(map[uint64][]byte),
	}
	go e.coordinate()
	return e, nil
}

// MaxQueued reports the backpressure bound passed to Init.
func (e *Encoder) MaxQueued() int64 { return int64(cap(e.results)) }

// CompressFrame submits raw for encoding against delta. It may block
// if maxQueued frames are already outstanding. Frames submitted are
// written to sink strictly in submission order once encoded; the
// caller may reuse raw and delta as soon as this call returns, since
// the worker copies what it needs before returning control.
func (e *Encoder) CompressFrame(raw, delta []uint16) error {
	e.mu.Lock()
	if e.finished {
		e.mu.Unlock()
		return NewError(KindStateError, "CompressFrame: called after Finish")
	}
	if err := e.firstErr; err != nil {
		e.mu.Unlock()
		return err
	}
	seq := e.nextSeq
	e.nextSeq++
	e.mu.Unlock()

	if err := e.sem.Acquire(context.Background(), 1); err != nil {
		return WrapError(KindStateError, err, "CompressFrame: semaphore acquire")
	}

	rawCopy := append([]uint16(nil), raw...)
	deltaCopy := append([]uint16(nil), delta...)

	e.wg.Add(1)
	go func() {
		defer e.sem.Release(1)
		defer e.wg.Done()
		rec, err := e.codec.EncodeFrame(rawCopy, deltaCopy)
		e.results <- frameResult{seq: seq, data: rec, err: err}
	}()
	return nil
}

// coordinate drains results, reorders them by sequence number, and
// flushes each contiguous run to sink as soon as it's available. It is
// the only goroutine that writes to sink or e.offsets.
func (e *Encoder) coordinate() {
	defer close(e.done)
	for r := range e.results {
		e.mu.Lock()
		if r.err != nil && e.firstErr == nil {
			e.firstErr = r.err
		}
		e.pending[r.seq] = r.data
		for {
			data, ok := e.pending[e.nextEmit]
			if !ok {
				break
			}
			delete(e.pending, e.nextEmit)
			e.nextEmit++
			if e.firstErr != nil {
				continue
			}
			e.offsets = append(e.offsets, e.offset)
			if _, werr := e.sink.Write(data); werr != nil {
				e.firstErr = WrapError(KindStateError, werr, "coordinate: sink write failed")
				continue
			}
			e.offset += uint64(len(data))
		}
		e.mu.Unlock()
	}
}

// Finish blocks until every submitted frame has been encoded and
// flushed to sink, then returns the byte offsets of each frame record
// (for the caller to write as the trailing index) and the first error
// encountered, if any. The Encoder must not be used again afterward.
func (e *Encoder) Finish() (offsets []uint64, err error) {
	e.wg.Wait()
	close(e.results)
	<-e.done

	e.mu.Lock()
	defer e.mu.Unlock()
	e.finished = true
	return e.offsets, e.firstErr
}

/*
DESCRIPTION
  Fpvenc compresses a raw camera sequence file into an FPV container.

AUTHOR
  Alan Noble <alan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements fpvenc, the FPV encoder command line driver.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	codecfpv "github.com/ausocean/fpv/codec/fpv"
	containerfpv "github.com/ausocean/fpv/container/fpv"
	"github.com/ausocean/fpv/device/camseq"
	"github.com/ausocean/fpv/internal/fpvlog"
)

// Logging related constants.
const (
	logPath       = "/var/log/fpvenc/fpvenc.log"
	logMaxSizeMB  = 100
	logMaxBackup  = 5
	logMaxAgeDays = 28
)

// countingWriter tracks the total number of bytes written through it,
// so the caller can learn the absolute offset of whatever it writes
// next without seeking (outPath may be a pipe).
type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}

func main() {
	in := flag.String("in", "", "input camera sequence file")
	out := flag.String("out", "", "output FPV container file")
	shift := flag.Uint("shift", 0, "right-shift applied to each pixel before coding (0-8)")
	bigEndian := flag.Bool("big_endian", false, "treat 16-bit source pixels as big-endian")
	workers := flag.Uint("workers", 4, "maximum number of frames encoded concurrently")
	flag.Parse()

	log := fpvlog.New(fpvlog.Config{
		Filename:   logPath,
		MaxSizeMB:  logMaxSizeMB,
		MaxBackups: logMaxBackup,
		MaxAgeDays: logMaxAgeDays,
	})

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "fpvenc: -in and -out are required")
		os.Exit(2)
	}

	if err := run(*in, *out, *shift, *bigEndian, int(*workers), log); err != nil {
		log.Error("encode failed", "error", err)
		fmt.Fprintln(os.Stderr, "fpvenc:", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, shift uint, bigEndian bool, workers int, log fpvlog.Logger) error {
	inFile, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer inFile.Close()

	seq, err := camseq.NewReader(bufio.NewReader(inFile))
	if err != nil {
		return fmt.Errorf("reading sequence header: %w", err)
	}
	h := seq.Header()
	log.Info("sequence header parsed", "width", h.Width, "height", h.Height, "bit_depth", h.BitDepth)

	codec, err := codecfpv.NewCodec(int(h.Width), int(h.Height), shift, bigEndian)
	if err != nil {
		return fmt.Errorf("building codec: %w", err)
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer outFile.Close()
	bw := bufio.NewWriter(outFile)
	cw := &countingWriter{w: bw}

	header := containerfpv.Header{Width: h.Width, Height: h.Height, Shift: uint8(shift), BigEndian: bigEndian}
	if _, err := cw.Write(header.Encode(nil)); err != nil {
		return fmt.Errorf("writing container header: %w", err)
	}

	enc, err := containerfpv.Init(codec, cw, workers, cw.n)
	if err != nil {
		return fmt.Errorf("starting encoder: %w", err)
	}

	var delta []uint16
	var frameCount int
	for {
		_, pixels, err := seq.ReadFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading frame %d: %w", frameCount, err)
		}
		if delta == nil {
			// The first frame is the delta frame: it's coded against an
			// all-zero reference, and every later frame is coded against
			// its reconstruction rather than the raw input, so encoding
			// matches exactly what DecodeFrame will later rebuild. This
			// means encoding it twice — once here to learn the
			// reconstruction, once more inside the worker pool when it's
			// actually submitted — but EncodeFrame is a pure function of
			// its arguments and the extra pass is one frame out of the
			// whole sequence, so the throwaway encode isn't worth
			// threading the worker pool's result back out just to save it.
			zero := codec.ZeroFrame()
			rec, err := codec.EncodeFrame(pixels, zero)
			if err != nil {
				return fmt.Errorf("encoding delta frame: %w", err)
			}
			delta, _, err = codec.DecodeFrame(rec, zero)
			if err != nil {
				return fmt.Errorf("reconstructing delta frame: %w", err)
			}
			if err := enc.CompressFrame(pixels, zero); err != nil {
				return fmt.Errorf("compressing delta frame: %w", err)
			}
			frameCount++
			continue
		}
		if err := enc.CompressFrame(pixels, delta); err != nil {
			return fmt.Errorf("compressing frame %d: %w", frameCount, err)
		}
		frameCount++
	}

	offsets, err := enc.Finish()
	if err != nil {
		return fmt.Errorf("finishing encoder: %w", err)
	}

	indexOffset := cw.n
	if _, err := cw.Write(containerfpv.EncodeIndex(nil, offsets)); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	footer := containerfpv.Footer{IndexOffset: indexOffset, FrameCount: uint64(len(offsets))}
	if _, err := cw.Write(footer.Encode(nil)); err != nil {
		return fmt.Errorf("writing footer: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	log.Info("encode finished", "frames", frameCount, "bytes", cw.n)
	return nil
}

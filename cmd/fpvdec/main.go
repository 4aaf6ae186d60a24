/*
DESCRIPTION
  Fpvdec decodes an FPV container back into a raw camera sequence file,
  either by loading the whole container for random access or by
  streaming it incrementally.

AUTHOR
  Alan Noble <alan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements fpvdec, the FPV decoder command line driver.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	containerfpv "github.com/ausocean/fpv/container/fpv"
	"github.com/ausocean/fpv/device/camseq"
	"github.com/ausocean/fpv/internal/fpvlog"
)

// Logging related constants.
const (
	logPath       = "/var/log/fpvdec/fpvdec.log"
	logMaxSizeMB  = 100
	logMaxBackup  = 5
	logMaxAgeDays = 28
)

func main() {
	in := flag.String("in", "", "input FPV container file")
	out := flag.String("out", "", "output camera sequence file")
	streaming := flag.Bool("stream", false, "decode incrementally instead of loading the whole container")
	chunkSize := flag.Int("chunk", 1<<16, "bytes read per Feed call in -stream mode")
	flag.Parse()

	log := fpvlog.New(fpvlog.Config{
		Filename:   logPath,
		MaxSizeMB:  logMaxSizeMB,
		MaxBackups: logMaxBackup,
		MaxAgeDays: logMaxAgeDays,
	})

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "fpvdec: -in and -out are required")
		os.Exit(2)
	}

	var err error
	if *streaming {
		err = runStreaming(*in, *out, *chunkSize, log)
	} else {
		err = runRandomAccess(*in, *out, log)
	}
	if err != nil {
		log.Error("decode failed", "error", err)
		fmt.Fprintln(os.Stderr, "fpvdec:", err)
		os.Exit(1)
	}
}

func runRandomAccess(inPath, outPath string, log fpvlog.Logger) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading container: %w", err)
	}
	dec, err := containerfpv.NewDecoder(data)
	if err != nil {
		return fmt.Errorf("parsing container: %w", err)
	}
	w, h := dec.Dimensions()
	log.Info("container parsed", "width", w, "height", h, "frames", dec.NumFrames())

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer outFile.Close()
	bw := bufio.NewWriter(outFile)
	seqW, err := camseq.NewWriter(bw, camseq.Header{Width: uint32(w), Height: uint32(h), BitDepth: 16})
	if err != nil {
		return fmt.Errorf("writing sequence header: %w", err)
	}

	out := make([]uint16, w*h)
	for i := 0; i < dec.NumFrames(); i++ {
		if err := dec.DecodeFrame(i, out); err != nil {
			return fmt.Errorf("decoding frame %d: %w", i, err)
		}
		if err := seqW.WriteFrame(int64(i), out); err != nil {
			return fmt.Errorf("writing frame %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func runStreaming(inPath, outPath string, chunkSize int, log fpvlog.Logger) error {
	inFile, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening container: %w", err)
	}
	defer inFile.Close()

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer outFile.Close()
	bw := bufio.NewWriter(outFile)

	var seqW *camseq.Writer
	sd := containerfpv.NewStreamDecoder()
	chunk := make([]byte, chunkSize)
	r := bufio.NewReader(inFile)

	cb := func(index int, pixels []uint16) error {
		if seqW == nil {
			w, h, ok := sd.Dimensions()
			if !ok {
				return fmt.Errorf("frame %d decoded before header was parsed", index)
			}
			var err error
			seqW, err = camseq.NewWriter(bw, camseq.Header{Width: uint32(w), Height: uint32(h), BitDepth: 16})
			if err != nil {
				return fmt.Errorf("writing sequence header: %w", err)
			}
		}
		return seqW.WriteFrame(int64(index), pixels)
	}

	for {
		n, readErr := r.Read(chunk)
		final := readErr == io.EOF
		if n > 0 {
			if err := sd.Feed(chunk[:n], final, cb); err != nil {
				return fmt.Errorf("decoding stream: %w", err)
			}
		}
		if final {
			if err := sd.Feed(nil, true, cb); err != nil {
				return fmt.Errorf("decoding stream tail: %w", err)
			}
			break
		}
		if readErr != nil {
			return fmt.Errorf("reading container: %w", readErr)
		}
	}

	log.Info("streaming decode finished")
	return bw.Flush()
}

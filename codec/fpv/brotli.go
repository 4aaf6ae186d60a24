/*
NAME
  brotli.go

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
	"bytes"

	"github.com/andybalholm/brotli"
)

// brotliCompress returns the Brotli-compressed form of payload.
func brotliCompress(payload []byte) []byte {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.BestCompression)
	_, _ = w.Write(payload) // bytes.Buffer never errors on Write.
	_ = w.Close()
	return buf.Bytes()
}

// brotliDecompress inverts brotliCompress.
func brotliDecompress(data []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(data))
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, WrapError(KindTruncatedPayload, err, "brotli: decompress failed")
	}
	return buf.Bytes(), nil
}

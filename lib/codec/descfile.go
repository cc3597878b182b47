// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. zstd.Encoder and zstd.Decoder
// are safe for concurrent use via EncodeAll/DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("codec: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("codec: zstd decoder initialization failed: " + err.Error())
	}
}

// WriteFile serializes v as deterministic CBOR, compresses it with
// zstd, and writes it to path atomically (write to a temp file in
// the same directory, then rename).
func WriteFile(path string, v any) error {
	encoded, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding descriptor: %w", err)
	}
	compressed := zstdEncoder.EncodeAll(encoded, nil)

	temp, err := os.CreateTemp(filepath.Dir(path), ".descfile-*")
	if err != nil {
		return fmt.Errorf("creating temp descriptor file: %w", err)
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(compressed); err != nil {
		temp.Close()
		return fmt.Errorf("writing descriptor file: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("closing descriptor file: %w", err)
	}
	if err := os.Rename(temp.Name(), path); err != nil {
		return fmt.Errorf("renaming descriptor file into place: %w", err)
	}
	return nil
}

// ReadFile reads a descriptor file written by WriteFile and decodes
// it into v.
func ReadFile(path string, v any) error {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading descriptor file %s: %w", path, err)
	}
	encoded, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return fmt.Errorf("decompressing descriptor file %s: %w", path, err)
	}
	if err := Unmarshal(encoded, v); err != nil {
		return fmt.Errorf("decoding descriptor file %s: %w", path, err)
	}
	return nil
}

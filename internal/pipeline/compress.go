package pipeline

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// Compress implements compress(str) -> bytes: a lossless Brotli round-trip
// over the UTF-8 bytes of s.
func Compress(s string) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("brotli compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("brotli compress close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress implements decompress(bytes) -> str, the inverse of Compress.
func Decompress(b []byte) (string, error) {
	r := brotli.NewReader(bytes.NewReader(b))
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("brotli decompress: %w", err)
	}
	return string(out), nil
}

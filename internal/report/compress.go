package report

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

// Compressor shrinks a serialized report for size sensitive transport.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// GzipCompressor implements Compressor with gzip at best compression.
type GzipCompressor struct {
	level int
}

// NewGzipCompressor returns a compressor using gzip.BestCompression.
func NewGzipCompressor() *GzipCompressor {
	return &GzipCompressor{level: gzip.BestCompression}
}

// Compress gzips the payload.
func (c *GzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize compressed payload: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress, used by consumers of archived reports.
func (c *GzipCompressor) Decompress(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open compressed payload: %w", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, fmt.Errorf("failed to decompress payload: %w", err)
	}
	return buf.Bytes(), nil
}

package utils

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// CompressJSON compacts a JSON document and gzips it
func CompressJSON(raw []byte) ([]byte, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return nil, fmt.Errorf("failed to compact json: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(compact.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to gzip payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to gzip payload: %w", err)
	}
	return buf.Bytes(), nil
}

// DecompressJSON reverses CompressJSON
func DecompressJSON(compressed []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip payload: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to read gzip payload: %w", err)
	}
	return raw, nil
}

// HashJSON returns the hex sha256 of {"data": raw, "timestamp": timestamp}
// encoded with sorted keys, so key order in raw does not change the hash.
func HashJSON(raw []byte, timestamp string) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode payload for hashing: %w", err)
	}

	canonical, err := json.Marshal(map[string]interface{}{
		"data":      data,
		"timestamp": timestamp,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode payload for hashing: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

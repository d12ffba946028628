// Package codec compresses stored record sets.
package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnknown is returned by Lookup for an unregistered codec name.
var ErrUnknown = errors.New("codec: unknown codec")

// Codec provides compression and decompression functionality.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}

// Names accepted by Lookup.
const (
	NameZstd = "zstd"
	NameGzip = "gzip"
	NameNone = "none"
)

// Lookup returns the codec registered under name. An empty name selects
// zstd.
func Lookup(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameZstd, "zst":
		return Zstd(), nil
	case NameGzip, "gz":
		return Gzip(), nil
	case NameNone, "noop":
		return None(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
}

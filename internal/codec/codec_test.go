package codec

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	original := []byte(strings.Repeat(`{"event":"Rated Blitz game","pgn":"1. e4 c5"}`+"\n", 50))

	for _, name := range []string{NameZstd, NameGzip, NameNone} {
		t.Run(name, func(t *testing.T) {
			c, err := Lookup(name)
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", name, err)
			}

			var buf bytes.Buffer
			w, err := c.Writer(&buf)
			if err != nil {
				t.Fatalf("Writer() error = %v", err)
			}
			if _, err := w.Write(original); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			r, err := c.Reader(&buf)
			if err != nil {
				t.Fatalf("Reader() error = %v", err)
			}
			got, err := io.ReadAll(r)
			r.Close()
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if !bytes.Equal(got, original) {
				t.Errorf("round trip returned %d bytes, want %d", len(got), len(original))
			}
		})
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		wantExt string
		wantErr error
	}{
		{"", "zst", nil},
		{"ZSTD", "zst", nil},
		{"gz", "gz", nil},
		{"none", "", nil},
		{"lz4", "", ErrUnknown},
	}

	for _, tt := range tests {
		c, err := Lookup(tt.name)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Lookup(%q) error = %v, want %v", tt.name, err, tt.wantErr)
			continue
		}
		if err == nil && c.Extension() != tt.wantExt {
			t.Errorf("Lookup(%q).Extension() = %q, want %q", tt.name, c.Extension(), tt.wantExt)
		}
	}
}

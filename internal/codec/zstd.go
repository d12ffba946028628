package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

type zstdCodec struct {
	level zstd.EncoderLevel
}

// Zstd returns a zstd codec at the default level.
func Zstd() Codec {
	return ZstdLevel(zstd.SpeedDefault)
}

// ZstdLevel returns a zstd codec compressing at level.
func ZstdLevel(level zstd.EncoderLevel) Codec {
	return &zstdCodec{level: level}
}

func (c *zstdCodec) Reader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

func (c *zstdCodec) Writer(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(c.level))
}

func (c *zstdCodec) Extension() string {
	return "zst"
}

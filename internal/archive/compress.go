package archive

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

type CompressionMethod string

const (
	Gzip            CompressionMethod = "gzip"
	ZstdWithoutLong CompressionMethod = "zstd-without-long"
	Zstd            CompressionMethod = "zstd"
)

const (
	GzipFileName = "cache.tgz"
	ZstdFileName = "cache.tzst"
)

// longWindowSize is the zstd window used by Zstd; ZstdWithoutLong keeps the encoder default.
const longWindowSize = 1 << 27

// ParseCompressionMethod maps a config value to a method. Empty and "auto" select Zstd.
func ParseCompressionMethod(s string) (CompressionMethod, error) {
	switch CompressionMethod(strings.ToLower(strings.TrimSpace(s))) {
	case "", "auto", Zstd:
		return Zstd, nil
	case ZstdWithoutLong:
		return ZstdWithoutLong, nil
	case Gzip, "gz":
		return Gzip, nil
	default:
		return "", fmt.Errorf("unknown compression method %q", s)
	}
}

// CacheFileName is the archive file name for method. Both zstd variants share a name.
func CacheFileName(method CompressionMethod) string {
	if method == Gzip {
		return GzipFileName
	}
	return ZstdFileName
}

func newCompressWriter(w io.Writer, method CompressionMethod) (io.WriteCloser, error) {
	switch method {
	case Gzip:
		return gzip.NewWriterLevel(w, gzip.DefaultCompression)
	case ZstdWithoutLong:
		return zstd.NewWriter(w)
	case Zstd:
		return zstd.NewWriter(w, zstd.WithWindowSize(longWindowSize))
	default:
		return nil, fmt.Errorf("unknown compression method %q", method)
	}
}

func newDecompressReader(r io.Reader, method CompressionMethod) (io.ReadCloser, error) {
	switch method {
	case Gzip:
		return gzip.NewReader(r)
	case Zstd, ZstdWithoutLong:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unknown compression method %q", method)
	}
}

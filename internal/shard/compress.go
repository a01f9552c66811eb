package shard

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/kmergo/blobstore"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the whole-part compression scheme.
type Compression uint8

const (
	// None stores records uncompressed; local parts can then be scanned
	// straight out of the mmap.
	None Compression = iota
	// Zstd gives the better ratio, the right default for cold tables in
	// object storage.
	Zstd
	// LZ4 trades ratio for decompression speed.
	LZ4
)

// Ext returns the file name extension implying this compression.
func (c Compression) Ext() string {
	switch c {
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// CompressionForName infers the compression of a part from its name.
func CompressionForName(name string) Compression {
	switch {
	case strings.HasSuffix(name, ".zst"):
		return Zstd
	case strings.HasSuffix(name, ".lz4"):
		return LZ4
	default:
		return None
	}
}

// NewDecompressor opens a sequential reader over the full blob with the
// given compression removed. Closing the returned reader closes the
// underlying range reader as well.
func NewDecompressor(ctx context.Context, blob blobstore.Blob, comp Compression) (io.ReadCloser, error) {
	rc, err := blob.ReadRange(ctx, 0, -1)
	if err != nil {
		return nil, err
	}

	switch comp {
	case None:
		return rc, nil
	case Zstd:
		dec, err := zstd.NewReader(rc)
		if err != nil {
			_ = rc.Close()
			return nil, err
		}
		return &compositeReadCloser{
			Reader: dec,
			close: func() error {
				dec.Close()
				return rc.Close()
			},
		}, nil
	case LZ4:
		return &compositeReadCloser{
			Reader: lz4.NewReader(rc),
			close:  rc.Close,
		}, nil
	default:
		_ = rc.Close()
		return nil, fmt.Errorf("shard: unknown compression %d", comp)
	}
}

// NewCompressor wraps w with the given compression. Closing the returned
// writer flushes the compressed stream but leaves w open; callers commit
// the blob themselves.
func NewCompressor(w io.Writer, comp Compression) (io.WriteCloser, error) {
	switch comp {
	case None:
		return &nopWriteCloser{w}, nil
	case Zstd:
		return zstd.NewWriter(w)
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("shard: unknown compression %d", comp)
	}
}

type compositeReadCloser struct {
	io.Reader
	close func() error
}

func (c *compositeReadCloser) Close() error {
	return c.close()
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

package hist

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/kmergo/blobstore"
)

// Ext is the conventional histogram file extension.
const Ext = ".hist"

// ErrBadFile is returned when a histogram file is malformed.
var ErrBadFile = errors.New("hist: malformed histogram file")

// headerSize covers the three little-endian int32 fields: k-mer
// length, low bound, high bound. The buckets follow as int64s.
const headerSize = 3 * 4

// Encode renders the histogram in its on-disk form.
func (h *Histogram) Encode() []byte {
	buf := make([]byte, headerSize+8*len(h.Buckets))
	binary.LittleEndian.PutUint32(buf[0:], uint32(h.K))
	binary.LittleEndian.PutUint32(buf[4:], uint32(h.Low))
	binary.LittleEndian.PutUint32(buf[8:], uint32(h.High))
	for i, n := range h.Buckets {
		binary.LittleEndian.PutUint64(buf[headerSize+8*i:], uint64(n))
	}
	return buf
}

// Decode parses an on-disk histogram.
func Decode(buf []byte) (*Histogram, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadFile, len(buf))
	}
	k := int(int32(binary.LittleEndian.Uint32(buf[0:])))
	low := int(int32(binary.LittleEndian.Uint32(buf[4:])))
	high := int(int32(binary.LittleEndian.Uint32(buf[8:])))

	h, err := New(k, low, high)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFile, err)
	}
	if k < 2 {
		return nil, fmt.Errorf("%w: k-mer length %d", ErrBadFile, k)
	}
	if len(buf) != headerSize+8*len(h.Buckets) {
		return nil, fmt.Errorf("%w: %d bucket bytes, want %d", ErrBadFile, len(buf)-headerSize, 8*len(h.Buckets))
	}
	for i := range h.Buckets {
		h.Buckets[i] = int64(binary.LittleEndian.Uint64(buf[headerSize+8*i:]))
	}
	return h, nil
}

// Save writes the histogram to the store under name. The .hist
// extension is appended if missing.
func Save(ctx context.Context, store blobstore.BlobStore, name string, h *Histogram) error {
	w, err := store.Create(ctx, withExt(name))
	if err != nil {
		return err
	}
	if _, err := w.Write(h.Encode()); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Load reads a histogram from the store. The .hist extension is
// appended if missing.
func Load(ctx context.Context, store blobstore.BlobStore, name string) (*Histogram, error) {
	blob, err := store.Open(ctx, withExt(name))
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	rc, err := blob.ReadRange(ctx, 0, -1)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, err
	}
	return Decode(buf.Bytes())
}

func withExt(name string) string {
	if strings.HasSuffix(name, Ext) {
		return name
	}
	return name + Ext
}

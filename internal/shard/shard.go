// Package shard defines the on-disk layout of sorted k-mer table shards
// and resolves shard files through a blob store.
//
// A table is stored as numbered parts <root>.T1, <root>.T2, ... Each part
// carries a fixed header followed by its records:
//
//	int32  kmer     k-mer length K (little endian)
//	int64  entries  number of records in this part
//	bytes  entries × (ceil(K/4)+2) record bytes, strictly ascending
//
// A part may be compressed as a whole; the compression is chosen by file
// extension (.zst, .lz4) and is transparent to readers. Parts are
// discovered by probing successive part numbers until one is missing.
package shard

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/kmergo/blobstore"
	"github.com/hupe1980/kmergo/kmer"
)

// HeaderSize is the encoded size of a part header in bytes.
const HeaderSize = 4 + 8

var (
	// ErrBadHeader is returned when a part header is malformed.
	ErrBadHeader = errors.New("shard: malformed part header")

	// ErrNoParts is returned when not a single part exists for a root.
	ErrNoParts = errors.New("shard: no table parts found")
)

// Header describes one table part.
type Header struct {
	Kmer    int32
	Entries int64
}

// KmerBytes returns the encoded k-mer width in bytes.
func (h Header) KmerBytes() int {
	return kmer.Bytes(int(h.Kmer))
}

// RecordBytes returns the full record width (encoding + count) in bytes.
func (h Header) RecordBytes() int {
	return h.KmerBytes() + 2
}

// Encode renders the header in its on-disk form.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(h.Kmer))
	binary.LittleEndian.PutUint64(buf[4:], uint64(h.Entries))
	return buf
}

// DecodeHeader parses and validates an on-disk header.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d header bytes", ErrBadHeader, len(buf))
	}
	h := Header{
		Kmer:    int32(binary.LittleEndian.Uint32(buf[0:])),
		Entries: int64(binary.LittleEndian.Uint64(buf[4:])),
	}
	if h.Kmer < 2 {
		return Header{}, fmt.Errorf("%w: k-mer length %d", ErrBadHeader, h.Kmer)
	}
	if h.Entries < 0 {
		return Header{}, fmt.Errorf("%w: negative entry count", ErrBadHeader)
	}
	return h, nil
}

// PartName returns the blob name of part p (1-based) of a table root.
func PartName(root string, p int) string {
	return fmt.Sprintf("%s.T%d", root, p)
}

// Part is a resolved table part.
type Part struct {
	Name        string
	Compression Compression
	Blob        blobstore.Blob
	Header      Header
}

// OpenPart resolves part p of root, trying the plain name and the known
// compressed variants, and reads its header. Returns
// blobstore.ErrNotFound if the part does not exist under any name.
func OpenPart(ctx context.Context, store blobstore.BlobStore, root string, p int) (*Part, error) {
	base := PartName(root, p)
	for _, comp := range []Compression{None, Zstd, LZ4} {
		name := base + comp.Ext()
		blob, err := store.Open(ctx, name)
		if errors.Is(err, blobstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		part := &Part{Name: name, Compression: comp, Blob: blob}
		if err := part.readHeader(ctx); err != nil {
			_ = blob.Close()
			return nil, fmt.Errorf("shard: part %s: %w", name, err)
		}
		return part, nil
	}
	return nil, blobstore.ErrNotFound
}

func (p *Part) readHeader(ctx context.Context) error {
	r, err := NewDecompressor(ctx, p.Blob, p.Compression)
	if err != nil {
		return err
	}
	defer r.Close()

	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	h, err := DecodeHeader(buf)
	if err != nil {
		return err
	}
	p.Header = h
	return nil
}

// Open returns a reader positioned at the first record of the part,
// with the header already consumed and compression removed.
func (p *Part) Open(ctx context.Context) (io.ReadCloser, error) {
	r, err := NewDecompressor(ctx, p.Blob, p.Compression)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("shard: part %s: %w", p.Name, ErrBadHeader)
	}
	return r, nil
}

// Close releases the underlying blob.
func (p *Part) Close() error {
	return p.Blob.Close()
}

// OpenAll resolves every part of a table root in order. All parts must
// agree on K. Returns ErrNoParts if part 1 is missing.
func OpenAll(ctx context.Context, store blobstore.BlobStore, root string) ([]*Part, error) {
	var parts []*Part
	for p := 1; ; p++ {
		part, err := OpenPart(ctx, store, root, p)
		if errors.Is(err, blobstore.ErrNotFound) {
			break
		}
		if err != nil {
			CloseAll(parts)
			return nil, err
		}
		if len(parts) > 0 && part.Header.Kmer != parts[0].Header.Kmer {
			k := part.Header.Kmer
			CloseAll(append(parts, part))
			return nil, fmt.Errorf("shard: part %s has K=%d, want K=%d", part.Name, k, parts[0].Header.Kmer)
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoParts, root)
	}
	return parts, nil
}

// CloseAll closes every part, keeping the first error.
func CloseAll(parts []*Part) error {
	var first error
	for _, p := range parts {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}


// Package stream reads sorted k-mer tables sequentially without
// materializing them. The Venn classification only ever needs the
// current record of each source, so an N-way merge over streams runs in
// constant memory no matter how large the tables are.
package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/kmergo/blobstore"
	"github.com/hupe1980/kmergo/internal/shard"
)

// Stream is a one-record cursor over a sorted k-mer table. After Open
// the cursor is positioned before the first record; Next advances it
// and reports whether a record is available.
type Stream struct {
	store blobstore.BlobStore
	root  string
	parts []*shard.Part

	k     int
	kbyte int
	tbyte int
	nels  int64

	part int
	r    io.ReadCloser
	left int64

	rec []byte
	idx int64
}

// Open resolves all parts of root and positions the cursor before the
// first record.
func Open(ctx context.Context, store blobstore.BlobStore, root string) (*Stream, error) {
	parts, err := shard.OpenAll(ctx, store, root)
	if err != nil {
		return nil, err
	}

	h := parts[0].Header
	s := &Stream{
		store: store,
		root:  root,
		parts: parts,
		k:     int(h.Kmer),
		kbyte: h.KmerBytes(),
		tbyte: h.RecordBytes(),
		idx:   -1,
	}
	for _, p := range parts {
		s.nels += p.Header.Entries
	}
	s.rec = make([]byte, s.tbyte)
	return s, nil
}

// K returns the k-mer length.
func (s *Stream) K() int { return s.k }

// KmerBytes returns the encoded k-mer width in bytes.
func (s *Stream) KmerBytes() int { return s.kbyte }

// RecordBytes returns the full record width in bytes.
func (s *Stream) RecordBytes() int { return s.tbyte }

// Len returns the total number of records across all parts.
func (s *Stream) Len() int64 { return s.nels }

// Index returns the position of the current record, or -1 before the
// first Next.
func (s *Stream) Index() int64 { return s.idx }

// Kmer returns the encoding of the current record. The slice is
// overwritten by the next advance.
func (s *Stream) Kmer() []byte { return s.rec[:s.kbyte] }

// Count returns the occurrence count of the current record.
func (s *Stream) Count() int {
	return int(binary.LittleEndian.Uint16(s.rec[s.kbyte:]))
}

// Next advances to the next record, crossing part boundaries as
// needed. It returns false with a nil error at the end of the table.
func (s *Stream) Next(ctx context.Context) (bool, error) {
	for s.left == 0 {
		if s.r != nil {
			if err := s.r.Close(); err != nil {
				return false, err
			}
			s.r = nil
			s.part++
		}
		if s.part >= len(s.parts) {
			return false, nil
		}
		r, err := s.parts[s.part].Open(ctx)
		if err != nil {
			return false, err
		}
		s.r = r
		s.left = s.parts[s.part].Header.Entries
	}

	if _, err := io.ReadFull(s.r, s.rec); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, fmt.Errorf("stream: part %s truncated", s.parts[s.part].Name)
		}
		return false, err
	}
	s.left--
	s.idx++
	return true, nil
}

// Reset rewinds the cursor before the first record. The next Next reads
// part 1 again.
func (s *Stream) Reset() error {
	var err error
	if s.r != nil {
		err = s.r.Close()
		s.r = nil
	}
	s.part = 0
	s.left = 0
	s.idx = -1
	return err
}

// Close releases all parts.
func (s *Stream) Close() error {
	var first error
	if s.r != nil {
		first = s.r.Close()
		s.r = nil
	}
	if err := shard.CloseAll(s.parts); err != nil && first == nil {
		first = err
	}
	s.parts = nil
	return first
}

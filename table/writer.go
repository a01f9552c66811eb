package table

import (
	"context"
	"fmt"

	"github.com/hupe1980/kmergo/blobstore"
	"github.com/hupe1980/kmergo/internal/shard"
	"github.com/hupe1980/kmergo/kmer"
)

// maxCount is the widest count a record can carry; larger values
// saturate.
const maxCount = 0xffff

// WriterOptions configures a Writer.
type WriterOptions struct {
	// Compression selects the part codec.
	Compression shard.Compression

	// MaxPartEntries caps the records per part; a new part is started
	// when the cap is reached. Zero means a single part.
	MaxPartEntries int64
}

// Writer produces the shard parts of a sorted k-mer table. Records must
// be added in strictly ascending order; the writer rejects violations
// so every table it emits satisfies the order invariant by
// construction.
type Writer struct {
	ctx   context.Context
	store blobstore.BlobStore
	root  string
	k     int
	kbyte int
	tbyte int
	opts  WriterOptions

	part int
	buf  []byte
	last []byte
	n    int64
}

// NewWriter starts a table at root for k-mers of length k.
func NewWriter(ctx context.Context, store blobstore.BlobStore, root string, k int, optFns ...func(o *WriterOptions)) (*Writer, error) {
	if k < 2 {
		return nil, fmt.Errorf("table: k-mer length %d out of range", k)
	}

	var opts WriterOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	kbyte := kmer.Bytes(k)

	return &Writer{
		ctx:   ctx,
		store: store,
		root:  root,
		k:     k,
		kbyte: kbyte,
		tbyte: kbyte + 2,
		opts:  opts,
		part:  1,
	}, nil
}

// Add appends one record. enc must be kmer.Bytes(k) wide and strictly
// greater than the previous record.
func (w *Writer) Add(enc []byte, count int) error {
	if len(enc) != w.kbyte {
		return fmt.Errorf("table: encoding is %d bytes, want %d", len(enc), w.kbyte)
	}
	if w.last != nil && kmer.Compare(w.last, enc, w.kbyte) >= 0 {
		return &ErrOutOfOrder{Index: w.n}
	}
	if count < 0 {
		return fmt.Errorf("table: negative count %d", count)
	}
	if count > maxCount {
		count = maxCount
	}

	w.buf = append(w.buf, enc...)
	w.buf = append(w.buf, byte(count), byte(count>>8))
	if w.last == nil {
		w.last = make([]byte, w.kbyte)
	}
	copy(w.last, enc)
	w.n++

	if w.opts.MaxPartEntries > 0 && int64(len(w.buf))/int64(w.tbyte) >= w.opts.MaxPartEntries {
		return w.flush()
	}
	return nil
}

// AddString encodes seq and appends it.
func (w *Writer) AddString(seq string, count int) error {
	if len(seq) != w.k {
		return fmt.Errorf("table: sequence is %d bases, want %d", len(seq), w.k)
	}
	enc, err := kmer.Encode(seq)
	if err != nil {
		return err
	}
	return w.Add(enc, count)
}

func (w *Writer) flush() error {
	entries := int64(len(w.buf)) / int64(w.tbyte)

	name := shard.PartName(w.root, w.part) + w.opts.Compression.Ext()
	blob, err := w.store.Create(w.ctx, name)
	if err != nil {
		return err
	}

	cw, err := shard.NewCompressor(blob, w.opts.Compression)
	if err != nil {
		blob.Close()
		return err
	}

	hdr := shard.Header{Kmer: int32(w.k), Entries: entries}
	if _, err := cw.Write(hdr.Encode()); err != nil {
		cw.Close()
		blob.Close()
		return err
	}
	if _, err := cw.Write(w.buf); err != nil {
		cw.Close()
		blob.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		blob.Close()
		return err
	}
	if err := blob.Close(); err != nil {
		return err
	}

	w.part++
	w.buf = w.buf[:0]
	return nil
}

// Close flushes the final part. A table always has at least one part,
// even when empty.
func (w *Writer) Close() error {
	if len(w.buf) > 0 || w.part == 1 {
		return w.flush()
	}
	return nil
}

// Package table loads counted, sorted k-mer tables into memory and gives
// random access to their fixed-width records.
//
// A table is the concatenation of its shard parts in part order; since
// every part is strictly ascending and parts partition the key space in
// order, the loaded slab is one strictly ascending run. The haplotype
// scan needs exactly this: a fully resident table it can walk with
// bounded-width merge cursors.
package table

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/kmergo/blobstore"
	"github.com/hupe1980/kmergo/internal/shard"
	"github.com/hupe1980/kmergo/kmer"
	"github.com/hupe1980/kmergo/resource"
	"golang.org/x/sync/errgroup"
)

// loadChunk is the read granularity during shard loads; IO throttling
// is applied per chunk.
const loadChunk = 1 << 20

// ErrMemoryBudget is returned when loading a table would exceed the
// configured memory limit. The run is aborted before any part is read.
var ErrMemoryBudget = fmt.Errorf("table: memory budget exceeded")

// ErrOutOfOrder reports a record that violates the strict ascending
// order invariant.
type ErrOutOfOrder struct {
	Index int64
}

func (e *ErrOutOfOrder) Error() string {
	return fmt.Sprintf("table: record %d is not strictly greater than its predecessor", e.Index)
}

// Options configures Load.
type Options struct {
	// Cutoff drops records with count < Cutoff after loading.
	// Values <= 1 keep everything.
	Cutoff int

	// Controller enforces the memory budget and IO limits of the load.
	// nil enforces nothing.
	Controller *resource.Controller

	// Verify walks the loaded table once and fails the load if the
	// strict ascending order invariant does not hold. The merge passes
	// trust the invariant instead of re-validating per comparison, so
	// this is the place to catch corrupt input.
	Verify bool
}

// Table is a fully materialized sorted k-mer table.
type Table struct {
	k     int
	kbyte int
	tbyte int
	nels  int64
	data  []byte

	ctrl     *resource.Controller
	reserved int64
}

// Load reads all parts of root from the store into one in-memory table.
// Parts are loaded concurrently; the number of in-flight parts and the
// read throughput follow the controller's limits.
func Load(ctx context.Context, store blobstore.BlobStore, root string, optFns ...func(o *Options)) (*Table, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	parts, err := shard.OpenAll(ctx, store, root)
	if err != nil {
		return nil, err
	}
	defer shard.CloseAll(parts)

	h := parts[0].Header
	tbyte := h.RecordBytes()
	var nels int64
	for _, p := range parts {
		nels += p.Header.Entries
	}

	size := nels * int64(tbyte)
	if !opts.Controller.TryAcquireMemory(size) {
		return nil, fmt.Errorf("%w: need %d bytes for %q", ErrMemoryBudget, size, root)
	}

	t := &Table{
		k:        int(h.Kmer),
		kbyte:    h.KmerBytes(),
		tbyte:    tbyte,
		nels:     nels,
		data:     make([]byte, size),
		ctrl:     opts.Controller,
		reserved: size,
	}

	g, gctx := errgroup.WithContext(ctx)
	off := int64(0)
	for _, p := range parts {
		region := t.data[off : off+p.Header.Entries*int64(tbyte)]
		off += int64(len(region))
		g.Go(func() error {
			return loadPart(gctx, p, region, opts.Controller)
		})
	}
	if err := g.Wait(); err != nil {
		t.Close()
		return nil, err
	}

	if opts.Cutoff > 1 {
		t.applyCutoff(opts.Cutoff)
	}
	if opts.Verify {
		if err := t.Check(); err != nil {
			t.Close()
			return nil, err
		}
	}
	return t, nil
}

func loadPart(ctx context.Context, p *shard.Part, region []byte, ctrl *resource.Controller) error {
	if err := ctrl.AcquireLoadWorker(ctx); err != nil {
		return err
	}
	defer ctrl.ReleaseLoadWorker()

	r, err := p.Open(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	for len(region) > 0 {
		n := len(region)
		if n > loadChunk {
			n = loadChunk
		}
		if err := ctrl.AcquireIO(ctx, n); err != nil {
			return err
		}
		if _, err := io.ReadFull(r, region[:n]); err != nil {
			return fmt.Errorf("table: part %s truncated: %w", p.Name, err)
		}
		region = region[n:]
	}
	return nil
}

// applyCutoff compacts the table in place, keeping only records whose
// count reaches the cutoff.
func (t *Table) applyCutoff(cutoff int) {
	w := int64(0)
	for i := int64(0); i < t.nels; i++ {
		if t.Count(i) >= cutoff {
			if w != i {
				copy(t.record(w), t.record(i))
			}
			w++
		}
	}
	t.nels = w
	t.data = t.data[:w*int64(t.tbyte)]
}

// K returns the k-mer length.
func (t *Table) K() int { return t.k }

// KmerBytes returns the encoded k-mer width in bytes.
func (t *Table) KmerBytes() int { return t.kbyte }

// RecordBytes returns the full record width in bytes.
func (t *Table) RecordBytes() int { return t.tbyte }

// Len returns the number of records.
func (t *Table) Len() int64 { return t.nels }

func (t *Table) record(i int64) []byte {
	off := i * int64(t.tbyte)
	return t.data[off : off+int64(t.tbyte)]
}

// Kmer returns the encoding of record i. The slice aliases the table
// and must not be modified.
func (t *Table) Kmer(i int64) []byte {
	off := i * int64(t.tbyte)
	return t.data[off : off+int64(t.kbyte)]
}

// Count returns the occurrence count of record i.
func (t *Table) Count(i int64) int {
	off := i*int64(t.tbyte) + int64(t.kbyte)
	return int(binary.LittleEndian.Uint16(t.data[off:]))
}

// Find returns the index of the record with the given encoding, or -1.
func (t *Table) Find(enc []byte) int64 {
	lo, hi := int64(0), t.nels
	for lo < hi {
		mid := (lo + hi) >> 1
		if kmer.Compare(t.Kmer(mid), enc, t.kbyte) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < t.nels && kmer.Compare(t.Kmer(lo), enc, t.kbyte) == 0 {
		return lo
	}
	return -1
}

// Check walks the table once and verifies the strict ascending order
// invariant.
func (t *Table) Check() error {
	for i := int64(1); i < t.nels; i++ {
		if kmer.Compare(t.Kmer(i-1), t.Kmer(i), t.kbyte) >= 0 {
			return &ErrOutOfOrder{Index: i}
		}
	}
	return nil
}

// List writes every record as "<bases> <count>" lines, one per record.
// Rendering is separate from scanning so callers can reuse the table.
func (t *Table) List(w io.Writer) error {
	for i := int64(0); i < t.nels; i++ {
		if _, err := fmt.Fprintf(w, "%s %d\n", kmer.Decode(t.Kmer(i), t.k), t.Count(i)); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the table's memory reservation. The table must not be
// used afterwards.
func (t *Table) Close() {
	if t.data == nil {
		return
	}
	t.data = nil
	t.ctrl.ReleaseMemory(t.reserved)
	t.reserved = 0
}

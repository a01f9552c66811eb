package kmergo

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/hupe1980/kmergo/blobstore"
	"github.com/hupe1980/kmergo/haplo"
	"github.com/hupe1980/kmergo/stream"
	"github.com/hupe1980/kmergo/table"
	"github.com/hupe1980/kmergo/venn"
)

// Workspace binds a blob store holding k-mer tables to a resource
// budget and runs the analyses over them.
type Workspace struct {
	store   blobstore.BlobStore
	opts    options
	logger  *Logger
	metrics MetricsCollector
}

// Open creates a workspace over the given store.
func Open(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Workspace, error) {
	opts := applyOptions(optFns)
	return &Workspace{
		store:   store,
		opts:    opts,
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}, nil
}

// LoadTable materializes the table at root, honoring the workspace's
// memory budget, cutoff and verification settings.
func (w *Workspace) LoadTable(ctx context.Context, root string, optFns ...func(o *table.Options)) (*table.Table, error) {
	start := time.Now()

	tab, err := table.Load(ctx, w.store, root, func(o *table.Options) {
		o.Controller = w.opts.controller
		o.Cutoff = w.opts.cutoff
		o.Verify = w.opts.verify
		for _, fn := range optFns {
			fn(o)
		}
	})
	if err != nil {
		err = translateError(root, err)
		w.logger.LogTableLoad(ctx, root, 0, time.Since(start), err)
		w.metrics.RecordTableLoad(0, time.Since(start), err)
		return nil, err
	}

	w.logger.LogTableLoad(ctx, root, tab.Len(), time.Since(start), nil)
	w.metrics.RecordTableLoad(tab.Len(), time.Since(start), nil)
	return tab, nil
}

// OpenStream opens a sequential cursor over the table at root.
func (w *Workspace) OpenStream(ctx context.Context, root string) (*stream.Stream, error) {
	s, err := stream.Open(ctx, w.store, root)
	if err != nil {
		return nil, translateError(root, err)
	}
	return s, nil
}

// FindHaplo scans the table at root for haplotype-candidate groups and
// calls fn for each one. fn returning false stops the scan. The table
// is loaded and released inside the call.
func (w *Workspace) FindHaplo(ctx context.Context, root string, fn func(g haplo.Group) bool, optFns ...func(o *haplo.Options)) error {
	start := time.Now()

	tab, err := w.LoadTable(ctx, root)
	if err != nil {
		w.metrics.RecordHaploScan(0, time.Since(start), err)
		return err
	}
	defer tab.Close()

	var groups int64
	for g := range haplo.NewFinder(tab, optFns...).Groups() {
		groups++
		if !fn(g) {
			break
		}
	}

	w.logger.LogHaploScan(ctx, root, groups, time.Since(start), nil)
	w.metrics.RecordHaploScan(groups, time.Since(start), nil)
	return nil
}

// Venn classifies the k-mers of the tables named by roots into subset
// histograms. Source names are the root base names; two roots use the
// specialized pairwise merge.
func (w *Workspace) Venn(ctx context.Context, roots []string, optFns ...func(o *venn.Options)) (*venn.Result, error) {
	start := time.Now()

	r, err := w.venn(ctx, roots, optFns)
	if err != nil {
		w.logger.LogVennMerge(ctx, roots, time.Since(start), err)
		w.metrics.RecordVennMerge(len(roots), time.Since(start), err)
		return nil, err
	}

	w.logger.LogVennMerge(ctx, roots, time.Since(start), nil)
	w.metrics.RecordVennMerge(len(roots), time.Since(start), nil)
	return r, nil
}

func (w *Workspace) venn(ctx context.Context, roots []string, optFns []func(o *venn.Options)) (*venn.Result, error) {
	srcs := make([]venn.Source, 0, len(roots))
	defer func() {
		for _, s := range srcs {
			_ = s.Stream.Close()
		}
	}()

	for _, root := range roots {
		s, err := w.OpenStream(ctx, root)
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, venn.Source{Name: SourceName(root), Stream: s})
	}

	if len(srcs) == 2 {
		return venn.Venn2(ctx, srcs[0], srcs[1], optFns...)
	}
	return venn.VennN(ctx, srcs, optFns...)
}

// SourceName derives the Venn source label of a table root: the base
// name up to the first dot.
func SourceName(root string) string {
	base := path.Base(root)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base
}

// Package venn classifies the distinct k-mers of N sorted sources into
// the subset of sources containing each one, accumulating a clamped
// count histogram per non-empty subset. The classification is a single
// N-way merge over streaming cursors and needs constant memory.
//
// Subsets are bitmasks over source positions: bit c set means source c
// contains the key. A key present in sources {A,B} bumps the {A,B}
// histogram once, at the minimum of the two counts; the minimum is the
// number of times the k-mer can be in both sources at once, and it
// makes the specialized pairwise merge and the general form agree.
package venn

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/kmergo/blobstore"
	"github.com/hupe1980/kmergo/hist"
	"github.com/hupe1980/kmergo/kmer"
	"github.com/hupe1980/kmergo/stream"
)

// Default histogram bounds.
const (
	DefaultLow  = 1
	DefaultHigh = 100
)

// Source is one input table of the classification.
type Source struct {
	// Name labels the source in subset names.
	Name string

	// Stream is the source's sorted cursor, positioned before the
	// first record.
	Stream *stream.Stream
}

// Options configures a classification.
type Options struct {
	// Low and High bound the histograms; counts clamp to the range.
	Low  int
	High int
}

// Result holds one histogram per non-empty subset of sources.
type Result struct {
	K     int
	Low   int
	High  int
	Names []string

	// hists is indexed by subset bitmask minus one.
	hists []*hist.Histogram
}

// Histogram returns the histogram of the subset with the given bitmask
// (1 <= mask < 2^N).
func (r *Result) Histogram(mask int) *hist.Histogram {
	return r.hists[mask-1]
}

// SubsetName renders a subset as the source names joined by
// underscores, upper-cased for members and lower-cased for
// non-members. Sources A, B, C with mask 0b011 give "A_B_c".
func (r *Result) SubsetName(mask int) string {
	parts := make([]string, len(r.Names))
	for c, n := range r.Names {
		if mask&(1<<c) != 0 {
			parts[c] = strings.ToUpper(n)
		} else {
			parts[c] = strings.ToLower(n)
		}
	}
	return strings.Join(parts, "_")
}

// Save writes every subset histogram to the store as
// "<SubsetName>.hist", empty subsets included.
func (r *Result) Save(ctx context.Context, store blobstore.BlobStore) error {
	for mask := 1; mask <= len(r.hists); mask++ {
		if err := hist.Save(ctx, store, r.SubsetName(mask), r.hists[mask-1]); err != nil {
			return err
		}
	}
	return nil
}

func newResult(srcs []Source, opts Options) (*Result, error) {
	if len(srcs) < 2 {
		return nil, fmt.Errorf("venn: need at least 2 sources, have %d", len(srcs))
	}

	k := srcs[0].Stream.K()
	names := make([]string, len(srcs))
	for c, s := range srcs {
		if s.Stream.K() != k {
			return nil, fmt.Errorf("venn: source %q has K=%d, want K=%d", s.Name, s.Stream.K(), k)
		}
		names[c] = s.Name
	}

	r := &Result{
		K:     k,
		Low:   opts.Low,
		High:  opts.High,
		Names: names,
		hists: make([]*hist.Histogram, (1<<len(srcs))-1),
	}
	for i := range r.hists {
		h, err := hist.New(k, opts.Low, opts.High)
		if err != nil {
			return nil, err
		}
		r.hists[i] = h
	}
	return r, nil
}

func resolveOptions(optFns []func(o *Options)) Options {
	opts := Options{Low: DefaultLow, High: DefaultHigh}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// Venn2 classifies exactly two sources with the specialized pairwise
// merge: matching keys go to the intersection at the smaller count,
// unmatched keys to their side's exclusive subset, and whichever
// source remains after the other is exhausted drains into its
// exclusive subset.
func Venn2(ctx context.Context, a, b Source, optFns ...func(o *Options)) (*Result, error) {
	r, err := newResult([]Source{a, b}, resolveOptions(optFns))
	if err != nil {
		return nil, err
	}

	kbyte := a.Stream.KmerBytes()
	onlyA := r.hists[0]
	onlyB := r.hists[1]
	inter := r.hists[2]

	ta, tb := a.Stream, b.Stream
	okA, err := ta.Next(ctx)
	if err != nil {
		return nil, err
	}
	okB, err := tb.Next(ctx)
	if err != nil {
		return nil, err
	}

	for okA && okB {
		switch kmer.Compare(ta.Kmer(), tb.Kmer(), kbyte) {
		case 0:
			c := ta.Count()
			if d := tb.Count(); d < c {
				c = d
			}
			inter.Bump(c)
			if okA, err = ta.Next(ctx); err != nil {
				return nil, err
			}
			if okB, err = tb.Next(ctx); err != nil {
				return nil, err
			}
		case -1:
			onlyA.Bump(ta.Count())
			if okA, err = ta.Next(ctx); err != nil {
				return nil, err
			}
		default:
			onlyB.Bump(tb.Count())
			if okB, err = tb.Next(ctx); err != nil {
				return nil, err
			}
		}
	}

	rest, h, ok := ta, onlyA, okA
	if okB {
		rest, h, ok = tb, onlyB, okB
	}
	for ok {
		h.Bump(rest.Count())
		if ok, err = rest.Next(ctx); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// VennN classifies any number of sources with the general N-way merge:
// at every step the minimum key among the live cursors is taken, the
// cursors presenting it form the subset, and the subset's histogram is
// bumped once at the minimum of their counts.
func VennN(ctx context.Context, srcs []Source, optFns ...func(o *Options)) (*Result, error) {
	r, err := newResult(srcs, resolveOptions(optFns))
	if err != nil {
		return nil, err
	}

	kbyte := srcs[0].Stream.KmerBytes()
	nway := len(srcs)

	live := make([]bool, nway)
	for c, s := range srcs {
		if live[c], err = s.Stream.Next(ctx); err != nil {
			return nil, err
		}
	}

	in := make([]int, nway)
	for {
		imin := -1
		for c := 0; c < nway; c++ {
			if live[c] && (imin < 0 || kmer.Compare(srcs[c].Stream.Kmer(), srcs[imin].Stream.Kmer(), kbyte) < 0) {
				imin = c
			}
		}
		if imin < 0 {
			return r, nil
		}

		itop := 0
		in[itop] = imin
		itop++
		for c := imin + 1; c < nway; c++ {
			if live[c] && kmer.Compare(srcs[c].Stream.Kmer(), srcs[imin].Stream.Kmer(), kbyte) == 0 {
				in[itop] = c
				itop++
			}
		}

		mask := 0
		min := 0
		for i := 0; i < itop; i++ {
			x := in[i]
			mask |= 1 << x
			if n := srcs[x].Stream.Count(); i == 0 || n < min {
				min = n
			}
			if live[x], err = srcs[x].Stream.Next(ctx); err != nil {
				return nil, err
			}
		}
		r.hists[mask-1].Bump(min)
	}
}

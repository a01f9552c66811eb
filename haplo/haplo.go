// Package haplo detects candidate haplotype variants in a sorted k-mer
// table: sets of k-mers that are identical everywhere except the single
// symbol at the center position, a SNP flanked by identical sequence.
//
// Because the table is sorted by full encoding, all k-mers sharing the
// first K/2 symbols form one contiguous run (a partition). Inside a
// partition the records split into at most four sub-groups, one per
// center symbol, and each sub-group is itself sorted by the suffix
// after the center. Finding variants is then a bounded merge of the
// sub-group cursors keyed on that suffix: cursors presenting the same
// suffix at the same time are the same flanking context with different
// center symbols.
package haplo

import (
	"fmt"
	"io"
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/kmergo/kmer"
	"github.com/hupe1980/kmergo/table"
)

// maxFingers is the number of sub-group cursors a partition can need,
// one per center symbol.
const maxFingers = 4

// suffixMasks isolates, within the byte holding the center symbol, the
// suffix symbols packed after it. Indexed by the center's position in
// its byte.
var suffixMasks = [4]byte{0x3f, 0x0f, 0x03, 0x00}

// Member is one k-mer of a candidate group.
type Member struct {
	// Index is the record's position in the source table.
	Index int64

	// Kmer is the record's encoding; it aliases the table.
	Kmer []byte

	// Count is the record's occurrence count.
	Count int

	// SubGroup is the ordinal of the member's center-symbol sub-group
	// within its partition, useful for downstream labeling.
	SubGroup int

	// Center is the member's center symbol code.
	Center byte
}

// Group is a set of 2 to 4 records identical outside the center symbol
// and pairwise distinct at it.
type Group struct {
	Members []Member
}

// Options configures a Finder.
type Options struct {
	// MinCount and MaxCount bound the member counts of emitted groups;
	// a group is kept only if every member's count lies in the range.
	// Zero means unbounded on that side. Counts far from the expected
	// haplotype coverage are repeat or error artifacts, not SNPs.
	MinCount int
	MaxCount int
}

// Finder scans a table for haplotype-candidate groups.
type Finder struct {
	tab  *table.Table
	opts Options

	khalf int
	mask  byte
	offs  int
	rem   int

	coverage *roaring64.Bitmap
}

// NewFinder prepares a scan over tab. The center position is K/2.
func NewFinder(tab *table.Table, optFns ...func(o *Options)) *Finder {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	khalf := tab.K() / 2
	offs := (khalf >> 2) + 1

	return &Finder{
		tab:      tab,
		opts:     opts,
		khalf:    khalf,
		mask:     suffixMasks[khalf&3],
		offs:     offs,
		rem:      tab.KmerBytes() - offs,
		coverage: roaring64.NewBitmap(),
	}
}

// suffixCompare orders records i and j by the symbols strictly after
// the center position. The byte holding the center is compared under
// the suffix mask, the remaining bytes whole.
func (f *Finder) suffixCompare(i, j int64) int {
	a := f.tab.Kmer(i)
	b := f.tab.Kmer(j)

	ac := a[f.offs-1] & f.mask
	bc := b[f.offs-1] & f.mask
	if ac != bc {
		if ac < bc {
			return -1
		}
		return 1
	}
	return kmer.Compare(a[f.offs:], b[f.offs:], f.rem)
}

// Groups returns the candidate groups in table order. Member slices
// alias the table and stay valid until it is closed. The scan is lazy;
// breaking out of the loop stops it.
func (f *Finder) Groups() iter.Seq[Group] {
	return func(yield func(Group) bool) {
		nels := f.tab.Len()

		var cursor, limit [maxFingers]int64

		for base := int64(0); base < nels; {
			// Partition scan: a mismatch before the center ends the
			// partition, a mismatch exactly at the center starts a new
			// sub-group.
			nf := 1
			cursor[0] = base
			end := base + 1
			for ; end < nels; end++ {
				x := kmer.FirstMismatch(f.tab.Kmer(end-1), f.tab.Kmer(end), f.khalf)
				if x < f.khalf {
					break
				}
				if x == f.khalf {
					if nf == maxFingers {
						// More than four center symbols means the
						// table is not sorted; the scan trusts the
						// invariant, Check catches violations.
						break
					}
					cursor[nf] = end
					nf++
				}
			}

			for i := 1; i < nf; i++ {
				limit[i-1] = cursor[i]
			}
			limit[nf-1] = end

			if nf > 1 {
				if !f.merge(yield, &cursor, &limit, nf) {
					return
				}
			}
			base = end
		}
	}
}

// merge runs the bounded k-way merge over the partition's sub-group
// cursors, emitting each set of >=2 cursors that present the same
// suffix simultaneously.
func (f *Finder) merge(yield func(Group) bool, cursor, limit *[maxFingers]int64, nf int) bool {
	var match [maxFingers]int

	for {
		x := -1
		for i := 0; i < nf; i++ {
			if cursor[i] < limit[i] && (x < 0 || f.suffixCompare(cursor[i], cursor[x]) < 0) {
				x = i
			}
		}
		if x < 0 {
			return true
		}

		c := 0
		match[c] = x
		c++
		for i := x + 1; i < nf; i++ {
			if cursor[i] < limit[i] && f.suffixCompare(cursor[i], cursor[x]) == 0 {
				match[c] = i
				c++
			}
		}

		if c > 1 && f.admit(cursor, match[:c]) {
			g := Group{Members: make([]Member, c)}
			for mi, i := range match[:c] {
				idx := cursor[i]
				enc := f.tab.Kmer(idx)
				g.Members[mi] = Member{
					Index:    idx,
					Kmer:     enc,
					Count:    f.tab.Count(idx),
					SubGroup: i,
					Center:   kmer.Symbol(enc, f.khalf),
				}
				f.coverage.Add(uint64(idx))
			}
			if !yield(g) {
				return false
			}
		}

		for _, i := range match[:c] {
			cursor[i]++
		}
	}
}

// admit applies the count-range filter to a prospective group.
func (f *Finder) admit(cursor *[maxFingers]int64, match []int) bool {
	if f.opts.MinCount <= 0 && f.opts.MaxCount <= 0 {
		return true
	}
	for _, i := range match {
		n := f.tab.Count(cursor[i])
		if f.opts.MinCount > 0 && n < f.opts.MinCount {
			return false
		}
		if f.opts.MaxCount > 0 && n > f.opts.MaxCount {
			return false
		}
	}
	return true
}

// Coverage returns the set of table record indices that joined at
// least one emitted group so far. It is complete only after Groups has
// been fully consumed.
func (f *Finder) Coverage() *roaring64.Bitmap {
	return f.coverage
}

// WriteGroup renders one group, one member per line as
// "<bases> <count> <sub-group>", followed by a blank line.
func WriteGroup(w io.Writer, g Group, k int) error {
	for _, m := range g.Members {
		if _, err := fmt.Fprintf(w, "%s %d <%d>\n", kmer.Decode(m.Kmer, k), m.Count, m.SubGroup); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

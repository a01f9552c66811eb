package haplo

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/hupe1980/kmergo/blobstore"
	"github.com/hupe1980/kmergo/kmer"
	"github.com/hupe1980/kmergo/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTable(t *testing.T, k int, recs map[string]int) *table.Table {
	t.Helper()
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	seqs := make([]string, 0, len(recs))
	for s := range recs {
		seqs = append(seqs, s)
	}
	sort.Slice(seqs, func(i, j int) bool {
		a, err := kmer.Encode(seqs[i])
		require.NoError(t, err)
		b, err := kmer.Encode(seqs[j])
		require.NoError(t, err)
		return kmer.Compare(a, b, len(a)) < 0
	})

	w, err := table.NewWriter(ctx, store, "tab", k)
	require.NoError(t, err)
	for _, s := range seqs {
		require.NoError(t, w.AddString(s, recs[s]))
	}
	require.NoError(t, w.Close())

	tab, err := table.Load(ctx, store, "tab", func(o *table.Options) { o.Verify = true })
	require.NoError(t, err)
	t.Cleanup(tab.Close)
	return tab
}

func collect(f *Finder) []Group {
	var groups []Group
	for g := range f.Groups() {
		groups = append(groups, g)
	}
	return groups
}

func members(g Group, k int) []string {
	out := make([]string, len(g.Members))
	for i, m := range g.Members {
		out[i] = kmer.Decode(m.Kmer, k)
	}
	return out
}

func TestFinderPair(t *testing.T) {
	tab := loadTable(t, 8, map[string]int{
		"acgtagga": 5, // pair, center a
		"acgtcgga": 7, // pair, center c
		"acgtaaat": 2, // suffix unmatched in other sub-groups
		"acgtcggc": 3, // suffix unmatched in other sub-groups
		"ttttgacc": 9, // lone partition
	})

	groups := collect(NewFinder(tab))
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, []string{"acgtagga", "acgtcgga"}, members(g, 8))
	assert.Equal(t, []int{5, 7}, []int{g.Members[0].Count, g.Members[1].Count})
	assert.Equal(t, []int{0, 1}, []int{g.Members[0].SubGroup, g.Members[1].SubGroup})
	assert.Equal(t, byte(0), g.Members[0].Center) // a
	assert.Equal(t, byte(1), g.Members[1].Center) // c
}

func TestFinderQuadAndOrder(t *testing.T) {
	// One partition with all four center symbols, two shared suffixes.
	tab := loadTable(t, 8, map[string]int{
		"ccggacat": 1, "ccggccat": 2, "ccgggcat": 3, "ccggtcat": 4, // quad, suffix cat
		"ccggatta": 5, "ccgggtta": 6, // pair, suffix tta
	})

	groups := collect(NewFinder(tab))
	require.Len(t, groups, 2)

	// Groups come out in ascending suffix order: cat before tta.
	assert.Equal(t, []string{"ccggacat", "ccggccat", "ccgggcat", "ccggtcat"}, members(groups[0], 8))
	assert.Equal(t, []string{"ccggatta", "ccgggtta"}, members(groups[1], 8))
	assert.Equal(t, []int{0, 2}, []int{groups[1].Members[0].SubGroup, groups[1].Members[1].SubGroup})
}

func TestFinderPartitionBoundary(t *testing.T) {
	// Same center and suffix but different first halves must not group.
	tab := loadTable(t, 8, map[string]int{
		"aaaacggt": 1,
		"aaatcggt": 1, // prefix differs at symbol 3 (< khalf)
	})
	assert.Empty(t, collect(NewFinder(tab)))
}

func TestFinderOddAlignments(t *testing.T) {
	// khalf=3: center is the last symbol of byte 0, suffix mask 0x00.
	tab6 := loadTable(t, 6, map[string]int{
		"aaaacc": 2,
		"aaatcc": 3,
		"aaagtt": 1,
	})
	groups := collect(NewFinder(tab6))
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"aaaacc", "aaatcc"}, members(groups[0], 6))

	// khalf=5: center inside byte 1, suffix mask 0x0f.
	tab10 := loadTable(t, 10, map[string]int{
		"aacgtcacgt": 4,
		"aacgtgacgt": 6,
		"aacgtgacga": 1,
	})
	groups = collect(NewFinder(tab10))
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"aacgtcacgt", "aacgtgacgt"}, members(groups[0], 10))
}

// Every emitted group must hold the defining property: pairwise equal
// everywhere but the center, pairwise distinct at the center.
func TestFinderGroupValidity(t *testing.T) {
	tab := loadTable(t, 8, map[string]int{
		"acgtagga": 5, "acgtcgga": 7, "acgttgga": 1,
		"acgtaaat": 2, "acgtgaat": 8,
		"ccggacat": 1, "ccggccat": 2, "ccgggcat": 3, "ccggtcat": 4,
		"ggggaaaa": 1, "ttttgacc": 9,
	})

	f := NewFinder(tab)
	khalf := tab.K() / 2
	total := 0
	for g := range f.Groups() {
		require.GreaterOrEqual(t, len(g.Members), 2)
		require.LessOrEqual(t, len(g.Members), 4)
		for i := 0; i < len(g.Members); i++ {
			for j := i + 1; j < len(g.Members); j++ {
				a := kmer.Decode(g.Members[i].Kmer, tab.K())
				b := kmer.Decode(g.Members[j].Kmer, tab.K())
				assert.NotEqual(t, a[khalf], b[khalf])
				assert.Equal(t, a[:khalf], b[:khalf])
				assert.Equal(t, a[khalf+1:], b[khalf+1:])
			}
		}
		total += len(g.Members)
	}

	cov := f.Coverage()
	assert.Equal(t, uint64(total), cov.GetCardinality())
	for i := cov.Iterator(); i.HasNext(); {
		idx := int64(i.Next())
		require.Less(t, idx, tab.Len())
	}
}

func TestFinderCountFilter(t *testing.T) {
	tab := loadTable(t, 8, map[string]int{
		"acgtagga": 5,
		"acgtcgga": 200, // over any sane coverage bound
		"acgtatta": 4,
		"acgtgtta": 6,
	})

	groups := collect(NewFinder(tab, func(o *Options) {
		o.MinCount = 2
		o.MaxCount = 20
	}))
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"acgtatta", "acgtgtta"}, members(groups[0], 8))
}

func TestWriteGroup(t *testing.T) {
	tab := loadTable(t, 8, map[string]int{
		"acgtagga": 5,
		"acgtcgga": 7,
	})
	groups := collect(NewFinder(tab))
	require.Len(t, groups, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteGroup(&buf, groups[0], 8))
	assert.Equal(t, "acgtagga 5 <0>\nacgtcgga 7 <1>\n\n", buf.String())
}

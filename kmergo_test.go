package kmergo

import (
	"context"
	"testing"

	"github.com/hupe1980/kmergo/blobstore"
	"github.com/hupe1980/kmergo/haplo"
	"github.com/hupe1980/kmergo/hist"
	"github.com/hupe1980/kmergo/table"
	"github.com/hupe1980/kmergo/venn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, store blobstore.BlobStore, root string, k int, recs [][2]any) {
	t.Helper()

	w, err := table.NewWriter(context.Background(), store, root, k)
	require.NoError(t, err)
	for _, r := range recs {
		require.NoError(t, w.AddString(r[0].(string), r[1].(int)))
	}
	require.NoError(t, w.Close())
}

func TestWorkspaceFindHaplo(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	writeTable(t, store, "sample", 8, [][2]any{
		{"acgtagga", 5},
		{"acgtcgga", 7},
		{"tttacccg", 1},
	})

	metrics := &BasicMetricsCollector{}
	ws, err := Open(ctx, store, WithMetricsCollector(metrics), WithMemoryLimit(1<<20))
	require.NoError(t, err)

	var groups []haplo.Group
	err = ws.FindHaplo(ctx, "sample", func(g haplo.Group) bool {
		groups = append(groups, g)
		return true
	})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 2)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.TableLoadCount)
	assert.Equal(t, int64(3), stats.TableLoadEntries)
	assert.Equal(t, int64(1), stats.HaploScanGroups)
}

func TestWorkspaceVennAndSave(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	writeTable(t, store, "A.ktab", 4, [][2]any{{"aaaa", 5}})
	writeTable(t, store, "B.ktab", 4, [][2]any{{"aaaa", 3}, {"cccc", 2}})

	ws, err := Open(ctx, store)
	require.NoError(t, err)

	r, err := ws.Venn(ctx, []string{"A.ktab", "B.ktab"}, func(o *venn.Options) {
		o.Low = 1
		o.High = 10
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, r.Names)
	assert.Equal(t, int64(1), r.Histogram(0b11).Get(3)) // min(5,3)
	assert.Equal(t, int64(1), r.Histogram(0b10).Get(2)) // cccc only in B

	out := blobstore.NewMemoryStore()
	require.NoError(t, r.Save(ctx, out))
	h, err := hist.Load(ctx, out, "A_B")
	require.NoError(t, err)
	assert.Equal(t, int64(1), h.Total())
}

func TestWorkspaceErrors(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	ws, err := Open(ctx, store)
	require.NoError(t, err)

	_, err = ws.LoadTable(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	writeTable(t, store, "big", 8, [][2]any{{"acgtacgt", 1}, {"tttttttt", 2}})
	tiny, err := Open(ctx, store, WithMemoryLimit(4))
	require.NoError(t, err)
	_, err = tiny.LoadTable(ctx, "big")
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "sample", SourceName("sample"))
	assert.Equal(t, "sample", SourceName("sample.ktab"))
	assert.Equal(t, "child", SourceName("trio/child.ktab"))
}

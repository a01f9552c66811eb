package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"path/filepath"
	"testing"

	"github.com/hupe1980/kmergo/blobstore"
	"github.com/hupe1980/kmergo/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	fs := flag.NewFlagSet("haplex", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	opt, err := parseArgs(fs, []string{"-g", "2:40", "-c", "3", "tables/sample"})
	require.NoError(t, err)
	assert.Equal(t, "2:40", opt.countRange)
	assert.Equal(t, 3, opt.cutoff)
	assert.Equal(t, "tables/sample", opt.root)

	fs = flag.NewFlagSet("haplex", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	_, err = parseArgs(fs, nil)
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	store := blobstore.NewLocalStore(dir)

	w, err := table.NewWriter(context.Background(), store, "sample", 8)
	require.NoError(t, err)
	require.NoError(t, w.AddString("acgtagga", 5))
	require.NoError(t, w.AddString("acgtcgga", 7))
	require.NoError(t, w.Close())

	var out, errBuf bytes.Buffer
	code := run([]string{filepath.Join(dir, "sample")}, &out, &errBuf)
	require.Zero(t, code, errBuf.String())
	assert.Equal(t, "acgtagga 5 <0>\nacgtcgga 7 <1>\n\n", out.String())
}

func TestRunMissingTable(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := run([]string{filepath.Join(t.TempDir(), "nope")}, &out, &errBuf)
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, errBuf.String())
}

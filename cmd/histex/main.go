// Command histex displays a k-mer count histogram file, either as the
// human-readable cumulative table or as plain "<freq>\t<count>" lines.
//
// Usage:
//
//	histex [-k] [-A] [-h [<int(1)>:]<int(100)>] <source_root>[.hist]
//
// By default counts of distinct k-mers are shown; -k switches to k-mer
// instances. An explicit -h range must be covered by the file's range;
// without -h the display range is the intersection of the file's range
// with [1,100].
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hupe1980/kmergo/blobstore"
	"github.com/hupe1980/kmergo/hist"
	"github.com/hupe1980/kmergo/internal/cliutil"
)

type options struct {
	histRange string
	instances bool
	ascii     bool
	source    string
}

func parseArgs(fs *flag.FlagSet, argv []string) (options, error) {
	var opt options

	fs.StringVar(&opt.histRange, "h", "", "histogram range, [<int(1)>:]<int(100)>")
	fs.BoolVar(&opt.instances, "k", false, "show k-mer instances instead of distinct k-mers")
	fs.BoolVar(&opt.ascii, "A", false, "plain <freq>\\t<count> lines")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if fs.NArg() != 1 {
		return opt, errors.New("exactly one histogram file is required")
	}
	opt.source = fs.Arg(0)
	return opt, nil
}

func run(argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("histex", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opt, err := parseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 2
	}

	low, high, err := cliutil.ParseRange(opt.histRange, 1, 100)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	ctx := context.Background()
	dir, name := cliutil.SplitRoot(opt.source)
	store := blobstore.NewLocalStore(dir)

	h, err := hist.Load(ctx, store, name)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if opt.histRange != "" {
		if low < h.Low || high > h.High {
			fmt.Fprintf(stderr, "range of histogram, [%d,%d], does not superset requested range\n", h.Low, h.High)
			return 2
		}
	} else {
		if h.Low > low {
			low = h.Low
		}
		if h.High < high {
			high = h.High
		}
	}

	if err := h.Modify(low, high, !opt.instances); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if opt.ascii {
		err = hist.WriteASCII(stdout, h)
	} else {
		err = hist.WriteTable(stdout, h, strings.TrimSuffix(name, hist.Ext), !opt.instances)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

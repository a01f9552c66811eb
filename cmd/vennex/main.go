// Command vennex classifies the k-mers of two or more sorted tables
// into Venn subsets and writes one count histogram per subset. The
// histogram of the subset where A and B contain a k-mer but c does not
// lands in A_B_c.hist next to the input tables.
//
// Usage:
//
//	vennex [-h [<low>:]<high>] <source_1> <source_2> ...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/kmergo"
	"github.com/hupe1980/kmergo/blobstore"
	"github.com/hupe1980/kmergo/internal/cliutil"
	"github.com/hupe1980/kmergo/venn"
)

type options struct {
	histRange string
	roots     []string
}

func parseArgs(fs *flag.FlagSet, argv []string) (options, error) {
	var opt options

	fs.StringVar(&opt.histRange, "h", "", "histogram range, [<int(1)>:]<int(100)>")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if fs.NArg() < 2 {
		return opt, errors.New("at least two table roots are required")
	}
	opt.roots = fs.Args()
	return opt, nil
}

func run(argv []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("vennex", flag.ContinueOnError)
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

	low, high, err := cliutil.ParseRange(opt.histRange, venn.DefaultLow, venn.DefaultHigh)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	// All sources and the output histograms live in the directory of
	// the first root.
	ctx := context.Background()
	dir, _ := cliutil.SplitRoot(opt.roots[0])
	store := blobstore.NewLocalStore(dir)

	roots := make([]string, len(opt.roots))
	for i, r := range opt.roots {
		d, name := cliutil.SplitRoot(r)
		if d != dir {
			fmt.Fprintf(stderr, "table %s is not in %s\n", r, dir)
			return 2
		}
		roots[i] = name
	}

	ws, err := kmergo.Open(ctx, store)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	r, err := ws.Venn(ctx, roots, func(o *venn.Options) {
		o.Low = low
		o.High = high
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := r.Save(ctx, store); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

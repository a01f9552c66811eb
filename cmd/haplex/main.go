// Command haplex lists candidate haplotype k-mer groups of a sorted
// k-mer table: sets of k-mers identical everywhere except the single
// symbol at the center position.
//
// Usage:
//
//	haplex [-g <low>:<high>] [-c <cutoff>] [-verify] <source_root>
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
	"github.com/hupe1980/kmergo/haplo"
	"github.com/hupe1980/kmergo/internal/cliutil"
)

type options struct {
	countRange string
	cutoff     int
	verify     bool
	root       string
}

func parseArgs(fs *flag.FlagSet, argv []string) (options, error) {
	var opt options

	fs.StringVar(&opt.countRange, "g", "", "count range of good haplotype k-mers, [<low>:]<high>")
	fs.IntVar(&opt.cutoff, "c", 1, "drop k-mers with count below cutoff")
	fs.BoolVar(&opt.verify, "verify", false, "audit table sort order before scanning")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if fs.NArg() != 1 {
		return opt, errors.New("exactly one table root is required")
	}
	opt.root = fs.Arg(0)
	return opt, nil
}

func run(argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("haplex", flag.ContinueOnError)
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

	minCount, maxCount := 0, 0
	if opt.countRange != "" {
		if minCount, maxCount, err = cliutil.ParseRange(opt.countRange, 0, 0); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}

	ctx := context.Background()
	dir, root := cliutil.SplitRoot(opt.root)
	store := blobstore.NewLocalStore(dir)

	ws, err := kmergo.Open(ctx, store,
		kmergo.WithCutoff(opt.cutoff),
		kmergo.WithVerify(opt.verify),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	s, err := ws.OpenStream(ctx, root)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	k := s.K()
	_ = s.Close()

	var writeErr error
	err = ws.FindHaplo(ctx, root, func(g haplo.Group) bool {
		if writeErr = haplo.WriteGroup(stdout, g, k); writeErr != nil {
			return false
		}
		return true
	}, func(o *haplo.Options) {
		o.MinCount = minCount
		o.MaxCount = maxCount
	})
	if err == nil {
		err = writeErr
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

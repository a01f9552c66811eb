// Package kmergo analyzes counted, sorted k-mer tables: it detects
// candidate haplotype variants within one table and classifies k-mers
// across several tables into Venn subsets with per-subset frequency
// histograms.
//
// # Quick Start
//
// Local tables:
//
//	ctx := context.Background()
//	store := blobstore.NewLocalStore("./tables")
//	ws, _ := kmergo.Open(ctx, store)
//
//	// Haplotype candidates of one 21-mer table.
//	err := ws.FindHaplo(ctx, "sample", func(g haplo.Group) bool {
//	    haplo.WriteGroup(os.Stdout, g, 21)
//	    return true
//	})
//
//	// Venn classification of several tables.
//	r, _ := ws.Venn(ctx, []string{"mother", "father", "child"})
//	err = r.Save(ctx, store)
//
// Cloud tables:
//
//	s3Store, _ := s3.NewFromDefaultConfig(ctx, "my-bucket", "tables/")
//	ws, _ := kmergo.Open(ctx, s3Store)
//
// # Resource Limits
//
// Haplotype detection materializes the whole table in memory. Bound it:
//
//	ws, _ := kmergo.Open(ctx, store,
//	    kmergo.WithMemoryLimit(32<<30),
//	    kmergo.WithLoadWorkers(4),
//	)
//
// A load that would exceed the limit fails with ErrOutOfMemory instead
// of taking the process down.
//
// # Table Layout
//
// A table named "sample" is the file set sample.T1, sample.T2, ...;
// each part holds a little-endian header (k-mer length, entry count)
// followed by fixed-width records of 2-bit packed bases plus a 16-bit
// count, in strictly ascending order. Parts may be zstd or lz4
// compressed as a whole (sample.T1.zst).
package kmergo

// Package s3 provides a BlobStore implementation backed by Amazon S3.
//
// Shard files are immutable, so the store needs only ranged GETs for
// streaming merges and the transfer manager's multipart upload for
// writing tables produced upstream.
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := s3blob.NewStore(s3.NewFromConfig(cfg), "my-bucket", "tables/")
//	src, err := stream.Open(ctx, store, "sample.ktab")
package s3

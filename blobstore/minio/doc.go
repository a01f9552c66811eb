// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is a high-performance, S3-compatible object storage system. Counted
// k-mer tables are often produced on a cluster and consumed elsewhere;
// keeping the shard files in object storage and streaming them through the
// merge avoids materializing multi-gigabyte tables on local disk.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "tables/")
//	src, err := stream.Open(ctx, store, "sample.ktab")
//
// Works with any S3-compatible storage (Ceph, Garage, SeaweedFS) without
// AWS dependencies.
package minio

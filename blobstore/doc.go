// Package blobstore provides storage abstraction for kmergo's immutable
// artifacts: sorted k-mer table shards and histogram files.
//
// BlobStore is the interface for reading and writing data blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with mmap-backed reads
//   - MemoryStore: in-memory store for tests
//   - minio.Store: MinIO / S3-compatible object storage
//   - s3.Store: Amazon S3 with range reads and managed uploads
//
// Shards are written once and never mutated afterwards, so stores need no
// versioning or locking; Create/Put only have to be atomic.
package blobstore

package minio

import (
	"context"
	"io"
	"testing"

	"github.com/hupe1980/kmergo/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreKeyMapping(t *testing.T) {
	s := &Store{bucket: "b", prefix: "tables/"}
	assert.Equal(t, "tables/sample.ktab.T1", s.key("sample.ktab.T1"))

	s = &Store{bucket: "b", prefix: "tables"}
	assert.Equal(t, "tables/sample.ktab.T1", s.key("sample.ktab.T1"))

	s = &Store{bucket: "b"}
	assert.Equal(t, "sample.ktab.T1", s.key("sample.ktab.T1"))
}

func TestBlobRangeBounds(t *testing.T) {
	ctx := context.Background()
	b := &minioBlob{size: 10}

	// Past-the-end reads fail before touching the network, so a nil
	// client is fine here.
	buf := make([]byte, 4)
	_, err := b.ReadAt(ctx, buf, 10)
	require.ErrorIs(t, err, io.EOF)

	_, err = b.ReadRange(ctx, 12, 4)
	require.ErrorIs(t, err, io.EOF)
}

// TestStoreIntegration requires a running MinIO instance.
// Skip if not available.
func TestStoreIntegration(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-kmergo"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("sorted k-mer records live here")
	require.NoError(t, store.Put(ctx, "sample.ktab.T1", data))

	blob, err := store.Open(ctx, "sample.ktab.T1")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 7)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	assert.Equal(t, "k-mer", string(buf))

	rc, err := blob.ReadRange(ctx, 0, 6)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "sorted", string(got))
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "sample.ktab.T")
	require.NoError(t, err)
	assert.Contains(t, names, "sample.ktab.T1")

	w, err := store.Create(ctx, "sample.ktab.T2")
	require.NoError(t, err)
	_, err = w.Write([]byte("streamed part"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	blob2, err := store.Open(ctx, "sample.ktab.T2")
	require.NoError(t, err)
	assert.Equal(t, int64(13), blob2.Size())
	require.NoError(t, blob2.Close())

	require.NoError(t, store.Delete(ctx, "sample.ktab.T1"))
	require.NoError(t, store.Delete(ctx, "sample.ktab.T2"))
	_, err = store.Open(ctx, "sample.ktab.T1")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

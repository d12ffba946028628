// Package gcsstore stores collections in a Google Cloud Storage bucket.
package gcsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/discochess/repertoire/internal/codec"
	"github.com/discochess/repertoire/internal/store"
	"github.com/discochess/repertoire/internal/store/blobstore"
)

var _ blobstore.Bucket = (*Bucket)(nil)

// Bucket is a GCS bucket.
type Bucket struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

type options struct {
	prefix        string
	clientOptions []option.ClientOption
}

// Option configures a Bucket.
type Option func(*options)

// WithPrefix sets an object name prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = blobstore.NormalizePrefix(prefix)
	}
}

// WithCredentialsFile authenticates with a service account key file.
func WithCredentialsFile(path string) Option {
	return func(o *options) {
		o.clientOptions = append(o.clientOptions, option.WithCredentialsFile(path))
	}
}

// WithEndpoint talks to endpoint without authentication, as used by
// local emulators.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.clientOptions = append(o.clientOptions,
			option.WithEndpoint(endpoint),
			option.WithoutAuthentication(),
		)
	}
}

// ParseURL splits "gs://bucket/prefix" into bucket and prefix. The prefix
// is returned with a trailing slash, or empty.
func ParseURL(url string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(url, "gs://") {
		return "", "", fmt.Errorf("invalid GCS path: must start with gs://")
	}

	path := strings.TrimPrefix(url, "gs://")
	bucket, prefix, _ = strings.Cut(path, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid GCS path: missing bucket name")
	}
	return bucket, blobstore.NormalizePrefix(prefix), nil
}

// NewBucket opens the GCS bucket called name. The bucket must already
// exist.
func NewBucket(ctx context.Context, name string, opts ...Option) (*Bucket, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	client, err := storage.NewClient(ctx, o.clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	return &Bucket{
		client: client,
		bucket: client.Bucket(name),
		prefix: o.prefix,
	}, nil
}

// New returns a store for a "gs://bucket/prefix" URL.
func New(ctx context.Context, url string, c codec.Codec, opts ...Option) (*blobstore.Store, error) {
	name, prefix, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	b, err := NewBucket(ctx, name, append([]Option{WithPrefix(prefix)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return blobstore.New(b, c), nil
}

// Get reads the object called name.
func (b *Bucket) Get(ctx context.Context, name string) ([]byte, error) {
	if err := store.CheckContext(ctx); err != nil {
		return nil, err
	}

	reader, err := b.bucket.Object(b.prefix + name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("creating reader: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading object: %w", err)
	}
	return data, nil
}

// Put uploads the object called name.
func (b *Bucket) Put(ctx context.Context, name string, data []byte) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}

	w := b.bucket.Object(b.prefix + name).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("writing object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing writer: %w", err)
	}
	return nil
}

// Delete removes the object called name.
func (b *Bucket) Delete(ctx context.Context, name string) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}

	err := b.bucket.Object(b.prefix + name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}

// List returns object names starting with prefix, relative to the bucket
// prefix.
func (b *Bucket) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	it := b.bucket.Objects(ctx, &storage.Query{Prefix: b.prefix + prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", err)
		}
		names = append(names, strings.TrimPrefix(attrs.Name, b.prefix))
	}
	return names, nil
}

// Close releases resources.
func (b *Bucket) Close() error {
	return b.client.Close()
}

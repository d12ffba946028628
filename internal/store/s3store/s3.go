// Package s3store stores collections in an AWS S3 (or S3-compatible)
// bucket.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/discochess/repertoire/internal/codec"
	"github.com/discochess/repertoire/internal/store"
	"github.com/discochess/repertoire/internal/store/blobstore"
)

var _ blobstore.Bucket = (*Bucket)(nil)

// Bucket is an S3 bucket.
type Bucket struct {
	client *s3.Client
	bucket string
	prefix string
}

type options struct {
	prefix   string
	region   string
	endpoint string
	client   *s3.Client
}

// Option configures a Bucket.
type Option func(*options)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = blobstore.NormalizePrefix(prefix)
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithEndpoint sets a custom endpoint (for S3-compatible services like MinIO).
// Path-style addressing is used with a custom endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithClient uses client instead of one built from the default AWS
// configuration. Region and endpoint options are ignored.
func WithClient(client *s3.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// NewBucket opens the S3 bucket called name. The bucket must already exist.
func NewBucket(ctx context.Context, name string, opts ...Option) (*Bucket, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	client := o.client
	if client == nil {
		var loadOpts []func(*config.LoadOptions) error
		if o.region != "" {
			loadOpts = append(loadOpts, config.WithRegion(o.region))
		}
		cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		client = s3.NewFromConfig(cfg, func(so *s3.Options) {
			if o.endpoint != "" {
				so.BaseEndpoint = aws.String(o.endpoint)
				so.UsePathStyle = true
			}
		})
	}

	return &Bucket{client: client, bucket: name, prefix: o.prefix}, nil
}

// New returns a store keeping its objects in the S3 bucket called name.
func New(ctx context.Context, name string, c codec.Codec, opts ...Option) (*blobstore.Store, error) {
	b, err := NewBucket(ctx, name, opts...)
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

	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.prefix + name),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("getting object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
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

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(b.prefix + name),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("putting object: %w", err)
	}
	return nil
}

// Delete removes the object called name. S3 reports success for missing
// keys.
func (b *Bucket) Delete(ctx context.Context, name string) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}

	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.prefix + name),
	})
	if err != nil {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}

// List returns object names starting with prefix, relative to the bucket
// prefix.
func (b *Bucket) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	pages := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(b.prefix + prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", err)
		}
		for _, obj := range page.Contents {
			names = append(names, strings.TrimPrefix(aws.ToString(obj.Key), b.prefix))
		}
	}
	return names, nil
}

// Close releases resources.
func (b *Bucket) Close() error {
	// S3 client doesn't need explicit closing.
	return nil
}

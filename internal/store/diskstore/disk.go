// Package diskstore stores collections as files under a local directory.
package diskstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/discochess/repertoire/internal/codec"
	"github.com/discochess/repertoire/internal/store"
	"github.com/discochess/repertoire/internal/store/blobstore"
)

var _ blobstore.Bucket = (*Bucket)(nil)

// Bucket maps object names to files below a root directory.
type Bucket struct {
	root string
}

// NewBucket returns a bucket rooted at root, creating the directory if
// needed.
func NewBucket(root string) (*Bucket, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating root directory: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	return &Bucket{root: root}, nil
}

// New returns a store keeping its objects under root.
func New(root string, c codec.Codec) (*blobstore.Store, error) {
	b, err := NewBucket(root)
	if err != nil {
		return nil, err
	}
	return blobstore.New(b, c), nil
}

// Get reads the file for name.
func (b *Bucket) Get(ctx context.Context, name string) ([]byte, error) {
	if err := store.CheckContext(ctx); err != nil {
		return nil, err
	}
	path, err := b.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// Put writes the file for name atomically: data goes to a temporary file
// in the same directory, which then replaces the target.
func (b *Bucket) Put(ctx context.Context, name string, data []byte) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}
	path, err := b.path(name)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Delete removes the file for name.
func (b *Bucket) Delete(ctx context.Context, name string) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}
	path, err := b.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}

// List walks the files below root and returns those whose slash-separated
// name starts with prefix. Temporary files are skipped.
func (b *Bucket) List(ctx context.Context, prefix string) ([]string, error) {
	if err := store.CheckContext(ctx); err != nil {
		return nil, err
	}
	var names []string
	err := filepath.WalkDir(b.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(b.root, path)
		if err != nil {
			return err
		}
		if name := filepath.ToSlash(rel); strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", b.root, err)
	}
	return names, nil
}

// Close is a no-op.
func (b *Bucket) Close() error {
	return nil
}

// path maps name to a file below root, rejecting names that escape it.
func (b *Bucket) path(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || clean == ".." {
		return "", fmt.Errorf("diskstore: invalid object name %q", name)
	}
	return filepath.Join(b.root, clean), nil
}

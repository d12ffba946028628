package blobstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/discochess/repertoire/internal/store"
)

var _ Bucket = (*MemBucket)(nil)

// MemBucket is an in-memory Bucket.
type MemBucket struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemBucket creates an empty in-memory bucket.
func NewMemBucket() *MemBucket {
	return &MemBucket{objects: make(map[string][]byte)}
}

func (b *MemBucket) Get(ctx context.Context, name string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.objects[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *MemBucket) Put(ctx context.Context, name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[name] = append([]byte(nil), data...)
	return nil
}

func (b *MemBucket) Delete(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, name)
	return nil
}

func (b *MemBucket) List(ctx context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var names []string
	for name := range b.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (b *MemBucket) Close() error {
	return nil
}

package s3store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/discochess/repertoire/internal/codec"
	"github.com/discochess/repertoire/internal/store"
	"github.com/discochess/repertoire/internal/store/storetest"
)

// fakeS3 serves path-style GET, PUT and DELETE requests for one bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/test-bucket/")
	switch r.Method {
	case http.MethodGet:
		data, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Write(data)
	case http.MethodPut:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.objects[key] = data
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func testClient(t *testing.T) (*s3.Client, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string][]byte)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		BaseEndpoint:               aws.String(srv.URL),
		Region:                     "us-east-1",
		Credentials:                aws.AnonymousCredentials{},
		UsePathStyle:               true,
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	})
	return client, fake
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		client, _ := testClient(t)
		s, err := New(context.Background(), "test-bucket", codec.Zstd(), WithClient(client))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		return s
	})
}

func TestBucket_Prefix(t *testing.T) {
	client, fake := testClient(t)
	b, err := NewBucket(context.Background(), "test-bucket", WithClient(client), WithPrefix("data/v1/"))
	if err != nil {
		t.Fatalf("NewBucket() error = %v", err)
	}

	if err := b.Put(context.Background(), "games/alice/blitz.jsonl", []byte("{}")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, ok := fake.objects["data/v1/games/alice/blitz.jsonl"]; !ok {
		t.Errorf("object not stored under prefix, have %v", fake.objects)
	}
}

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"prefix", "prefix/"},
		{"prefix/", "prefix/"},
		{"a/b/c", "a/b/c/"},
	}

	for _, tt := range tests {
		var o options
		WithPrefix(tt.input)(&o)
		if o.prefix != tt.want {
			t.Errorf("WithPrefix(%q) prefix = %q, want %q", tt.input, o.prefix, tt.want)
		}
	}
}

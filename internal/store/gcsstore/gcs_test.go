package gcsstore

import "testing"

func TestParseURL(t *testing.T) {
	tests := []struct {
		url        string
		wantBucket string
		wantPrefix string
		wantErr    bool
	}{
		{"gs://games", "games", "", false},
		{"gs://games/", "games", "", false},
		{"gs://games/users", "games", "users/", false},
		{"gs://games/a/b/", "games", "a/b/", false},
		{"s3://games", "", "", true},
		{"gs://", "", "", true},
		{"gs:///prefix", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			bucket, prefix, err := ParseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if bucket != tt.wantBucket || prefix != tt.wantPrefix {
				t.Errorf("ParseURL() = %q, %q, want %q, %q", bucket, prefix, tt.wantBucket, tt.wantPrefix)
			}
		})
	}
}

func TestWithPrefix(t *testing.T) {
	var o options
	WithPrefix("/archive/")(&o)
	if o.prefix != "archive/" {
		t.Errorf("prefix = %q, want archive/", o.prefix)
	}
}

func TestWithEndpoint(t *testing.T) {
	var o options
	WithEndpoint("http://localhost:4443/storage/v1/")(&o)
	if len(o.clientOptions) != 2 {
		t.Errorf("WithEndpoint() added %d client options, want 2", len(o.clientOptions))
	}
}

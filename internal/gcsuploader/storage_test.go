package gcsuploader

import "testing"

func TestFilenameFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"gs://bucket/folder/statement.pdf", "statement.pdf"},
		{"gs://bucket/statement.pdf", "statement.pdf"},
		{"gs://bucket/a/b/c/deep.pdf", "deep.pdf"},
		{"gs://bucket", "bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			if got := FilenameFromURI(tt.uri); got != tt.want {
				t.Errorf("FilenameFromURI(%q) = %q, want %q", tt.uri, got, tt.want)
			}
		})
	}
}

func TestSplitURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://bucket/folder/file.pdf", "bucket", "folder/file.pdf", false},
		{"gs://bucket/file.pdf", "bucket", "file.pdf", false},
		{"gs://bucket", "", "", true},
		{"gs://bucket/", "", "", true},
		{"gs:///file.pdf", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := splitURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("splitURI(%q) = %q, %q", tt.uri, bucket, object)
			}
		})
	}
}

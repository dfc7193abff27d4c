package main

import "testing"

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		filename string
		ok       bool
		version  int
		name     string
	}{
		{"0001_documents.sql", true, 1, "documents"},
		{"0012_add_checksum_column.sql", true, 12, "add_checksum_column"},
		{"001_short_version.sql", false, 0, ""},
		{"0001_missing_suffix", false, 0, ""},
		{"0001.sql", false, 0, ""},
		{"notes_0001_wrong_order.sql", false, 0, ""},
		{"README.md", false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, ok := parseMigrationFilename(tt.filename)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if version != tt.version || name != tt.name {
				t.Errorf("got (%d, %q), want (%d, %q)", version, name, tt.version, tt.name)
			}
		})
	}
}

func TestChecksumFile(t *testing.T) {
	a := checksumFile([]byte("CREATE TABLE `{{PROJECT_ID}}.{{DATASET_ID}}.t` (id INT64);"))
	b := checksumFile([]byte("CREATE TABLE `{{PROJECT_ID}}.{{DATASET_ID}}.t` (id INT64);"))
	c := checksumFile([]byte("CREATE TABLE `{{PROJECT_ID}}.{{DATASET_ID}}.other` (id INT64);"))

	if a != b {
		t.Error("identical content must hash identically")
	}
	if a == c {
		t.Error("different content must hash differently")
	}
	if len(a) != 64 {
		t.Errorf("checksum length = %d, want 64 hex chars", len(a))
	}
}

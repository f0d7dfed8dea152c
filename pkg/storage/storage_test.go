package storage_test

import (
	"testing"

	"github.com/aganswers/spotlight/pkg/storage"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name    string
		tenant  string
		display string
		want    string
	}{
		{"simple", "ag101", "notes.txt", "staging/ag101/notes.txt"},
		{"strips directories", "ag101", "uploads/2026/notes.txt", "staging/ag101/notes.txt"},
		{"escapes spaces", "ag101", "field report.pdf", "staging/ag101/field%20report.pdf"},
		{"deterministic per document", "ag101", "notes.txt", "staging/ag101/notes.txt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := storage.Key(tc.tenant, tc.display); got != tc.want {
				t.Errorf("Key(%q, %q) = %q, want %q", tc.tenant, tc.display, got, tc.want)
			}
		})
	}
}

func TestConfigValidation(t *testing.T) {
	disabled := &storage.Config{}
	if err := disabled.Finalize(nil); err != nil {
		t.Errorf("disabled staging should not require a connection string: %v", err)
	}

	enabled := &storage.Config{Enabled: true}
	if err := enabled.Finalize(nil); err == nil {
		t.Error("enabled staging without connection string should fail")
	}
}

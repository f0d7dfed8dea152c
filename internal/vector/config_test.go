package vector_test

import (
	"testing"
	"time"

	"github.com/aganswers/spotlight/internal/vector"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &vector.Config{BaseURL: "http://localhost:9470"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ChunkSize != 512 {
		t.Errorf("chunk_size = %d, want 512", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 100 {
		t.Errorf("chunk_overlap = %d, want 100", cfg.ChunkOverlap)
	}
	if cfg.TimeoutDuration() != 60*time.Second {
		t.Errorf("timeout = %v, want 60s", cfg.TimeoutDuration())
	}
	if !cfg.Enabled() {
		t.Error("config with base_url should be enabled")
	}
}

func TestConfigDisabledWithoutBaseURL(t *testing.T) {
	cfg := &vector.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Enabled() {
		t.Error("config without base_url should be disabled")
	}
}

func TestConfigRejectsOverlapAtOrAboveChunkSize(t *testing.T) {
	cfg := &vector.Config{BaseURL: "http://localhost:9470", ChunkSize: 100, ChunkOverlap: 100}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("overlap equal to chunk size should fail validation")
	}
}

func TestConfigRejectsBadTimeout(t *testing.T) {
	cfg := &vector.Config{BaseURL: "http://localhost:9470", Timeout: "soon"}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("unparseable timeout should fail validation")
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := &vector.Config{BaseURL: "http://base", ChunkSize: 256}
	cfg.Merge(&vector.Config{BaseURL: "http://overlay", ChunkOverlap: 64})

	if cfg.BaseURL != "http://overlay" {
		t.Errorf("base_url = %q", cfg.BaseURL)
	}
	if cfg.ChunkSize != 256 {
		t.Errorf("chunk_size = %d, merge should keep base value", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 64 {
		t.Errorf("chunk_overlap = %d", cfg.ChunkOverlap)
	}
}

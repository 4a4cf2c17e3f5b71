package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadKDLMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadKDL(dir)
	if err != nil {
		t.Fatalf("LoadKDL with no config file returned error: %v", err)
	}
	want := Default(dir)
	if cfg.Index.WLIterations != want.Index.WLIterations {
		t.Fatalf("LoadKDL without a config file did not fall back to defaults")
	}
}

func TestLoadKDLOverlaysSections(t *testing.T) {
	dir := t.TempDir()
	doc := `
project {
    include "**/*.py" "**/*.pyi"
    exclude "**/build/**"
}
index {
    wl_iterations 5
    min_node_count 10
}
watch {
    enabled true
    debounce_ms 500
}
server {
    metrics_addr ":9100"
}
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadKDL(dir)
	if err != nil {
		t.Fatalf("LoadKDL returned error: %v", err)
	}
	if cfg.Index.WLIterations != 5 {
		t.Errorf("Index.WLIterations = %d, want 5", cfg.Index.WLIterations)
	}
	if cfg.Index.MinNodeCount != 10 {
		t.Errorf("Index.MinNodeCount = %d, want 10", cfg.Index.MinNodeCount)
	}
	if !cfg.Watch.Enabled {
		t.Errorf("Watch.Enabled = false, want true")
	}
	if cfg.Watch.DebounceMs != 500 {
		t.Errorf("Watch.DebounceMs = %d, want 500", cfg.Watch.DebounceMs)
	}
	if cfg.Server.MetricsAddr != ":9100" {
		t.Errorf("Server.MetricsAddr = %q, want :9100", cfg.Server.MetricsAddr)
	}
	if len(cfg.Project.Include) != 2 {
		t.Errorf("Project.Include = %v, want 2 entries", cfg.Project.Include)
	}
	if len(cfg.Project.Exclude) != 1 || cfg.Project.Exclude[0] != "**/build/**" {
		t.Errorf("Project.Exclude = %v, want [**/build/**]", cfg.Project.Exclude)
	}
}

func TestLoadKDLLeavesUnspecifiedFieldsAtDefault(t *testing.T) {
	dir := t.TempDir()
	doc := `
index {
    wl_iterations 7
}
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadKDL(dir)
	if err != nil {
		t.Fatalf("LoadKDL returned error: %v", err)
	}
	want := Default(dir)
	if cfg.Extraction.MaxBlockDepth != want.Extraction.MaxBlockDepth {
		t.Fatalf("unspecified Extraction.MaxBlockDepth was overwritten: got %d, want %d", cfg.Extraction.MaxBlockDepth, want.Extraction.MaxBlockDepth)
	}
}

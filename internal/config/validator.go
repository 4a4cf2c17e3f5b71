package config

import (
	"fmt"

	asterrors "github.com/Thaylo/astograph/internal/errors"
)

// Validator checks a loaded Config before it's handed to the indexer,
// following the teacher's Validator shape (internal/config/validator.go).
type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

// Validate reports the first configuration problem found, wrapped as
// an InvalidInput error per spec.md §7.
func (v *Validator) Validate(cfg *Config) error {
	if cfg.Project.Root == "" {
		return asterrors.InvalidInput("config.validate", fmt.Errorf("project.root must not be empty"))
	}
	if cfg.Index.WLIterations <= 0 {
		return asterrors.InvalidInput("config.validate", fmt.Errorf("index.wl_iterations must be positive, got %d", cfg.Index.WLIterations))
	}
	if cfg.Index.MinNodeCount < 0 {
		return asterrors.InvalidInput("config.validate", fmt.Errorf("index.min_node_count must be >= 0, got %d", cfg.Index.MinNodeCount))
	}
	if cfg.Extraction.MaxBlockDepth <= 0 {
		return asterrors.InvalidInput("config.validate", fmt.Errorf("extraction.max_block_depth must be positive, got %d", cfg.Extraction.MaxBlockDepth))
	}
	if cfg.Watch.DebounceMs < 0 {
		return asterrors.InvalidInput("config.validate", fmt.Errorf("watch.debounce_ms must be >= 0, got %d", cfg.Watch.DebounceMs))
	}
	return nil
}

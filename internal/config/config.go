// Package config holds astograph's runtime configuration and its
// .astograph.kdl loader, following the teacher's own config package
// shape (internal/config/config.go, kdl_config.go): a plain struct of
// defaults plus a best-effort KDL overlay.
package config

// Config is astograph's full runtime configuration.
type Config struct {
	Project    Project
	Extraction Extraction
	Index      Index
	Server     Server
	Watch      Watch
}

// Project locates the codebase astograph indexes.
type Project struct {
	Root    string
	Include []string
	Exclude []string
}

// Extraction configures the Unit Extractor (spec.md §4.1).
type Extraction struct {
	IncludeBlocks bool
	MaxBlockDepth int
}

// Index configures the duplicate Index (spec.md §4.6) and its
// optional on-disk persistence.
type Index struct {
	WLIterations  int
	MinNodeCount  int
	PersistPath   string // badger directory; empty disables persistence
}

// Server configures `astograph serve`'s transport and metrics.
type Server struct {
	MetricsAddr string // e.g. ":9090"; empty disables the metrics endpoint
}

// Watch configures the file watcher.
type Watch struct {
	Enabled     bool
	DebounceMs  int
}

// Default returns astograph's built-in configuration, used whenever
// no .astograph.kdl is present or a given field is left unset there.
func Default(projectRoot string) *Config {
	return &Config{
		Project: Project{
			Root:    projectRoot,
			Include: []string{"**/*.py"},
			Exclude: []string{"**/.git/**", "**/__pycache__/**", "**/.venv/**", "**/venv/**"},
		},
		Extraction: Extraction{
			IncludeBlocks: true,
			MaxBlockDepth: 64,
		},
		Index: Index{
			WLIterations: 3,
			MinNodeCount: 3,
		},
		Server: Server{
			MetricsAddr: "",
		},
		Watch: Watch{
			Enabled:    false,
			DebounceMs: 300,
		},
	}
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/Thaylo/astograph/internal/config"
	"github.com/Thaylo/astograph/internal/index"
	"github.com/Thaylo/astograph/internal/pyast"
	"github.com/Thaylo/astograph/internal/scan"
)

var pathFlag = &cli.StringFlag{
	Name:  "root",
	Usage: "project root to index when no positional path argument is given",
}

var minNodesFlag = &cli.IntFlag{
	Name:  "min-nodes",
	Usage: "minimum average node count for a duplicate group to be reported",
	Value: 3,
}

// loadConfig resolves root from the command's first positional
// argument (falling back to --root, then the current directory),
// overlays .astograph.kdl, and returns the config plus its walker.
func loadConfig(c *cli.Context) (*config.Config, *scan.Walker, error) {
	root := c.Args().First()
	if root == "" {
		root = c.String("root")
	}
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving root %q: %w", root, err)
	}

	cfg, err := config.LoadKDL(abs)
	if err != nil {
		return nil, nil, err
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, nil, err
	}
	walker := scan.NewWalker(cfg.Project.Include, cfg.Project.Exclude)
	return cfg, walker, nil
}

func extractOptions(cfg *config.Config) pyast.ExtractOptions {
	return pyast.ExtractOptions{
		IncludeBlocks: cfg.Extraction.IncludeBlocks,
		MaxBlockDepth: cfg.Extraction.MaxBlockDepth,
	}
}

// openIndex loads a persisted index from cfg's configured path, or
// builds an empty one if persistence is disabled or absent.
func openIndex(cfg *config.Config) (*index.Index, *index.SuppressionSet, error) {
	if cfg.Index.PersistPath == "" {
		return index.New(cfg.Index.WLIterations), index.NewSuppressionSet(), nil
	}
	return index.Load(cfg.Index.PersistPath, cfg.Index.WLIterations)
}

func saveIndex(cfg *config.Config, idx *index.Index, suppressions *index.SuppressionSet) error {
	if cfg.Index.PersistPath == "" {
		return nil
	}
	return index.Save(cfg.Index.PersistPath, idx, suppressions)
}

// Package indexer wires the Walker, Unit Extractor, and Index
// together into a single bulk-indexing pass over a project tree. File
// extraction fans out across a bounded worker pool, the same
// golang.org/x/sync/errgroup idiom ingo-eichhorst-agent-readyness uses
// for its parallel metric execution (internal/agent/parallel.go);
// each file's own CodeUnits stay in source order (single-threaded
// pull-mode extraction per spec.md §5), only the per-file work runs
// concurrently.
package indexer

import (
	"context"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Thaylo/astograph/internal/index"
	"github.com/Thaylo/astograph/internal/metrics"
	"github.com/Thaylo/astograph/internal/pyast"
	"github.com/Thaylo/astograph/internal/scan"
)

// Result summarizes one indexing pass.
type Result struct {
	FilesWalked  int
	FilesIndexed int
	FilesSkipped int
	UnitsAdded   int
}

// Run walks root with walker, extracts and indexes every matched
// file into idx, and returns a summary. File processing runs across
// up to runtime.NumCPU worker goroutines; Index itself serializes
// writes under its own mutex.
func Run(ctx context.Context, root string, walker *scan.Walker, idx *index.Index, opts pyast.ExtractOptions) (Result, error) {
	var paths []string
	err := walker.Walk(root, func(rel string) error {
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	g, gctx := errgroup.WithContext(ctx)
	results := make([]int, len(paths))
	skipped := make([]bool, len(paths))

	for i, rel := range paths {
		i, rel := i, rel
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			if gctx.Err() != nil {
				return gctx.Err()
			}
			source, err := scan.ReadFile(filepath.Join(root, rel))
			if err != nil {
				skipped[i] = true
				metrics.RecordFileSkipped("read_error")
				return nil
			}
			n := idx.AddFile(rel, source, opts)
			results[i] = n
			if n == 0 {
				skipped[i] = true
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{FilesWalked: len(paths)}
	for i := range paths {
		if skipped[i] {
			res.FilesSkipped++
		} else {
			res.FilesIndexed++
		}
		res.UnitsAdded += results[i]
	}
	return res, nil
}

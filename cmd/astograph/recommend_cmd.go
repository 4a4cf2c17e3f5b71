package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Thaylo/astograph/internal/index"
	"github.com/Thaylo/astograph/internal/indexer"
	"github.com/Thaylo/astograph/internal/recommend"
	"github.com/Thaylo/astograph/internal/verify"
)

var recommendCommand = &cli.Command{
	Name:      "recommend",
	Usage:     "index a project and print refactoring recommendations",
	ArgsUsage: "<path>",
	Flags:     []cli.Flag{pathFlag, minNodesFlag},
	Action: func(c *cli.Context) error {
		cfg, walker, err := loadConfig(c)
		if err != nil {
			return err
		}
		idx, _, err := openIndex(cfg)
		if err != nil {
			return err
		}
		if _, err := indexer.Run(c.Context, cfg.Project.Root, walker, idx, extractOptions(cfg)); err != nil {
			return err
		}

		groups, err := idx.FindAllDuplicates(c.Int("min-nodes"))
		if err != nil {
			return err
		}

		verifyFn := recommend.VerifyFunc(func(a, b index.IndexEntry) bool {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return verify.Verify(ctx, a.Graph, b.Graph) == verify.Isomorphic
		})

		for _, r := range recommend.Recommend(groups, verifyFn) {
			fmt.Printf("[%s] %s (impact=%.2f, confidence=%.2f)\n", r.Impact, r.Summary, r.ImpactScore, r.Confidence)
			fmt.Printf("  %s\n", r.Rationale)
			if r.KeepLocation != nil {
				fmt.Printf("  keep: %s (%s)\n", r.KeepLocation.FilePath, r.KeepReason)
			}
			if r.SuggestedName != "" {
				fmt.Printf("  suggested name: %s\n", r.SuggestedName)
			}
		}
		return nil
	},
}

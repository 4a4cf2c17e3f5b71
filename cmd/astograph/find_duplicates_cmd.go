package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Thaylo/astograph/internal/indexer"
)

var findDuplicatesCommand = &cli.Command{
	Name:      "find-duplicates",
	Usage:     "index a project and print its duplicate groups",
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
		for _, g := range groups {
			fmt.Printf("%s (%d entries, verified=%v)\n", g.Hash, len(g.Entries), g.IsVerified)
			for _, e := range g.Entries {
				fmt.Printf("  %s:%d-%d %s\n", e.Unit.FilePath, e.Unit.LineStart, e.Unit.LineEnd, e.Unit.Name)
			}
		}
		return nil
	},
}

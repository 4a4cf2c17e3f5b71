package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/Thaylo/astograph/internal/indexer"
)

var indexCommand = &cli.Command{
	Name:      "index",
	Usage:     "walk a project, extract code units, and report what was indexed",
	ArgsUsage: "<path>",
	Flags:     []cli.Flag{pathFlag},
	Action: func(c *cli.Context) error {
		cfg, walker, err := loadConfig(c)
		if err != nil {
			return err
		}
		idx, suppressions, err := openIndex(cfg)
		if err != nil {
			return err
		}

		res, err := indexer.Run(c.Context, cfg.Project.Root, walker, idx, extractOptions(cfg))
		if err != nil {
			return err
		}

		if err := saveIndex(cfg, idx, suppressions); err != nil {
			return err
		}

		groups, err := idx.FindAllDuplicates(0)
		if err != nil {
			return err
		}

		fmt.Printf("%s %d files walked\n", color.CyanString("indexed"), res.FilesWalked)
		fmt.Printf("%s %d files indexed, %s %d skipped (parse failure or no units)\n",
			color.GreenString("✓"), res.FilesIndexed, color.YellowString("⚠"), res.FilesSkipped)
		fmt.Printf("%d units added, %d duplicate buckets found\n", res.UnitsAdded, len(groups))
		return nil
	},
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Thaylo/astograph/internal/indexer"
	"github.com/Thaylo/astograph/internal/watch"
)

var watchCommand = &cli.Command{
	Name:      "watch",
	Usage:     "index a project, then reindex incrementally as files change",
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
		if _, err := indexer.Run(c.Context, cfg.Project.Root, walker, idx, extractOptions(cfg)); err != nil {
			return err
		}

		w, err := watch.New(cfg.Project.Root, idx, walker, extractOptions(cfg), time.Duration(cfg.Watch.DebounceMs)*time.Millisecond)
		if err != nil {
			return err
		}
		w.OnBatch = func(changed, removed int) {
			fmt.Printf("astograph: watch: reindexed %d changed, %d removed\n", changed, removed)
		}
		if err := w.Start(); err != nil {
			return err
		}

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		if err := w.Stop(); err != nil {
			return err
		}
		return saveIndex(cfg, idx, suppressions)
	},
}

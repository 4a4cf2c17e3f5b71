package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/Thaylo/astograph/internal/indexer"
	"github.com/Thaylo/astograph/internal/server"
)

var serveCommand = &cli.Command{
	Name:      "serve",
	Usage:     "index a project (default: the current directory), then run the dual-framing tool server on stdio",
	ArgsUsage: "[path]",
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

		if cfg.Server.MetricsAddr != "" {
			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				if err := http.ListenAndServe(cfg.Server.MetricsAddr, mux); err != nil {
					fmt.Fprintf(os.Stderr, "astograph: metrics server: %v\n", err)
				}
			}()
		}

		srv := server.New(idx, suppressions)
		err = srv.Run(c.Context, os.Stdin, os.Stdout)
		if saveErr := saveIndex(cfg, idx, suppressions); saveErr != nil && err == nil {
			err = saveErr
		}
		return err
	},
}

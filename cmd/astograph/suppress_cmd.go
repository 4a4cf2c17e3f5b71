package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var suppressCommand = &cli.Command{
	Name:      "suppress",
	Usage:     "suppress a duplicate group by its wl_hash",
	ArgsUsage: "<path> <wl_hash>",
	Flags:     []cli.Flag{pathFlag},
	Action: func(c *cli.Context) error {
		cfg, _, err := loadConfig(c)
		if err != nil {
			return err
		}
		hash := c.Args().Get(1)
		if hash == "" {
			return fmt.Errorf("astograph suppress: missing wl_hash argument")
		}
		idx, suppressions, err := openIndex(cfg)
		if err != nil {
			return err
		}
		suppressions.Add(hash)
		return saveIndex(cfg, idx, suppressions)
	},
}

var unsuppressCommand = &cli.Command{
	Name:      "unsuppress",
	Usage:     "remove a wl_hash from the suppression set",
	ArgsUsage: "<path> <wl_hash>",
	Flags:     []cli.Flag{pathFlag},
	Action: func(c *cli.Context) error {
		cfg, _, err := loadConfig(c)
		if err != nil {
			return err
		}
		hash := c.Args().Get(1)
		if hash == "" {
			return fmt.Errorf("astograph unsuppress: missing wl_hash argument")
		}
		idx, suppressions, err := openIndex(cfg)
		if err != nil {
			return err
		}
		suppressions.Remove(hash)
		return saveIndex(cfg, idx, suppressions)
	},
}

var listSuppressionsCommand = &cli.Command{
	Name:      "list-suppressions",
	Usage:     "list every suppressed wl_hash",
	ArgsUsage: "<path>",
	Flags:     []cli.Flag{pathFlag},
	Action: func(c *cli.Context) error {
		cfg, _, err := loadConfig(c)
		if err != nil {
			return err
		}
		_, suppressions, err := openIndex(cfg)
		if err != nil {
			return err
		}
		for _, h := range suppressions.List() {
			fmt.Println(h)
		}
		return nil
	},
}

// Command astograph indexes a Python project's functions, methods,
// classes, and control-flow blocks into structurally-hashed groups of
// duplicate code, and offers tooling (CLI, stdio tool server, file
// watcher) around that index. Its subcommand layout and flag
// conventions follow the teacher's cmd/lci/main.go.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Thaylo/astograph/internal/version"
)

func main() {
	app := &cli.App{
		Name:    "astograph",
		Usage:   "Find structural code duplication in Python projects",
		Version: version.Version,
		Commands: []*cli.Command{
			indexCommand,
			findDuplicatesCommand,
			recommendCommand,
			suppressCommand,
			unsuppressCommand,
			listSuppressionsCommand,
			serveCommand,
			watchCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Command deptree builds relation dictionaries and decodes labeled
// dependency trees from CoNLL-X input, in batch or as an HTTP service.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// UI holds the output streams; tests inject buffers.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}
	if err := newApp(ui).Run(os.Args); err != nil {
		fmt.Fprintf(ui.Err, "deptree: %v\n", err)
		os.Exit(1)
	}
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:      "deptree",
		Usage:     "labeled dependency tree decoder",
		Writer:    ui.Out,
		ErrWriter: ui.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration `FILE`"},
			&cli.StringFlag{Name: "dict", Usage: "relation dictionary `FILE` (file backend, overrides config)"},
			&cli.StringFlag{Name: "weights", Usage: "weight vector `FILE` (overrides config)"},
			&cli.StringFlag{Name: "root", Usage: "root strategy: greedy or exhaustive (overrides config)"},
			&cli.IntFlag{Name: "workers", Usage: "parallel workers, 0 = one per CPU (overrides config)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides config)"},
			&cli.BoolFlag{Name: "no-progress", Usage: "do not render progress bars"},
		},
		Metadata: map[string]any{uiKey: ui},
		Commands: []*cli.Command{
			{
				Name:      "build-dict",
				Usage:     "record the relations of every gold arc and persist the dictionary",
				ArgsUsage: "TRAIN.conll",
				Action:    buildDictAction,
			},
			{
				Name:      "parse",
				Usage:     "decode every sentence and write CoNLL-X to stdout",
				ArgsUsage: "INPUT.conll",
				Action:    parseAction,
			},
			{
				Name:      "eval",
				Usage:     "decode gold sentences and report attachment scores",
				ArgsUsage: "GOLD.conll",
				Action:    evalAction,
			},
			{
				Name:   "serve",
				Usage:  "run the HTTP decoding service",
				Action: serveAction,
			},
		},
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rhino1998/dimcalc/pkg/config"
	"github.com/rhino1998/dimcalc/pkg/interpreter"
	"github.com/rhino1998/dimcalc/pkg/parser"
	"github.com/rhino1998/dimcalc/pkg/repl"
	"github.com/urfave/cli/v3"
)

type env struct {
	logger *slog.Logger
	config *config.Config
	parser *parser.Parser
}

func setup(c *cli.Command) (*env, error) {
	overrides := make(map[string]any)
	if c.IsSet("format") {
		overrides["format"] = c.String("format")
	}
	if c.Bool("debug") {
		overrides["log_level"] = "debug"
	}

	cfg, err := config.Load(c.String("config"), overrides)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	if cfg.File != "" {
		logger.Debug("config loaded", slog.String("file", cfg.File))
	}

	err = cfg.Validate(logger)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p, err := parser.New(logger, cfg.Parser())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize parser: %w", err)
	}

	return &env{
		logger: logger,
		config: cfg,
		parser: p,
	}, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := &cli.Command{
		Name:  "dimcalc",
		Usage: "A calculator for quantities with units",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (default " + config.FileName + " if present)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: text or latex",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Evaluate program files in order",
				ArgsUsage: "FILE...",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() == 0 {
						return fmt.Errorf("must provide at least one file as argument")
					}

					e, err := setup(c)
					if err != nil {
						return err
					}

					var files []string
					for _, path := range c.Args().Slice() {
						abs, err := filepath.Abs(path)
						if err != nil {
							return fmt.Errorf("invalid path: %w", err)
						}
						files = append(files, strings.TrimPrefix(filepath.ToSlash(abs), "/"))
					}

					results, err := interpreter.New(e.logger).ExecuteFiles(ctx, e.parser, interpreter.NewGlobalScope(), os.DirFS("/"), files...)
					werr := repl.WriteResults(os.Stdout, results, e.config.Format)
					if err != nil {
						return err
					}

					return werr
				},
			},
			{
				Name:      "eval",
				Usage:     "Evaluate program text given as arguments",
				ArgsUsage: "EXPR...",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() == 0 {
						return fmt.Errorf("must provide program text as argument")
					}

					e, err := setup(c)
					if err != nil {
						return err
					}

					prog, err := e.parser.ParseProgram("", strings.Join(c.Args().Slice(), "\n"))
					if err != nil {
						return err
					}

					results, err := interpreter.New(e.logger).Execute(ctx, interpreter.NewGlobalScope(), prog)
					if err != nil {
						return err
					}

					return repl.WriteResults(os.Stdout, results, e.config.Format)
				},
			},
			{
				Name:  "repl",
				Usage: "Start an interactive session",
				Action: func(ctx context.Context, c *cli.Command) error {
					e, err := setup(c)
					if err != nil {
						return err
					}

					r := repl.New(e.logger, e.parser, os.Stdout, repl.Options{
						Format:      e.config.Format,
						HistoryFile: e.config.HistoryFile,
					})

					return r.Run(ctx)
				},
			},
			{
				Name:  "units",
				Usage: "List known unit symbols",
				Action: func(ctx context.Context, c *cli.Command) error {
					e, err := setup(c)
					if err != nil {
						return err
					}

					repl.WriteUnits(os.Stdout, e.parser.Table())

					return nil
				},
			},
		},
	}

	err := cmd.Run(ctx, os.Args)
	if err != nil {
		log.Fatalln(err)
	}
}

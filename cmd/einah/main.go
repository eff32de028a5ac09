package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/einah-lang/einah/pkg/builtins"
	"github.com/einah-lang/einah/pkg/config"
	"github.com/einah-lang/einah/pkg/interpreter"
	"github.com/einah-lang/einah/pkg/parser"
	"github.com/urfave/cli/v3"
)

var version = "dev"

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   config.DefaultFile,
			Usage:   "path to an einah.yaml file",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "log interpreter internals to stderr",
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "seed for random, 0 picks one",
		},
		&cli.IntFlag{
			Name:  "max-call-depth",
			Usage: "limit on nested function calls",
		},
	}
}

// settings merges the config file with flags set on the command line.
func settings(c *cli.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.String("config"), !c.IsSet("config"))
	if err != nil {
		return nil, nil, err
	}

	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}

	if c.IsSet("seed") {
		cfg.Seed = uint64(c.Int("seed"))
	}

	if c.IsSet("max-call-depth") {
		cfg.MaxCallDepth = int(c.Int("max-call-depth"))
	}

	logger := slog.Default()
	if cfg.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return cfg, logger, nil
}

func newInterpreter(logger *slog.Logger, cfg *config.Config, stdout io.Writer) (*interpreter.Interpreter, error) {
	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}

	interp, err := interpreter.New(logger, interpreter.Config{
		Stdout:       stdout,
		Natives:      builtins.Natives(rng),
		MaxCallDepth: cfg.MaxCallDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize interpreter: %w", err)
	}

	return interp, nil
}

// dumpAST writes the syntax tree of src. Nodes are walked field by field, so
// their positions print as structs rather than through Position.String.
func dumpAST(w io.Writer, src string) error {
	prog, err := parser.ProduceAST(src)
	if err != nil {
		return err
	}

	dumper.Fdump(w, prog)
	return nil
}

func readSource(c *cli.Command) (string, string, error) {
	if c.Args().Len() != 1 {
		return "", "", fmt.Errorf("must provide exactly one einah file as argument")
	}

	path := c.Args().First()
	src, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file: %w", err)
	}

	return path, string(src), nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := &cli.Command{
		Name:  "einah",
		Usage: "The Einah interpreter",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run an Einah program",
				ArgsUsage: "<file.exn>",
				Flags:     flags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					path, src, err := readSource(c)
					if err != nil {
						return err
					}

					cfg, logger, err := settings(c)
					if err != nil {
						return err
					}

					interp, err := newInterpreter(logger, cfg, os.Stdout)
					if err != nil {
						return err
					}

					_, err = interp.Run(ctx, path, src)
					if err != nil {
						fmt.Fprintln(os.Stderr, err)
						os.Exit(1)
					}

					return nil
				},
			},
			{
				Name:  "repl",
				Usage: "Start an interactive session",
				Flags: flags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, logger, err := settings(c)
					if err != nil {
						return err
					}

					return runREPL(ctx, logger, cfg)
				},
			},
			{
				Name:      "ast",
				Usage:     "Print the syntax tree of an Einah program",
				ArgsUsage: "<file.exn>",
				Action: func(ctx context.Context, c *cli.Command) error {
					path, src, err := readSource(c)
					if err != nil {
						return err
					}

					err = dumpAST(os.Stdout, src)
					if err != nil {
						return interpreter.FileError{File: path, Err: err}
					}

					return nil
				},
			},
			{
				Name:  "version",
				Usage: "Print the interpreter version",
				Action: func(ctx context.Context, c *cli.Command) error {
					fmt.Println("einah", version)
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

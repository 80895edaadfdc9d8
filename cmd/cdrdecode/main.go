package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/cdrdecode/internal/config"
	"github.com/danmuck/cdrdecode/internal/logging"
	"github.com/danmuck/cdrdecode/internal/observability"
	"github.com/danmuck/cdrdecode/internal/output"
	"github.com/danmuck/cdrdecode/internal/pipeline"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "cdrdecode: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	config     string
	out        string
	workers    int
	format     string
	statusAddr string
	inputs     []string
	set        map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	fs := flag.NewFlagSet("cdrdecode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f flags
	fs.StringVar(&f.config, "config", "", "path to cdrdecode config.toml")
	fs.StringVar(&f.out, "out", "", "output directory")
	fs.IntVar(&f.workers, "workers", 0, "interpreter workers per file")
	fs.StringVar(&f.format, "format", "", "output format: parquet|jsonl")
	fs.StringVar(&f.statusAddr, "status-addr", "", "serve /health, /ready and /metrics on this address")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: cdrdecode [flags] <file|dir>...\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	f.inputs = fs.Args()
	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	if len(f.inputs) == 0 {
		fs.Usage()
		return flags{}, pipeline.ErrNoInputs
	}
	return f, nil
}

// resolveConfig loads the config file, if any, and applies flags on top.
func resolveConfig(f flags) (runConfig, error) {
	cfg := defaultRunConfig()
	if f.config != "" {
		var err error
		if cfg, err = loadRunConfig(f.config); err != nil {
			return runConfig{}, err
		}
	}
	if f.set["out"] {
		cfg.Pipeline.OutputDir = f.out
	}
	if f.set["workers"] {
		cfg.Pipeline.Workers = f.workers
	}
	if f.set["format"] {
		format, err := output.ParseFormat(f.format)
		if err != nil {
			return runConfig{}, err
		}
		cfg.Pipeline.Format = format
	}
	if f.set["status-addr"] {
		cfg.StatusAddr = f.statusAddr
	}
	return cfg, cfg.Pipeline.Validate()
}

func run(args []string, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logging.ConfigureRuntime()

	cfg, err := resolveConfig(f)
	if err != nil {
		return err
	}
	if cfg.OperatorsFile != "" {
		if _, err := config.ApplyOperators(cfg.OperatorsFile); err != nil {
			return err
		}
	}

	progress := observability.NewProgress()
	p, err := pipeline.New(cfg.Pipeline, pipeline.WithProgress(progress))
	if err != nil {
		return err
	}
	log.Logger = log.Logger.With().Str("run_id", p.RunID()).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.StatusAddr != "" {
		srv := observability.NewStatusServer(cfg.StatusAddr, cfg.CorsOrigins, progress)
		srvCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := srv.Serve(srvCtx); err != nil {
				log.Error().Err(err).Str("addr", cfg.StatusAddr).Msg("cdrdecode status server failed")
			}
		}()
	}

	sum, err := p.Run(ctx, f.inputs)
	log.Info().
		Int("files", sum.Files).
		Int("failed", sum.Failed).
		Int("records", sum.Records).
		Int("skipped", sum.Skipped).
		Int("field_errors", sum.FieldErrors).
		Int("faults", sum.Faults).
		Msg("cdrdecode done")
	return err
}

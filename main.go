package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
)

// config holds everything the command line controls.
type config struct {
	outDir  string
	name    string
	watch   bool
	jobs    int
	verbose bool
	version bool
}

// NFC_OUT supplies the default output directory.
const OUT_ENV = "NFC_OUT"

var errUsage = errors.New("usage: nfc [flags] file.nf.json...")

func parseArgs(args []string, stderr io.Writer) (config, []string, error) {
	var cfg config
	fs := flag.NewFlagSet("nfc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.outDir, "o", os.Getenv(OUT_ENV), "output directory for .ll files (default: next to each input)")
	fs.StringVar(&cfg.name, "name", "", "module id to use instead of the input file name")
	fs.BoolVar(&cfg.watch, "watch", false, "recompile inputs when they change")
	fs.IntVar(&cfg.jobs, "j", runtime.NumCPU(), "number of files to compile in parallel")
	fs.BoolVar(&cfg.verbose, "v", false, "verbose debug output")
	fs.BoolVar(&cfg.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return cfg, nil, err
	}

	files := fs.Args()
	if cfg.version {
		return cfg, files, nil
	}
	if len(files) == 0 {
		return cfg, nil, errUsage
	}
	if cfg.jobs < 1 {
		cfg.jobs = 1
	}
	return cfg, files, nil
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	cfg, files, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Println(err)
		}
		os.Exit(2)
	}
	if cfg.version {
		printVersion()
		return
	}
	setupLogging(cfg.verbose)
	slog.Debug("starting", "files", len(files), "jobs", cfg.jobs, "out", cfg.outDir)

	if err := compileAll(files, cfg); err != nil && !cfg.watch {
		os.Exit(1)
	}
	if !cfg.watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := watch(ctx, files, cfg); err != nil {
		fmt.Printf("⚠️ Watch failed: %v\n", err)
		os.Exit(1)
	}
}

// Command docingest extracts text from document files, splits it into
// overlapping chunks and writes the chunk records as JSON, JSON lines or YAML.
//
// Arguments may be files, directories or remote Git repository URLs
// (optionally suffixed with "#branch"), which are cloned shallowly.
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
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sevigo/docingest/documentloaders"
	"github.com/sevigo/docingest/exporters"
	"github.com/sevigo/docingest/gitutil"
	"github.com/sevigo/docingest/parsers"
	"github.com/sevigo/docingest/schema"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], nil, os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code. environ
// replaces the process environment when it is not nil.
func run(ctx context.Context, args []string, environ map[string]string, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(args, environ, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "docingest: %v\n", err)
		return 1
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := ingest(ctx, cfg, stdout, logger); err != nil {
		logger.Error("Ingestion failed", "error", err)
		return 1
	}
	return 0
}

func ingest(ctx context.Context, cfg Config, stdout io.Writer, logger *slog.Logger) error {
	chunkCfg, err := cfg.ChunkConfig()
	if err != nil {
		return err
	}
	format, err := exporters.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	registry, err := parsers.RegisterDefaultExtractors(logger)
	if err != nil {
		return fmt.Errorf("failed to set up extractors: %w", err)
	}

	opts := []documentloaders.Option{
		documentloaders.WithLogger(logger.With("component", "loader")),
		documentloaders.WithChunkConfig(chunkCfg),
		documentloaders.WithConcurrency(cfg.Concurrency),
		documentloaders.WithLocation(loc),
		documentloaders.WithMaxFileSize(cfg.MaxFileSize),
		documentloaders.WithExtensions(cfg.Extensions...),
	}

	paths, unsupported, cleanup, err := expandInputs(ctx, cfg.Inputs, registry, opts, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := documentloaders.NewFiles(paths, registry, opts...).Ingest(ctx)
	if err != nil {
		return err
	}
	result.Skipped = append(result.Skipped, unsupported...)
	for _, skipped := range result.Skipped {
		logger.Warn("File skipped", "path", skipped.Path, "reason", skipped.Reason)
	}

	return writeRecords(cfg.Output, stdout, result.Records, format)
}

// expandInputs replaces every directory argument by the files found under it
// and clones remote repositories into temporary directories first. Explicit
// file arguments are kept as given. Files the directory walks leave out are
// returned as skipped. The returned cleanup removes the clones.
func expandInputs(ctx context.Context, inputs []string, registry parsers.ExtractorRegistry, opts []documentloaders.Option, logger *slog.Logger) ([]string, []documentloaders.SkippedFile, func(), error) {
	var (
		paths    []string
		skipped  []documentloaders.SkippedFile
		cleanups []func()
	)
	cleanup := func() {
		for _, fn := range cleanups {
			fn()
		}
	}

	cloner := gitutil.NewCloner(logger.With("component", "git"))
	for _, input := range inputs {
		if gitutil.IsRemote(input) {
			url, branch := gitutil.SplitRef(input)
			dir, remove, err := cloner.Clone(ctx, url, branch)
			if err != nil {
				cleanup()
				return nil, nil, nil, err
			}
			cleanups = append(cleanups, remove)
			input = dir
		}

		info, err := os.Stat(input)
		if err != nil || !info.IsDir() {
			// missing files are reported as skipped by the loader
			paths = append(paths, input)
			continue
		}
		files, unsupported, err := documentloaders.NewDirectory(input, registry, opts...).Files(ctx)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("failed to scan %s: %w", input, err)
		}
		paths = append(paths, files...)
		skipped = append(skipped, unsupported...)
	}
	return paths, skipped, cleanup, nil
}

func writeRecords(output string, stdout io.Writer, records []schema.ChunkRecord, format exporters.Format) (err error) {
	if output == "" {
		return exporters.Write(stdout, records, format)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()
	return exporters.Write(f, records, format)
}

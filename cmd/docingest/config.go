package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/sevigo/docingest/exporters"
	"github.com/sevigo/docingest/textsplitter"
)

const envPrefix = "DOCINGEST_"

// Config holds the CLI settings. Environment variables are read first and
// command line flags override them.
type Config struct {
	ChunkSize    int      `env:"CHUNK_SIZE" envDefault:"500"`
	ChunkOverlap int      `env:"CHUNK_OVERLAP" envDefault:"50"`
	Concurrency  int      `env:"CONCURRENCY" envDefault:"0"`
	Format       string   `env:"FORMAT" envDefault:"json"`
	Output       string   `env:"OUTPUT"`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`
	Timezone     string   `env:"TIMEZONE" envDefault:"Local"`
	Extensions   []string `env:"EXTENSIONS" envSeparator:","`
	MaxFileSize  int64    `env:"MAX_FILE_SIZE" envDefault:"67108864"`
	// Separators is a comma separated list with backslash escapes, see
	// parseSeparators. Empty selects the default hierarchy.
	Separators string `env:"SEPARATORS"`

	// Inputs are the files and directories to ingest.
	Inputs []string
}

// loadConfig parses the environment (or environ, when not nil) and then args.
func loadConfig(args []string, environ map[string]string, stderr io.Writer) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      envPrefix,
		Environment: environ,
	}); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	fs := flag.NewFlagSet("docingest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: docingest [flags] <file|dir>...\n\nFlags:\n")
		fs.PrintDefaults()
	}

	fs.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "maximum chunk size in characters")
	fs.IntVar(&cfg.ChunkOverlap, "overlap", cfg.ChunkOverlap, "characters repeated from the previous chunk")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "files processed in parallel (0 = number of CPUs)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: json, jsonl or yaml")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output file (default stdout)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "time zone for chunk timestamps")
	fs.Int64Var(&cfg.MaxFileSize, "max-file-size", cfg.MaxFileSize, "skip files larger than this many bytes")
	fs.StringVar(&cfg.Separators, "separators", cfg.Separators,
		`separator hierarchy, comma separated; escapes \n \t \r \s (space) \, \\; a trailing comma adds "" (default "\n\n,\n,\s,")`)
	exts := fs.String("ext", strings.Join(cfg.Extensions, ","), "comma separated extensions to ingest from directories")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Extensions = splitList(*exts)
	cfg.Inputs = fs.Args()

	if len(cfg.Inputs) == 0 {
		fs.Usage()
		return Config{}, errors.New("no input files or directories given")
	}
	if _, err := cfg.ChunkConfig(); err != nil {
		return Config{}, err
	}
	if _, err := exporters.ParseFormat(cfg.Format); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ChunkConfig returns the validated splitter settings.
func (c Config) ChunkConfig() (textsplitter.ChunkConfig, error) {
	chunkCfg := textsplitter.DefaultChunkConfig()
	chunkCfg.MaxChunkSize = c.ChunkSize
	chunkCfg.Overlap = c.ChunkOverlap
	if c.Separators != "" {
		separators, err := parseSeparators(c.Separators)
		if err != nil {
			return textsplitter.ChunkConfig{}, err
		}
		chunkCfg.Separators = separators
	}
	if err := chunkCfg.Validate(); err != nil {
		return textsplitter.ChunkConfig{}, err
	}
	return chunkCfg, nil
}

// Level maps the configured log level name to a slog level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// parseSeparators splits s at unescaped commas. Elements are kept verbatim,
// spaces included, so "a,,b" yields an empty separator between "a" and "b".
func parseSeparators(s string) ([]string, error) {
	var (
		out     []string
		current strings.Builder
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case ',':
			out = append(out, current.String())
			current.Reset()
		case '\\':
			if i+1 == len(s) {
				return nil, fmt.Errorf("invalid separators %q: trailing backslash", s)
			}
			i++
			switch s[i] {
			case 'n':
				current.WriteByte('\n')
			case 't':
				current.WriteByte('\t')
			case 'r':
				current.WriteByte('\r')
			case 's':
				current.WriteByte(' ')
			case ',', '\\':
				current.WriteByte(s[i])
			default:
				return nil, fmt.Errorf("invalid separators %q: unknown escape \\%c", s, s[i])
			}
		default:
			current.WriteByte(c)
		}
	}
	return append(out, current.String()), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

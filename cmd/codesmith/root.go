package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vampirenirmal/codesmith/internal/agent"
	"github.com/vampirenirmal/codesmith/internal/config"
	"github.com/vampirenirmal/codesmith/internal/core"
	"github.com/vampirenirmal/codesmith/internal/storage"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
)

var (
	flagMock     bool
	flagVerbose  bool
	flagNoCache  bool
	flagOutput   string
	flagSessions string

	rootCmd = &cobra.Command{
		Use:   "codesmith",
		Short: "Generate working software from natural-language requests",
		Long: `Codesmith runs a six-stage AI agent pipeline over a plain-text
software request: requirement analysis, code generation with review
iterations, documentation, tests, and deployment configuration. The
resulting artifacts are written to a per-run session directory.`,
		SilenceUsage: true,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("codesmith %s (%s)\n", version, gitCommit)
		},
	}

	initCmd = &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter config file with defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists at %s", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			fmt.Println("Set OPENAI_API_KEY (or ANTHROPIC_API_KEY) in your environment.")
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagMock, "mock", false, "use canned responses instead of a live API")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable the on-disk response cache")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "output directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSessions, "session-naming", "descriptive", "session directory naming: uuid, timestamp, or descriptive")

	rootCmd.AddCommand(runCmd, batchCmd, sessionsCmd, initCmd, versionCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// deps is the wired-up object graph shared by run and batch.
type deps struct {
	cfg      *config.Config
	logger   *slog.Logger
	agents   core.Agents
	exporter *storage.Exporter
}

func buildDeps() (*deps, error) {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		if !flagMock {
			return nil, err
		}
		// Mock runs need no API key; fall back to defaults so the
		// pipeline can be exercised offline.
		cfg = config.Default()
		logger.Warn("config not loaded, using defaults for mock run", "error", err)
	}

	outputDir := cfg.Paths.OutputDir
	if flagOutput != "" {
		outputDir = flagOutput
	}
	if outputDir == "" {
		outputDir = "output"
	}
	store := storage.NewFileSystem(outputDir)

	var client agent.AIClient
	if flagMock {
		client = agent.NewMockClient()
	} else {
		client = agent.NewClient(cfg.AI.APIKey,
			agent.WithAPIConfig(cfg.AI.BaseURL, cfg.AI.Model),
			agent.WithTimeout(time.Duration(cfg.AI.Timeout)*time.Second),
			agent.WithRetry(cfg.Pipeline.RetryAttempts),
			agent.WithRateLimit(cfg.Limits.RateLimit.RequestsPerMinute, cfg.Limits.RateLimit.BurstSize),
			agent.WithLogger(logger),
		)
	}

	if !flagNoCache && !flagMock {
		cache := agent.NewResponseCache(store, 24*time.Hour)
		client = agent.WithCache(client, cache)
	}

	return &deps{
		cfg:      cfg,
		logger:   logger,
		agents:   agent.NewAgents(client, logger),
		exporter: storage.NewExporter(store, sessionStrategy(), logger),
	}, nil
}

func sessionStrategy() storage.SessionNamingStrategy {
	switch flagSessions {
	case "uuid":
		return storage.SessionUUID
	case "timestamp":
		return storage.SessionTimestamp
	default:
		return storage.SessionDescriptive
	}
}

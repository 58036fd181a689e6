package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vampirenirmal/codesmith/internal/core"
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Run the pipeline for many requests concurrently",
	Long: `Batch reads one request per line from the given file (blank lines
and lines starting with # are skipped) and runs them concurrently,
bounded by max_concurrent_runs from the config. Each request gets its
own session directory; one failing request never affects the others.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		requests, err := readRequests(args[0])
		if err != nil {
			return err
		}
		if len(requests) == 0 {
			return fmt.Errorf("no requests found in %s", args[0])
		}

		d, err := buildDeps()
		if err != nil {
			return err
		}

		for i, req := range requests {
			if len(req) > d.cfg.Limits.MaxPromptSize {
				return fmt.Errorf("request %d too large: %d bytes (limit %d)", i+1, len(req), d.cfg.Limits.MaxPromptSize)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Limits.TotalTimeout.Std())
		defer cancel()

		runner := core.NewBatchRunner(d.agents, d.cfg.CoreConfig(), d.cfg.Limits.MaxConcurrentRuns).
			WithLogger(d.logger)

		fmt.Printf("Running %d requests (concurrency %d)...\n", len(requests), d.cfg.Limits.MaxConcurrentRuns)
		results, err := runner.Run(ctx, requests)
		if err != nil {
			return fmt.Errorf("batch aborted: %w", err)
		}

		failed := 0
		for i, res := range results {
			dir, err := d.exporter.Export(context.Background(), res)
			if err != nil {
				return fmt.Errorf("exporting artifacts for request %d: %w", i+1, err)
			}
			fmt.Printf("%3d. %-9s %s\n", i+1, res.Status, dir)
			if res.Status != core.StatusCompleted {
				failed++
			}
		}

		fmt.Printf("\n%d/%d completed\n", len(results)-failed, len(results))
		if failed > 0 {
			return fmt.Errorf("%d of %d requests did not complete", failed, len(results))
		}
		return nil
	},
}

func readRequests(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening requests file: %w", err)
	}
	defer f.Close()

	var requests []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		requests = append(requests, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading requests file: %w", err)
	}
	return requests, nil
}

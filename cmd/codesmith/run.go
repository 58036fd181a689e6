package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vampirenirmal/codesmith/internal/core"
)

var flagPreviousCode string

var runCmd = &cobra.Command{
	Use:   "run [request]",
	Short: "Run the pipeline for a single request",
	Long: `Run executes the full agent pipeline for one request and writes the
artifacts (main.py, tests, README, deployment files) to a session
directory under the output path.

Press Ctrl-C once to stop the run at the next stage boundary; the best
result so far is still exported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request := strings.TrimSpace(args[0])

		d, err := buildDeps()
		if err != nil {
			return err
		}

		if len(request) > d.cfg.Limits.MaxPromptSize {
			return fmt.Errorf("request too large: %d bytes (limit %d)", len(request), d.cfg.Limits.MaxPromptSize)
		}

		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Limits.TotalTimeout.Std())
		defer cancel()

		// First Ctrl-C requests a cooperative stop; the pipeline halts at
		// the next poll point. A second one cancels the context outright.
		var stopRequested atomic.Bool
		sigCh := make(chan os.Signal, 2)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			<-sigCh
			fmt.Fprintln(os.Stderr, "\nStopping at the next stage boundary... (Ctrl-C again to abort)")
			stopRequested.Store(true)
			<-sigCh
			cancel()
		}()

		execOpts := []core.ExecOption{
			core.WithProgress(func(pct int, msg string) {
				fmt.Printf("[%3d%%] %s\n", pct, msg)
			}),
			core.WithStopCheck(stopRequested.Load),
		}

		if flagPreviousCode != "" {
			prev, err := os.ReadFile(flagPreviousCode)
			if err != nil {
				return fmt.Errorf("reading previous code: %w", err)
			}
			execOpts = append(execOpts, core.WithFollowUp(&core.FollowUp{
				Active:       true,
				PreviousCode: string(prev),
			}))
		}

		pipeline := core.New(d.agents, d.cfg.CoreConfig(), core.WithLogger(d.logger))
		res := pipeline.Execute(ctx, request, execOpts...)

		dir, err := d.exporter.Export(context.Background(), res)
		if err != nil {
			return fmt.Errorf("exporting artifacts: %w", err)
		}

		printSummary(res, dir)

		if res.Status == core.StatusFailed || res.Status == core.StatusError {
			return fmt.Errorf("run %s: %s", res.Status, res.Err)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&flagPreviousCode, "previous-code", "", "path to code from an earlier run to build on")
}

func printSummary(res *core.Result, dir string) {
	fmt.Println()
	fmt.Printf("Status:     %s\n", res.Status)
	fmt.Printf("Run ID:     %s\n", res.RunID)
	fmt.Printf("Iterations: %d\n", res.Iterations)
	fmt.Printf("Elapsed:    %s\n", res.Elapsed.Round(10*time.Millisecond))
	fmt.Printf("Artifacts:  %s\n", dir)
	if res.Err != "" {
		fmt.Printf("Error:      %s\n", res.Err)
	}
	if res.Requirements != nil && res.Requirements.AmbiguityDetected {
		fmt.Println("\nThe request was ambiguous. Consider clarifying:")
		for _, q := range res.Requirements.ClarifyingQuestions {
			fmt.Printf("  - %s\n", q)
		}
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vampirenirmal/codesmith/internal/config"
	"github.com/vampirenirmal/codesmith/internal/storage"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List exported run sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Listing needs only the output directory, not an API key.
		dir := flagOutput
		if dir == "" {
			if cfg, err := config.Load(); err == nil {
				dir = cfg.Paths.OutputDir
			}
		}
		if dir == "" {
			dir = "output"
		}

		sessions, err := storage.ListSessions(context.Background(), storage.NewFileSystem(dir))
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		for _, s := range sessions {
			request := s.Request
			if runes := []rune(request); len(runes) > 50 {
				request = string(runes[:47]) + "..."
			}
			fmt.Printf("%s  %-9s  %-50s  %s\n",
				s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Status, request, s.Dir)
		}
		return nil
	},
}

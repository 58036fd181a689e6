package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vampirenirmal/codesmith/internal/core"
)

// Exporter writes a run's artifacts to storage as plain files a user can
// pick up and run: the generated program, its tests, docs, and the
// deployment pieces, plus a result.json with the full record.
type Exporter struct {
	storage  Storage
	strategy SessionNamingStrategy
	logger   *slog.Logger
}

func NewExporter(storage Storage, strategy SessionNamingStrategy, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		storage:  storage,
		strategy: strategy,
		logger:   logger,
	}
}

// SessionInfo is the small sidecar written next to the artifacts so
// sessions stay identifiable after the directory name is all that's left.
type SessionInfo struct {
	RunID      string    `json:"run_id"`
	Request    string    `json:"request"`
	Status     string    `json:"status"`
	Iterations int       `json:"iterations"`
	CreatedAt  time.Time `json:"created_at"`

	// Dir is the session directory, filled in when listing.
	Dir string `json:"-"`
}

// Export writes every artifact of one result under a per-run session
// directory and returns that directory (relative to the storage base).
// Empty artifacts are skipped rather than written as empty files.
func (e *Exporter) Export(ctx context.Context, res *core.Result) (string, error) {
	dir := SessionDir(res.RunID, res.UserInput, e.strategy)

	files := map[string]string{
		"main.py":          res.Code,
		"test_main.py":     res.TestCode,
		"README.md":        res.Documentation,
		"requirements.txt": res.Deployment.Requirements,
		"SETUP.md":         res.Deployment.SetupInstructions,
	}
	for name, content := range files {
		if strings.TrimSpace(content) == "" {
			continue
		}
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if err := e.storage.Save(ctx, filepath.Join(dir, name), []byte(content)); err != nil {
			return "", fmt.Errorf("saving %s: %w", name, err)
		}
	}

	if script := strings.TrimSpace(res.Deployment.RunScript); script != "" {
		runSh := "#!/bin/sh\n" + script + "\n"
		if err := e.storage.Save(ctx, filepath.Join(dir, "run.sh"), []byte(runSh)); err != nil {
			return "", fmt.Errorf("saving run.sh: %w", err)
		}
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling result: %w", err)
	}
	if err := e.storage.Save(ctx, filepath.Join(dir, "result.json"), data); err != nil {
		return "", fmt.Errorf("saving result.json: %w", err)
	}

	meta := SessionInfo{
		RunID:      res.RunID,
		Request:    res.UserInput,
		Status:     string(res.Status),
		Iterations: res.Iterations,
		CreatedAt:  time.Now().UTC(),
	}
	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling session metadata: %w", err)
	}
	if err := e.storage.Save(ctx, filepath.Join(dir, "session.json"), metaData); err != nil {
		return "", fmt.Errorf("saving session metadata: %w", err)
	}

	e.logger.Info("artifacts exported",
		"run_id", res.RunID,
		"dir", dir,
		"status", res.Status)

	return dir, nil
}

// ListSessions returns the metadata of every exported session, newest
// first. Directories without a readable session.json are skipped.
func ListSessions(ctx context.Context, store Storage) ([]SessionInfo, error) {
	paths, err := store.List(ctx, filepath.Join("sessions", "*", "session.json"))
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	sessions := make([]SessionInfo, 0, len(paths))
	for _, p := range paths {
		data, err := store.Load(ctx, p)
		if err != nil {
			continue
		}
		var info SessionInfo
		if err := json.Unmarshal(data, &info); err != nil {
			continue
		}
		info.Dir = filepath.Dir(p)
		sessions = append(sessions, info)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

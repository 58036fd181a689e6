package agent

import (
	"log/slog"

	"github.com/vampirenirmal/codesmith/internal/core"
)

// NewAgents wires one client into the full six-agent bundle the pipeline
// consumes.
func NewAgents(client AIClient, logger *slog.Logger) core.Agents {
	return core.Agents{
		Analyst:    NewAnalyst(client, logger),
		Coder:      NewCoder(client, logger),
		Reviewer:   NewReviewer(client, logger),
		Documenter: NewDocumenter(client, logger),
		TestWriter: NewTestWriter(client, logger),
		Deployer:   NewDeployer(client, logger),
	}
}

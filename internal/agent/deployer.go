package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vampirenirmal/codesmith/internal/core"
)

const deployerSystemMessage = `You are a DevOps Engineer specializing in Python project deployment and configuration.

Your responsibilities:
1. Generate requirements.txt with all necessary dependencies
2. Create clear project setup instructions
3. Generate run scripts for different platforms
4. Ensure reproducibility and simplicity

Focus on:
- Complete dependency lists
- Clear, step-by-step instructions
- Cross-platform compatibility where possible
- Simplicity and ease of use`

// Section markers the deployer asks the model to emit and then parses
// back out of the response.
const (
	markerRequirements = "[REQUIREMENTS]"
	markerSetup        = "[SETUP_INSTRUCTIONS]"
	markerRunScript    = "[RUN_SCRIPT]"
)

// Deployer produces the three deployment artifacts for the final code.
type Deployer struct {
	client AIClient
	logger *slog.Logger
}

func NewDeployer(client AIClient, logger *slog.Logger) *Deployer {
	return &Deployer{
		client: client,
		logger: logger.With("agent", "deployer"),
	}
}

func (d *Deployer) GenerateDeploymentConfig(ctx context.Context, code string, reqs *core.Requirements) (core.DeploymentConfig, error) {
	var reqText strings.Builder
	reqText.WriteString("FUNCTIONAL REQUIREMENTS:\n")
	for _, r := range reqs.Functional {
		reqText.WriteString("- " + r + "\n")
	}

	d.logger.Info("generating deployment config", "code_length", len(code))

	prompt := fmt.Sprintf(`%s

Generate deployment configuration for the following Python project:

ORIGINAL REQUIREMENTS:
%s

GENERATED CODE:
`+"```python\n%s\n```"+`

Generate:
1. requirements.txt - List all Python dependencies needed (include versions where critical)
2. Setup Instructions - Step-by-step instructions for setting up and running the project
3. Run Script - A shell script (run.sh) that can be used to run the project

Format your response clearly with sections marked as:
[REQUIREMENTS]
[SETUP_INSTRUCTIONS]
[RUN_SCRIPT]`,
		deployerSystemMessage, reqText.String(), code)

	content, err := d.client.Complete(ctx, prompt)
	if err != nil {
		return core.DeploymentConfig{}, fmt.Errorf("deployment config generation: %w", err)
	}

	cfg := parseDeploymentOutput(content)
	d.logger.Info("deployment config generated",
		"requirements_length", len(cfg.Requirements),
		"setup_length", len(cfg.SetupInstructions),
		"script_length", len(cfg.RunScript))

	return cfg, nil
}

// parseDeploymentOutput splits the response on the three section markers.
// Any section the model skipped is filled from the defaults, per section,
// so one missing marker never discards the others.
func parseDeploymentOutput(content string) core.DeploymentConfig {
	var cfg core.DeploymentConfig

	if idx := strings.Index(content, markerRequirements); idx >= 0 {
		start := idx + len(markerRequirements)
		end := strings.Index(content[start:], markerSetup)
		if end < 0 {
			end = strings.Index(content[start:], markerRunScript)
		}
		if end > 0 {
			cfg.Requirements = strings.TrimSpace(content[start : start+end])
		}
	}

	if idx := strings.Index(content, markerSetup); idx >= 0 {
		start := idx + len(markerSetup)
		if end := strings.Index(content[start:], markerRunScript); end > 0 {
			cfg.SetupInstructions = strings.TrimSpace(content[start : start+end])
		}
	}

	if idx := strings.Index(content, markerRunScript); idx >= 0 {
		cfg.RunScript = strings.TrimSpace(content[idx+len(markerRunScript):])
	}

	defaults := core.DefaultDeploymentConfig()
	if cfg.Requirements == "" {
		cfg.Requirements = defaults.Requirements
	}
	if cfg.SetupInstructions == "" {
		cfg.SetupInstructions = defaults.SetupInstructions
	}
	if cfg.RunScript == "" {
		cfg.RunScript = defaults.RunScript
	}

	return cfg
}

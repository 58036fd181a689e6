package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vampirenirmal/codesmith/internal/core"
)

const coderSystemMessage = `You are an expert Python software engineer specializing in clean, modular, production-ready code.

Your responsibilities:
1. Convert structured requirements into well-designed, WORKING Python code
2. Follow Python best practices (PEP 8, type hints, docstrings)
3. Write efficient, readable, and maintainable code
4. Include comprehensive error handling for incorrect inputs and failures
5. Ensure code is complete, executable, and handles edge cases gracefully

Guidelines:
- Use meaningful variable and function names
- Add docstrings to all functions and classes
- Include type hints where appropriate
- Write self-contained, testable modules
- Handle edge cases and invalid inputs gracefully
- Do NOT include placeholder code or TODOs
- Do NOT review your own code - focus only on implementation

Output only the Python code, properly formatted and ready for execution.`

// Coder generates Python code from requirements, steered by review
// feedback or by code carried over from a previous run.
type Coder struct {
	client AIClient
	logger *slog.Logger
}

func NewCoder(client AIClient, logger *slog.Logger) *Coder {
	return &Coder{
		client: client,
		logger: logger.With("agent", "coder"),
	}
}

func (c *Coder) GenerateCode(ctx context.Context, reqs *core.Requirements, feedback, previousCode string) (string, error) {
	reqText := formatRequirements(reqs)

	c.logger.Info("generating code",
		"has_feedback", feedback != "",
		"has_previous_code", previousCode != "",
		"requirements_count", len(reqs.Functional))

	var prompt string
	switch {
	case feedback != "":
		prompt = fmt.Sprintf(`%s

Based on the following requirements and review feedback, generate improved Python code:

REQUIREMENTS:
%s

REVIEW FEEDBACK:
%s

Generate complete, production-ready Python code that addresses the feedback.`,
			coderSystemMessage, reqText, feedback)

	case previousCode != "":
		prompt = fmt.Sprintf(`%s

The user has existing code from a previous session and wants to build on it.

REQUIREMENTS:
%s

EXISTING CODE:
`+"```python\n%s\n```"+`

Extend or modify the existing code to satisfy the requirements. Preserve working behavior unless a requirement changes it. Output the complete updated Python code.`,
			coderSystemMessage, reqText, previousCode)

	default:
		prompt = fmt.Sprintf(`%s

Based on the following structured requirements, generate complete Python code:

REQUIREMENTS:
%s

Generate complete, production-ready Python code following best practices.`,
			coderSystemMessage, reqText)
	}

	content, err := c.client.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("code generation: %w", err)
	}

	code := ExtractCodeBlock(content)
	c.logger.Info("code generated", "code_length", len(code))
	return code, nil
}

package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vampirenirmal/codesmith/internal/core"
)

const documenterSystemMessage = `You are a Senior Technical Writer specializing in software documentation.

Your responsibilities:
1. Produce clear, complete Markdown documentation for Python projects
2. Cover purpose, installation, usage with examples, and API reference
3. Document every public function and class with parameters and return values
4. Keep the documentation accurate to the code as written

Output only the Markdown documentation.`

// Documenter produces Markdown documentation for the final code.
type Documenter struct {
	client AIClient
	logger *slog.Logger
}

func NewDocumenter(client AIClient, logger *slog.Logger) *Documenter {
	return &Documenter{
		client: client,
		logger: logger.With("agent", "documenter"),
	}
}

func (d *Documenter) GenerateDocumentation(ctx context.Context, code string, reqs *core.Requirements) (string, error) {
	reqText := formatRequirementsBrief(reqs)

	d.logger.Info("generating documentation", "code_length", len(code))

	prompt := fmt.Sprintf(`%s

Write complete Markdown documentation for the following Python project.

ORIGINAL REQUIREMENTS:
%s

CODE:
`+"```python\n%s\n```"+`

The documentation must include:
1. Overview - what the project does and why
2. Installation - how to set it up
3. Usage - worked examples with expected output
4. API Reference - every public function and class, with parameters, return values, and raised exceptions

Output only the Markdown documentation.`,
		documenterSystemMessage, reqText, code)

	content, err := d.client.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("documentation generation: %w", err)
	}

	docs := strings.TrimSpace(content)
	// Strip a stray markdown fence if the model wrapped the whole answer.
	if strings.HasPrefix(docs, "```markdown") {
		docs = strings.TrimPrefix(docs, "```markdown")
		docs = strings.TrimSuffix(strings.TrimSpace(docs), "```")
		docs = strings.TrimSpace(docs)
	}

	d.logger.Info("documentation generated", "doc_length", len(docs))
	return docs, nil
}

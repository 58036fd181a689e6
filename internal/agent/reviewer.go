package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vampirenirmal/codesmith/internal/core"
)

const reviewerSystemMessage = `You are a Senior Code Reviewer with expertise in Python, software engineering best practices, security, and code quality.

Review code for correctness, efficiency, security, and edge cases. If issues are found, generate explicit improvement feedback so the author can fix them.

APPROVAL GUIDELINES:
- APPROVE code ONLY if it passes all four mandatory review areas (Correctness, Efficiency, Security, Edge Cases)
- DO NOT APPROVE if any significant issues are found
- Be thorough but practical: code should be production-ready

OUTPUT FORMAT:
- If code is APPROVED: Respond with "APPROVED" at the start of your response
- If issues are found: Provide explicit, detailed feedback organized by:
  CORRECTNESS ISSUES, EFFICIENCY ISSUES, SECURITY ISSUES, EDGE CASE ISSUES
  For each issue state what the problem is, where it occurs, how to fix it, and why it matters.`

// Reviewer judges generated code against the requirements. Approval is
// signaled by the response starting with "APPROVED", case-insensitively.
type Reviewer struct {
	client AIClient
	logger *slog.Logger
}

func NewReviewer(client AIClient, logger *slog.Logger) *Reviewer {
	return &Reviewer{
		client: client,
		logger: logger.With("agent", "reviewer"),
	}
}

func (r *Reviewer) Review(ctx context.Context, code string, reqs *core.Requirements) (bool, string, error) {
	reqText := formatRequirementsBrief(reqs)

	r.logger.Info("reviewing code",
		"code_length", len(code),
		"requirements_count", len(reqs.Functional))

	prompt := fmt.Sprintf(`%s

Review the following Python code for correctness, efficiency, security, and edge cases.

REQUIREMENTS:
%s

CODE TO REVIEW:
`+"```python\n%s\n```"+`

REVIEW PROCESS:
1. Check each of the four mandatory areas (Correctness, Efficiency, Security, Edge Cases)
2. If ALL areas pass: Respond with "APPROVED"
3. If ANY issues are found: Generate explicit improvement feedback organized by category

The feedback must be explicit and actionable so each issue can be addressed.`,
		reviewerSystemMessage, reqText, code)

	content, err := r.client.Complete(ctx, prompt)
	if err != nil {
		return false, "", fmt.Errorf("code review: %w", err)
	}

	feedback := strings.TrimSpace(content)
	approved := strings.HasPrefix(strings.ToUpper(feedback), "APPROVED")

	r.logger.Info("review complete",
		"approved", approved,
		"feedback_length", len(feedback))

	return approved, feedback, nil
}

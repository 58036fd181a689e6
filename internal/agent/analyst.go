package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vampirenirmal/codesmith/internal/core"
)

const analystSystemMessage = `You are a Senior Requirements Analyst specializing in software engineering.
Your task is to analyze natural language requirements and convert them into structured, actionable software requirements.

When given user input, you must output a JSON object with the following structure:
{
    "functional_requirements": ["list of functional requirements"],
    "non_functional_requirements": ["list of non-functional requirements"],
    "assumptions": ["list of assumptions made"],
    "constraints": ["list of constraints identified"],
    "ambiguity_detected": false,
    "ambiguity_notes": "notes on anything unclear in the request, empty if none",
    "clarifying_questions": ["questions that would resolve the ambiguity, empty if none"]
}

Be thorough, specific, and ensure all requirements are testable and implementable.
Focus on clarity and completeness.`

// Analyst converts a raw request into a structured requirements record.
type Analyst struct {
	client AIClient
	logger *slog.Logger
}

func NewAnalyst(client AIClient, logger *slog.Logger) *Analyst {
	return &Analyst{
		client: client,
		logger: logger.With("agent", "analyst"),
	}
}

func (a *Analyst) Analyze(ctx context.Context, userInput string, followUp *core.FollowUp) (*core.Requirements, error) {
	a.logger.Info("starting analysis", "input_length", len(userInput))

	prompt := fmt.Sprintf(`%s

Analyze the following user requirement and provide structured output:

User Requirement:
%s
%s
Provide your analysis as a JSON object with keys: functional_requirements, non_functional_requirements, assumptions, constraints, ambiguity_detected, ambiguity_notes, clarifying_questions.`,
		analystSystemMessage, userInput, followUpContext(followUp))

	content, err := a.client.CompleteJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("requirement analysis: %w", err)
	}

	reqs := parseRequirements(content)
	a.logger.Info("analysis complete",
		"functional", len(reqs.Functional),
		"non_functional", len(reqs.NonFunctional),
		"ambiguity_detected", reqs.AmbiguityDetected)

	return reqs, nil
}

// followUpContext renders the follow-up preamble, or "" for a fresh run.
func followUpContext(followUp *core.FollowUp) string {
	if followUp == nil || !followUp.Active || followUp.PreviousCode == "" {
		return "\n"
	}
	return fmt.Sprintf(`
This is a follow-up request. The user already has the following code from a previous session and wants to build on it:

`+"```python\n%s\n```"+`

Interpret the requirement as a change or extension to this code.

`, followUp.PreviousCode)
}

// parseRequirements decodes the model's JSON answer, falling back to a
// minimal record carrying the raw response when decoding fails. Analysis
// degrades, it never errors on malformed model output.
func parseRequirements(content string) *core.Requirements {
	var reqs core.Requirements

	if jsonStr := ExtractJSON(content); jsonStr != "" {
		if err := json.Unmarshal([]byte(jsonStr), &reqs); err == nil {
			normalizeRequirements(&reqs)
			return &reqs
		}
	}

	return &core.Requirements{
		Functional:          []string{content},
		NonFunctional:       []string{},
		Assumptions:         []string{},
		Constraints:         []string{},
		ClarifyingQuestions: []string{},
	}
}

func normalizeRequirements(reqs *core.Requirements) {
	if reqs.Functional == nil {
		reqs.Functional = []string{}
	}
	if reqs.NonFunctional == nil {
		reqs.NonFunctional = []string{}
	}
	if reqs.Assumptions == nil {
		reqs.Assumptions = []string{}
	}
	if reqs.Constraints == nil {
		reqs.Constraints = []string{}
	}
	if reqs.ClarifyingQuestions == nil {
		reqs.ClarifyingQuestions = []string{}
	}
}

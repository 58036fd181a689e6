package agent

import (
	"strings"

	"github.com/vampirenirmal/codesmith/internal/core"
)

// ExtractJSON returns the substring spanning the first "{" through the
// last "}" of content, or "" when no such span exists. Models routinely
// wrap JSON in prose or markdown fences; this strips all of it.
func ExtractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}

// ExtractCodeBlock pulls code out of a markdown response. A ```python
// fence wins over a bare ``` fence; with no fences the whole trimmed
// response is treated as code.
func ExtractCodeBlock(content string) string {
	if idx := strings.Index(content, "```python"); idx >= 0 {
		start := idx + len("```python")
		if end := strings.Index(content[start:], "```"); end >= 0 {
			return strings.TrimSpace(content[start : start+end])
		}
	}
	if idx := strings.Index(content, "```"); idx >= 0 {
		start := idx + len("```")
		if end := strings.Index(content[start:], "```"); end >= 0 {
			return strings.TrimSpace(content[start : start+end])
		}
	}
	return strings.TrimSpace(content)
}

// formatRequirements renders a requirements record as the labeled list
// blocks the agent prompts embed.
func formatRequirements(reqs *core.Requirements) string {
	var b strings.Builder

	b.WriteString("FUNCTIONAL REQUIREMENTS:\n")
	for _, r := range reqs.Functional {
		b.WriteString("- " + r + "\n")
	}

	b.WriteString("\nNON-FUNCTIONAL REQUIREMENTS:\n")
	for _, r := range reqs.NonFunctional {
		b.WriteString("- " + r + "\n")
	}

	b.WriteString("\nASSUMPTIONS:\n")
	for _, a := range reqs.Assumptions {
		b.WriteString("- " + a + "\n")
	}

	b.WriteString("\nCONSTRAINTS:\n")
	for _, c := range reqs.Constraints {
		b.WriteString("- " + c + "\n")
	}

	return b.String()
}

// formatRequirementsBrief renders only the functional and non-functional
// blocks, for prompts where assumptions and constraints add noise.
func formatRequirementsBrief(reqs *core.Requirements) string {
	var b strings.Builder

	b.WriteString("FUNCTIONAL REQUIREMENTS:\n")
	for _, r := range reqs.Functional {
		b.WriteString("- " + r + "\n")
	}

	b.WriteString("\nNON-FUNCTIONAL REQUIREMENTS:\n")
	for _, r := range reqs.NonFunctional {
		b.WriteString("- " + r + "\n")
	}

	return b.String()
}

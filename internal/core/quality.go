package core

import "strings"

// Keyword tables for the quality heuristic. Each keyword is checked as an
// independent substring match, so multiple hits compound.
var (
	positiveKeywords = []string{
		"well-structured", "good", "excellent", "proper", "correct",
		"meets requirements", "complete", "follows", "adheres",
		"appropriate", "adequate", "suitable", "functional",
	}

	negativeKeywords = []string{
		"missing", "error", "bug", "incorrect", "wrong",
		"does not", "fails", "incomplete", "lacks",
	}
)

// Score rates a code candidate from its review feedback and the code text
// itself, returning a value in [0,100]. It is a deterministic, pure
// keyword heuristic used to pick a fallback candidate when no iteration is
// approved; it is a tie-breaker among imperfect candidates, not a
// correctness oracle.
func Score(feedback, code string) float64 {
	score := 50.0

	fb := strings.ToLower(feedback)

	for _, kw := range positiveKeywords {
		if strings.Contains(fb, kw) {
			score += 5
		}
	}

	if strings.Contains(fb, "approved") || strings.Contains(fb, "approve") {
		score += 20
	}
	if strings.Contains(fb, "meets all") || strings.Contains(fb, "fully meets") {
		score += 15
	}
	if strings.Contains(fb, "production-ready") || strings.Contains(fb, "production ready") {
		score += 10
	}

	for _, kw := range negativeKeywords {
		if strings.Contains(fb, kw) {
			score -= 3
		}
	}

	// Structural signals from the generated code itself.
	if strings.Contains(code, "def ") && strings.Contains(code, "class ") {
		score += 5
	}
	if strings.Contains(code, "import ") {
		score += 2
	}
	if len(code) > 1000 {
		score += 3
	}
	if strings.Contains(code, "try:") || strings.Contains(code, "except") {
		score += 3
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score
}

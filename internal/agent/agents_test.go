package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vampirenirmal/codesmith/internal/core"
)

// scriptedClient returns queued responses in call order.
type scriptedClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (s *scriptedClient) next(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", fmt.Errorf("scripted client exhausted after %d calls", len(s.responses))
}

func (s *scriptedClient) Complete(ctx context.Context, prompt string) (string, error) {
	return s.next(prompt)
}

func (s *scriptedClient) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	return s.next(prompt)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAnalystParsesStructuredResponse(t *testing.T) {
	client := &scriptedClient{responses: []string{`Here is my analysis:
{
	"functional_requirements": ["parse CSV", "sum column"],
	"non_functional_requirements": ["handle large files"],
	"assumptions": ["well-formed input"],
	"constraints": ["no third-party libs"],
	"ambiguity_detected": true,
	"ambiguity_notes": "column name not specified",
	"clarifying_questions": ["Which column should be summed?"]
}`}}

	reqs, err := NewAnalyst(client, testLogger()).Analyze(context.Background(), "sum a CSV column", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reqs.Functional) != 2 || reqs.Functional[0] != "parse CSV" {
		t.Errorf("functional requirements wrong: %v", reqs.Functional)
	}
	if len(reqs.Constraints) != 1 {
		t.Errorf("constraints wrong: %v", reqs.Constraints)
	}
	if !reqs.AmbiguityDetected || reqs.AmbiguityNotes == "" {
		t.Error("ambiguity metadata lost")
	}
	if len(reqs.ClarifyingQuestions) != 1 {
		t.Errorf("clarifying questions wrong: %v", reqs.ClarifyingQuestions)
	}
}

func TestAnalystFallsBackOnUnparseableResponse(t *testing.T) {
	client := &scriptedClient{responses: []string{"I could not produce JSON, sorry."}}

	reqs, err := NewAnalyst(client, testLogger()).Analyze(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reqs.Functional) != 1 || reqs.Functional[0] != "I could not produce JSON, sorry." {
		t.Errorf("fallback must carry the raw response: %v", reqs.Functional)
	}
	if reqs.NonFunctional == nil || reqs.Assumptions == nil || reqs.Constraints == nil {
		t.Error("fallback slices must be non-nil")
	}
}

func TestAnalystPropagatesClientError(t *testing.T) {
	sentinel := errors.New("model down")
	client := &scriptedClient{errs: []error{sentinel}}

	_, err := NewAnalyst(client, testLogger()).Analyze(context.Background(), "anything", nil)
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped client error, got %v", err)
	}
}

func TestAnalystFollowUpPromptIncludesPreviousCode(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"functional_requirements": ["x"]}`}}

	_, err := NewAnalyst(client, testLogger()).Analyze(context.Background(), "add subtraction",
		&core.FollowUp{Active: true, PreviousCode: "def add(a, b):\n    return a + b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(client.prompts[0], "def add(a, b):") {
		t.Error("follow-up prompt must embed the previous code")
	}
	if !strings.Contains(client.prompts[0], "follow-up request") {
		t.Error("follow-up prompt must flag the request as a follow-up")
	}
}

func TestCoderPromptVariants(t *testing.T) {
	reqs := &core.Requirements{Functional: []string{"add two numbers"}}

	cases := []struct {
		name         string
		feedback     string
		previousCode string
		wantMarker   string
		skipMarkers  []string
	}{
		{
			name:        "initial generation",
			wantMarker:  "generate complete Python code",
			skipMarkers: []string{"REVIEW FEEDBACK", "EXISTING CODE"},
		},
		{
			name:        "with feedback",
			feedback:    "missing input validation",
			wantMarker:  "REVIEW FEEDBACK:\nmissing input validation",
			skipMarkers: []string{"EXISTING CODE"},
		},
		{
			name:         "follow-up with previous code",
			previousCode: "def add(a, b):\n    return a + b",
			wantMarker:   "EXISTING CODE:",
			skipMarkers:  []string{"REVIEW FEEDBACK"},
		},
		{
			// Feedback wins when both are present; previous code only
			// seeds feedback-free rounds.
			name:         "feedback beats previous code",
			feedback:     "needs docstrings",
			previousCode: "def add(a, b):\n    return a + b",
			wantMarker:   "REVIEW FEEDBACK:",
			skipMarkers:  []string{"EXISTING CODE"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &scriptedClient{responses: []string{"```python\ndef add(a, b):\n    return a + b\n```"}}

			code, err := NewCoder(client, testLogger()).GenerateCode(context.Background(), reqs, tc.feedback, tc.previousCode)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if code != "def add(a, b):\n    return a + b" {
				t.Errorf("fence extraction wrong: %q", code)
			}
			prompt := client.prompts[0]
			if !strings.Contains(prompt, tc.wantMarker) {
				t.Errorf("prompt missing %q", tc.wantMarker)
			}
			for _, skip := range tc.skipMarkers {
				if strings.Contains(prompt, skip) {
					t.Errorf("prompt must not contain %q", skip)
				}
			}
		})
	}
}

func TestReviewerApprovalDetection(t *testing.T) {
	reqs := &core.Requirements{Functional: []string{"anything"}}

	cases := []struct {
		name     string
		response string
		approved bool
	}{
		{"plain approved", "APPROVED", true},
		{"approved with detail", "APPROVED - the code meets all requirements.", true},
		{"lowercase approved", "approved, looks good", true},
		{"leading whitespace", "  \nAPPROVED", true},
		{"approved mid-text", "The code is not APPROVED yet.", false},
		{"rejection", "CORRECTNESS ISSUES:\n- missing validation", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &scriptedClient{responses: []string{tc.response}}

			approved, feedback, err := NewReviewer(client, testLogger()).Review(context.Background(), "def f():\n    pass", reqs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if approved != tc.approved {
				t.Errorf("approved=%v, want %v for %q", approved, tc.approved, tc.response)
			}
			if feedback != strings.TrimSpace(tc.response) {
				t.Errorf("feedback must be the trimmed response, got %q", feedback)
			}
		})
	}
}

func TestTestWriterExtractsFencedCode(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"Sure, here are the tests:\n```python\nimport pytest\n\ndef test_add():\n    assert add(2, 3) == 5\n```",
	}}

	tests, err := NewTestWriter(client, testLogger()).GenerateTests(context.Background(), "def add(a, b):\n    return a + b",
		&core.Requirements{Functional: []string{"add"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(tests, "import pytest") {
		t.Errorf("fence extraction wrong: %q", tests)
	}
	if strings.Contains(tests, "```") {
		t.Errorf("fence markers must be stripped: %q", tests)
	}
}

func TestDeployerParsesSections(t *testing.T) {
	client := &scriptedClient{responses: []string{`Here is the deployment configuration:

[REQUIREMENTS]
requests>=2.31.0
pytest>=7.4.0

[SETUP_INSTRUCTIONS]
1. Install Python
2. pip install -r requirements.txt

[RUN_SCRIPT]
#!/bin/bash
python main.py`}}

	cfg, err := NewDeployer(client, testLogger()).GenerateDeploymentConfig(context.Background(), "print('hi')",
		&core.Requirements{Functional: []string{"greet"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Requirements != "requests>=2.31.0\npytest>=7.4.0" {
		t.Errorf("requirements wrong: %q", cfg.Requirements)
	}
	if !strings.HasPrefix(cfg.SetupInstructions, "1. Install Python") {
		t.Errorf("setup instructions wrong: %q", cfg.SetupInstructions)
	}
	if !strings.HasPrefix(cfg.RunScript, "#!/bin/bash") {
		t.Errorf("run script wrong: %q", cfg.RunScript)
	}
}

func TestDeployerMissingSectionsUseDefaults(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{"no markers at all", "Sorry, I can only give prose here."},
		{"only run script", "[RUN_SCRIPT]\n#!/bin/bash\npython app.py"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &scriptedClient{responses: []string{tc.response}}

			cfg, err := NewDeployer(client, testLogger()).GenerateDeploymentConfig(context.Background(), "x = 1",
				&core.Requirements{Functional: []string{"anything"}})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Requirements == "" || cfg.SetupInstructions == "" || cfg.RunScript == "" {
				t.Errorf("missing sections must fall back to defaults: %+v", cfg)
			}
		})
	}
}

func TestMockClientDrivesFullPipeline(t *testing.T) {
	agents := NewAgents(NewMockClient(), testLogger())

	p := core.New(agents, core.DefaultConfig(), core.WithLogger(testLogger()))
	res := p.Execute(context.Background(), "build a calculator")

	if res.Status != core.StatusCompleted {
		t.Fatalf("expected completed, got %s (err=%q)", res.Status, res.Err)
	}
	if !strings.Contains(res.Code, "def add") {
		t.Errorf("unexpected code: %q", res.Code)
	}
	if res.Iterations != 1 {
		t.Errorf("mock reviewer approves first pass, got %d iterations", res.Iterations)
	}
	if !strings.Contains(res.TestCode, "pytest") {
		t.Errorf("unexpected tests: %q", res.TestCode)
	}
	if !strings.Contains(res.Deployment.RunScript, "python calculator.py") {
		t.Errorf("unexpected run script: %q", res.Deployment.RunScript)
	}
}

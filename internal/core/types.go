package core

import "time"

// Stage names, in mandatory execution order.
const (
	StageRequirementAnalysis = "requirement_analysis"
	StageCodeGeneration      = "code_generation"
	StageCodeReview          = "code_review"
	StageDocumentation       = "documentation"
	StageTestGeneration      = "test_generation"
	StageDeployment          = "deployment"
)

// PipelineOrder is the strict stage sequence. It is fixed; stages can
// never be reordered or skipped.
var PipelineOrder = []string{
	StageRequirementAnalysis,
	StageCodeGeneration,
	StageCodeReview,
	StageDocumentation,
	StageTestGeneration,
	StageDeployment,
}

// Status is the terminal state of a pipeline run. Once a run leaves
// StatusPending it never changes again.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusStopped   Status = "stopped"
	StatusFailed    Status = "failed"
	StatusError     Status = "error"
)

// Requirements is the structured output of requirement analysis. It is
// produced once and treated as immutable by every downstream stage.
type Requirements struct {
	Functional    []string `json:"functional_requirements" yaml:"functional_requirements"`
	NonFunctional []string `json:"non_functional_requirements" yaml:"non_functional_requirements"`
	Assumptions   []string `json:"assumptions" yaml:"assumptions"`
	Constraints   []string `json:"constraints" yaml:"constraints"`

	// Ambiguity metadata is advisory output for the UI layer. The
	// orchestrator never reads these fields.
	AmbiguityDetected   bool     `json:"ambiguity_detected,omitempty" yaml:"ambiguity_detected,omitempty"`
	AmbiguityNotes      string   `json:"ambiguity_notes,omitempty" yaml:"ambiguity_notes,omitempty"`
	ClarifyingQuestions []string `json:"clarifying_questions,omitempty" yaml:"clarifying_questions,omitempty"`
}

// DeploymentConfig holds the three deployment artifacts produced by the
// deployment stage.
type DeploymentConfig struct {
	Requirements      string `json:"requirements" yaml:"requirements"`
	SetupInstructions string `json:"setup_instructions" yaml:"setup_instructions"`
	RunScript         string `json:"run_script" yaml:"run_script"`
}

// FollowUp carries context from a previous run so a new prompt can build
// on earlier output. Only the previous code influences the pipeline: it
// seeds the first generation round when no review feedback exists yet.
type FollowUp struct {
	Active       bool
	PreviousCode string
}

// Result is the aggregated output of one pipeline execution.
type Result struct {
	RunID          string           `json:"run_id"`
	UserInput      string           `json:"user_input"`
	Requirements   *Requirements    `json:"requirements"`
	Code           string           `json:"code"`
	ReviewFeedback []string         `json:"review_feedback"`
	Documentation  string           `json:"documentation"`
	TestCode       string           `json:"test_cases"`
	Deployment     DeploymentConfig `json:"deployment_config"`
	Iterations     int              `json:"iterations"`
	Status         Status           `json:"status"`
	Err            string           `json:"error,omitempty"`
	Elapsed        time.Duration    `json:"execution_time"`
}

// candidate is one round's generated code with its provenance. Candidates
// live only inside the iteration loop; a single winner survives.
type candidate struct {
	code      string
	score     float64
	iteration int
}

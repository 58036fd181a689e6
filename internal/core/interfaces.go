package core

import "context"

// Analyst converts a raw natural-language request into structured
// requirements.
type Analyst interface {
	Analyze(ctx context.Context, userInput string, followUp *FollowUp) (*Requirements, error)
}

// Coder generates code from requirements, optionally steered by review
// feedback or by code from a previous run.
type Coder interface {
	GenerateCode(ctx context.Context, reqs *Requirements, feedback, previousCode string) (string, error)
}

// Reviewer judges generated code against the requirements. The approved
// flag signals that no further iteration is needed.
type Reviewer interface {
	Review(ctx context.Context, code string, reqs *Requirements) (approved bool, feedback string, err error)
}

// Documenter produces human-readable documentation for the final code.
type Documenter interface {
	GenerateDocumentation(ctx context.Context, code string, reqs *Requirements) (string, error)
}

// TestWriter produces executable test code for the final code.
type TestWriter interface {
	GenerateTests(ctx context.Context, code string, reqs *Requirements) (string, error)
}

// Deployer produces deployment artifacts for the final code.
type Deployer interface {
	GenerateDeploymentConfig(ctx context.Context, code string, reqs *Requirements) (DeploymentConfig, error)
}

// Agents bundles the six stage adapters consumed by the pipeline.
type Agents struct {
	Analyst    Analyst
	Coder      Coder
	Reviewer   Reviewer
	Documenter Documenter
	TestWriter TestWriter
	Deployer   Deployer
}

// ProgressFunc receives advisory progress updates. Percent is 0-100 and
// non-decreasing within a run. Absence changes no behavior.
type ProgressFunc func(percent int, message string)

// StopFunc is polled at stage and iteration boundaries for cooperative
// cancellation. Returning true halts the run before the next boundary.
type StopFunc func() bool

// EventSink receives pipeline telemetry. The pipeline never calls Event
// concurrently within one run.
type EventSink interface {
	Event(name string, attrs map[string]any)
}

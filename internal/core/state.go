package core

// pipelineState tracks one execution's progress through the stage
// sequence. A fresh instance is created per run and discarded with it;
// state is never shared across runs or persisted.
type pipelineState struct {
	currentStage string
	completed    []string
	outputs      map[string]any
}

func newPipelineState() *pipelineState {
	return &pipelineState{
		outputs: make(map[string]any),
	}
}

func (s *pipelineState) begin(stage string) {
	s.currentStage = stage
}

// complete records a stage's output and appends it to the completed
// sequence. The sequence is append-only.
func (s *pipelineState) complete(stage string, output any) {
	s.outputs[stage] = output
	s.completed = append(s.completed, stage)
}

func (s *pipelineState) isCompleted(stage string) bool {
	for _, name := range s.completed {
		if name == stage {
			return true
		}
	}
	return false
}

// assertCompleted is the defensive ordering check: the given stage and
// every stage before it in PipelineOrder must be present in the completed
// sequence before the next stage may start. Given that complete() appends
// immediately before this check runs, a failure here means the
// orchestrator itself is broken.
func (s *pipelineState) assertCompleted(stage string) error {
	for _, name := range PipelineOrder {
		if !s.isCompleted(name) {
			return &OrderingError{Stage: name}
		}
		if name == stage {
			return nil
		}
	}
	return &OrderingError{Stage: stage}
}

package core

import "log/slog"

// slogSink adapts a slog.Logger to the EventSink interface. It is the
// default sink when the host does not inject its own.
type slogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns an EventSink backed by the given logger.
func NewSlogSink(logger *slog.Logger) EventSink {
	return &slogSink{logger: logger.With("component", "pipeline")}
}

func (s *slogSink) Event(name string, attrs map[string]any) {
	args := make([]any, 0, len(attrs)*2)
	for k, v := range attrs {
		args = append(args, k, v)
	}
	s.logger.Info(name, args...)
}

package metrics

import "time"

// OutcomeLabel enumerates final build outcomes.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for document assembly.
type Recorder interface {
	ObserveAssembleDuration(d time.Duration)
	IncFragment()
	IncDirective(rule string)
	SetOutputBytes(n int)
	IncBuildOutcome(outcome OutcomeLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveAssembleDuration(time.Duration) {}
func (NoopRecorder) IncFragment()                          {}
func (NoopRecorder) IncDirective(string)                   {}
func (NoopRecorder) SetOutputBytes(int)                    {}
func (NoopRecorder) IncBuildOutcome(OutcomeLabel)          {}

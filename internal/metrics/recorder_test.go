package metrics

import "time"

// testRecorder counts calls; shared by tests in this package.
type testRecorder struct {
	durations  int
	fragments  int
	directives map[string]int
	bytes      int
	outcomes   map[OutcomeLabel]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{directives: map[string]int{}, outcomes: map[OutcomeLabel]int{}}
}

func (t *testRecorder) ObserveAssembleDuration(time.Duration) { t.durations++ }
func (t *testRecorder) IncFragment()                          { t.fragments++ }
func (t *testRecorder) IncDirective(rule string)              { t.directives[rule]++ }
func (t *testRecorder) SetOutputBytes(n int)                  { t.bytes = n }
func (t *testRecorder) IncBuildOutcome(o OutcomeLabel)        { t.outcomes[o]++ }

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Recorder = newTestRecorder()
)

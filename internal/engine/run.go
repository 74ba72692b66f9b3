package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle position of one state within a run.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ActionResult records one executed action.
type ActionResult struct {
	Label    string        `json:"label"`
	Command  string        `json:"command"`
	Success  bool          `json:"success"`
	Duration time.Duration `json:"duration"`
	Message  string        `json:"message,omitempty"`
}

// StateResult is the per-state outcome, owned by its Run. It is created
// when resolution reaches the state and finalized exactly once.
type StateResult struct {
	Name      string         `json:"name"`
	Status    Status         `json:"status"`
	Success   bool           `json:"success"`
	Message   string         `json:"message,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
	Deps      []string       `json:"deps,omitempty"`
	Actions   []ActionResult `json:"actions,omitempty"`
}

// Terminal reports whether the result reached Completed or Failed.
func (r *StateResult) Terminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

// Run holds everything one Resolve invocation produced. Presence in
// Results doubles as the visited guard, which is also what breaks
// dependency cycles. A Run lives for one invocation and is never
// persisted by the engine; the report layer snapshots it afterwards.
type Run struct {
	ID        string                  `json:"id"`
	Targets   []string                `json:"targets"`
	StartedAt time.Time               `json:"started_at"`
	Results   map[string]*StateResult `json:"results"`
	// Order is the completion order of states that entered processing.
	Order []string `json:"order"`
}

func NewRun() *Run {
	return &Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		Results:   make(map[string]*StateResult),
	}
}

// Result returns the recorded result for a state, or nil.
func (r *Run) Result(name string) *StateResult {
	return r.Results[name]
}

// Failed lists the names of states recorded as failed, in completion
// order where known.
func (r *Run) Failed() []string {
	var failed []string
	seen := make(map[string]bool)
	for _, name := range r.Order {
		if res := r.Results[name]; res != nil && res.Status == StatusFailed {
			failed = append(failed, name)
			seen[name] = true
		}
	}
	// States that failed before entering processing never made Order.
	var early []string
	for name, res := range r.Results {
		if res.Status == StatusFailed && !seen[name] {
			early = append(early, name)
		}
	}
	sort.Strings(early)
	return append(failed, early...)
}

// Elapsed is the wall-clock span of the whole run so far.
func (r *Run) Elapsed() time.Duration {
	return time.Since(r.StartedAt)
}

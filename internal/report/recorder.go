package report

import (
	"fmt"
	"sync"
	"time"

	"github.com/melih-ucgun/rigup/internal/core"
)

// Event is one timestamped lifecycle entry in a run's timeline.
type Event struct {
	At     time.Time `json:"at"`
	Kind   string    `json:"kind"`
	State  string    `json:"state"`
	Detail string    `json:"detail,omitempty"`
}

// Recorder is a core.Observer that captures the event timeline for the
// run record. It is usually fanned in next to a rendering theme via
// core.MultiObserver.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	now    func() time.Time
}

var _ core.Observer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Events returns the captured timeline.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) add(kind, state, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{At: r.now(), Kind: kind, State: state, Detail: detail})
}

func (r *Recorder) StateStarted(name string, deps []string) {
	r.add("state_started", name, fmt.Sprintf("deps=%v", deps))
}

func (r *Recorder) CheckPerformed(name, kind, detail string) {
	r.add("check", name, kind+" "+detail)
}

func (r *Recorder) CheckResult(name string, ready bool, kind, info string) {
	r.add("check_result", name, fmt.Sprintf("ready=%v %s", ready, info))
}

func (r *Recorder) ActionsStarted(name string, count int) {
	r.add("actions_started", name, fmt.Sprintf("count=%d", count))
}

func (r *Recorder) ActionStarted(info core.ActionInfo) {
	r.add("action_started", info.State, info.Label)
}

func (r *Recorder) ActionCompleted(info core.ActionInfo, ok bool, errMsg string, elapsed time.Duration) {
	detail := fmt.Sprintf("ok=%v %s", ok, info.Label)
	if errMsg != "" {
		detail += " (" + errMsg + ")"
	}
	r.add("action_completed", info.State, detail)
}

func (r *Recorder) StateCompleted(name string, success bool, errMsg string, elapsed time.Duration) {
	detail := fmt.Sprintf("success=%v in %s", success, elapsed.Round(time.Millisecond))
	if errMsg != "" {
		detail += ": " + errMsg
	}
	r.add("state_completed", name, detail)
}

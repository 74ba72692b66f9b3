package core

import "time"

// ActionInfo identifies one action event. Index is 1-based for declared
// actions; the readiness wait phase reports Index 0 so renderers can tell
// the two apart.
type ActionInfo struct {
	State string
	Index int
	Total int
	Label string
}

// Wait reports whether the event belongs to the readiness wait phase.
func (i ActionInfo) Wait() bool { return i.Index == 0 }

// Observer receives resolution lifecycle events. The engine never formats
// or prints anything itself; every renderer, recorder, or test double
// plugs in here.
type Observer interface {
	// StateStarted fires when a state enters processing, after its
	// dependencies resolved.
	StateStarted(name string, deps []string)
	// CheckPerformed fires before the pre-check probe runs.
	CheckPerformed(name, kind, detail string)
	// CheckResult fires with the pre-check outcome.
	CheckResult(name string, ready bool, kind, info string)
	// ActionsStarted fires once before a state's action list runs.
	ActionsStarted(name string, count int)
	// ActionStarted fires before each action, and once before a readiness
	// wait begins (Index 0).
	ActionStarted(info ActionInfo)
	// ActionCompleted fires after each action, and exactly once when a
	// readiness wait exits, carrying the aggregate outcome.
	ActionCompleted(info ActionInfo, ok bool, errMsg string, elapsed time.Duration)
	// StateCompleted fires exactly once per started state when it reaches
	// a terminal status.
	StateCompleted(name string, success bool, errMsg string, elapsed time.Duration)
}

// NopObserver discards every event.
type NopObserver struct{}

var _ Observer = (*NopObserver)(nil)

func (NopObserver) StateStarted(string, []string)                         {}
func (NopObserver) CheckPerformed(string, string, string)                 {}
func (NopObserver) CheckResult(string, bool, string, string)              {}
func (NopObserver) ActionsStarted(string, int)                            {}
func (NopObserver) ActionStarted(ActionInfo)                              {}
func (NopObserver) ActionCompleted(ActionInfo, bool, string, time.Duration) {}
func (NopObserver) StateCompleted(string, bool, string, time.Duration)    {}

// MultiObserver fans every event out to each member in order.
type MultiObserver []Observer

var _ Observer = (MultiObserver)(nil)

func (m MultiObserver) StateStarted(name string, deps []string) {
	for _, o := range m {
		o.StateStarted(name, deps)
	}
}

func (m MultiObserver) CheckPerformed(name, kind, detail string) {
	for _, o := range m {
		o.CheckPerformed(name, kind, detail)
	}
}

func (m MultiObserver) CheckResult(name string, ready bool, kind, info string) {
	for _, o := range m {
		o.CheckResult(name, ready, kind, info)
	}
}

func (m MultiObserver) ActionsStarted(name string, count int) {
	for _, o := range m {
		o.ActionsStarted(name, count)
	}
}

func (m MultiObserver) ActionStarted(info ActionInfo) {
	for _, o := range m {
		o.ActionStarted(info)
	}
}

func (m MultiObserver) ActionCompleted(info ActionInfo, ok bool, errMsg string, elapsed time.Duration) {
	for _, o := range m {
		o.ActionCompleted(info, ok, errMsg, elapsed)
	}
}

func (m MultiObserver) StateCompleted(name string, success bool, errMsg string, elapsed time.Duration) {
	for _, o := range m {
		o.StateCompleted(name, success, errMsg, elapsed)
	}
}

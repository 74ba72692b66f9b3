// Package engine resolves a target state and its transitive dependencies:
// depth-first, single-threaded, with pre-check / action / wait phases per
// state and memoized results per run.
package engine

import (
	"fmt"
	"time"

	"github.com/melih-ucgun/rigup/internal/core"
)

// Checker is the slice of the readiness layer the resolver needs.
type Checker interface {
	PreCheck(st *core.State) bool
	WaitForReady(st *core.State) bool
}

// Resolver walks the state graph. One Resolver owns one Run; results are
// memoized per name, so repeated Resolve calls on the same name replay
// the recorded outcome without re-running checks or actions.
type Resolver struct {
	graph    map[string]*core.State
	checker  Checker
	executor core.ActionExecutor
	obs      core.Observer
	sys      *core.SystemContext
	run      *Run

	now func() time.Time
}

func New(graph map[string]*core.State, checker Checker, executor core.ActionExecutor, obs core.Observer, sys *core.SystemContext) *Resolver {
	if obs == nil {
		obs = core.NopObserver{}
	}
	return &Resolver{
		graph:    graph,
		checker:  checker,
		executor: executor,
		obs:      obs,
		sys:      sys,
		run:      NewRun(),
		now:      time.Now,
	}
}

// Run exposes the accumulated results for reporting.
func (r *Resolver) Run() *Run { return r.run }

// Resolve brings the named state up, dependencies first, and reports
// overall success. Rich diagnostics stay on the Run; the boolean is the
// only mandatory signal.
func (r *Resolver) Resolve(name string) bool {
	r.run.Targets = append(r.run.Targets, name)
	return r.resolve(name)
}

func (r *Resolver) resolve(name string) bool {
	if res, ok := r.run.Results[name]; ok {
		if res.Status == StatusProcessing {
			// Revisit of an in-flight state: a dependency cycle. The prior
			// visit is treated as already handled rather than an error.
			r.sys.Log.Warn("dependency cycle detected, treating as handled", "state", name)
			return true
		}
		return res.Success
	}

	st, ok := r.graph[name]
	if !ok {
		return r.record(name, "Unknown state: "+name)
	}
	if err := st.Validate(); err != nil {
		return r.record(name, err.Error())
	}

	res := &StateResult{Name: name, Status: StatusProcessing}
	r.run.Results[name] = res

	if st.When != "" {
		met, err := EvaluateCondition(st.When, r.conditionEnv())
		if err != nil {
			return r.abort(res, fmt.Sprintf("Condition error: %v", err))
		}
		if !met {
			res.StartedAt = r.now()
			r.obs.StateStarted(name, st.DependsOn)
			r.finalize(res, true, "skipped: condition not met")
			return true
		}
	}

	for _, dep := range st.DependsOn {
		if !r.resolve(dep) {
			return r.abort(res, fmt.Sprintf("Dependency %s failed", dep))
		}
		res.Deps = append(res.Deps, dep)
	}

	res.StartedAt = r.now()
	r.obs.StateStarted(name, st.DependsOn)

	if probe := st.Readiness.PreCheckProbe(); probe != nil {
		r.obs.CheckPerformed(name, probe.Kind(), probe.Target())
		ready := r.checker.PreCheck(st)
		r.obs.CheckResult(name, ready, probe.Kind(), probe.Target())
		if ready {
			r.finalize(res, true, "already ready")
			return true
		}
	}

	if len(st.Actions) > 0 {
		r.obs.ActionsStarted(name, len(st.Actions))
		for i := range st.Actions {
			a := &st.Actions[i]
			info := core.ActionInfo{State: name, Index: i + 1, Total: len(st.Actions), Label: a.Label()}
			r.obs.ActionStarted(info)

			started := r.now()
			ok, msg := r.executor.Execute(a)
			elapsed := r.now().Sub(started)

			res.Actions = append(res.Actions, ActionResult{
				Label:    a.Label(),
				Command:  a.CommandLine(),
				Success:  ok,
				Duration: elapsed,
				Message:  msg,
			})
			r.obs.ActionCompleted(info, ok, msg, elapsed)

			if !ok {
				r.finalize(res, false, fmt.Sprintf("Action failed in state %s", name))
				return false
			}
		}
	}

	if st.Readiness.WaitProbe() != nil && !r.sys.DryRun {
		if !r.checker.WaitForReady(st) {
			r.finalize(res, false, fmt.Sprintf("State %s failed to become ready", name))
			return false
		}
	}

	r.finalize(res, true, "")
	return true
}

// Complete finalizes a state's result as successful. Finalization is
// idempotent, so completing an already-terminal state changes nothing
// and emits no second event.
func (r *Resolver) Complete(name string) {
	if res, ok := r.run.Results[name]; ok {
		r.finalize(res, true, "")
	}
}

// record notes a failure for a state that never began processing
// (unknown name, invalid definition). No lifecycle events fire.
func (r *Resolver) record(name, msg string) bool {
	r.run.Results[name] = &StateResult{Name: name, Status: StatusFailed, Message: msg}
	return false
}

// abort fails a state before it entered processing (dependency failure,
// condition error). The state never started, so no events fire.
func (r *Resolver) abort(res *StateResult, msg string) bool {
	res.Status = StatusFailed
	res.Success = false
	res.Message = msg
	return false
}

// finalize moves a result to its terminal status exactly once: duration
// fixed from processing start, completion order appended, one
// StateCompleted event. Re-finalizing a terminal result is a no-op.
func (r *Resolver) finalize(res *StateResult, success bool, msg string) {
	if res.Terminal() {
		return
	}
	if success {
		res.Status = StatusCompleted
	} else {
		res.Status = StatusFailed
	}
	res.Success = success
	res.Message = msg
	res.Duration = r.now().Sub(res.StartedAt)
	r.run.Order = append(r.run.Order, res.Name)
	r.obs.StateCompleted(res.Name, success, msg, res.Duration)
}

func (r *Resolver) conditionEnv() map[string]any {
	env := r.sys.FactMap()
	env["vars"] = r.sys.Vars
	env["env"] = r.sys.Env
	return env
}

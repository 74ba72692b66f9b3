// Package poll implements the bounded retry loop shared by every
// readiness wait. It is the only place in the engine allowed to sleep.
package poll

import (
	"fmt"
	"time"

	"github.com/melih-ucgun/rigup/internal/core"
)

// Options bound one polling run.
type Options struct {
	MaxRetries        int
	Interval          time.Duration
	RequiredSuccesses int
	MaxTotal          time.Duration
}

// FromReadiness converts a state's readiness numbers into poll options,
// filling unset fields with the documented defaults.
func FromReadiness(r *core.Readiness) Options {
	var rr core.Readiness
	if r != nil {
		rr = *r
	}
	rr.Normalize()
	return Options{
		MaxRetries:        rr.MaxRetries,
		Interval:          time.Duration(rr.IntervalSeconds) * time.Second,
		RequiredSuccesses: rr.RequiredSuccesses,
		MaxTotal:          time.Duration(rr.TimeoutSeconds) * time.Second,
	}
}

// Outcome aggregates one polling run.
type Outcome struct {
	Ready    bool
	Attempts int
	Elapsed  time.Duration
	// Reason carries the failure detail: "Timed out after {N}s" or
	// "Max retries ({N}) exceeded". Empty on success.
	Reason string
}

// Poller drives a boolean probe with retry, timeout and
// consecutive-success semantics. Now and Sleep are seams for tests.
type Poller struct {
	Log      core.Logger
	Observer core.Observer
	Now      func() time.Time
	Sleep    func(time.Duration)
}

func New(log core.Logger, obs core.Observer) *Poller {
	if obs == nil {
		obs = core.NopObserver{}
	}
	return &Poller{
		Log:      log,
		Observer: obs,
		Now:      time.Now,
		Sleep:    time.Sleep,
	}
}

// Run polls probe until RequiredSuccesses consecutive true results arrive,
// the total time budget is spent, or the retry budget is spent — in that
// decision order after every attempt. The observer sees exactly two
// events: one before the first attempt and one at exit with the aggregate
// outcome; individual attempts surface only at debug level. A failed probe
// resets the consecutive counter, so non-consecutive successes never
// accumulate. The loop never sleeps after its final attempt.
func (p *Poller) Run(state, label string, probe func() bool, opts Options) Outcome {
	info := core.ActionInfo{State: state, Index: 0, Total: 0, Label: label}
	p.Observer.ActionStarted(info)

	start := p.Now()
	consecutive := 0
	attempt := 0

	var out Outcome
	for {
		attempt++
		ok := probe()
		if ok {
			consecutive++
		} else {
			consecutive = 0
		}
		if p.Log != nil {
			p.Log.Debug(fmt.Sprintf("poll %s: attempt %d/%d ok=%v streak=%d/%d",
				state, attempt, opts.MaxRetries, ok, consecutive, opts.RequiredSuccesses))
		}

		if consecutive >= opts.RequiredSuccesses {
			out = Outcome{Ready: true, Attempts: attempt, Elapsed: p.Now().Sub(start)}
			break
		}

		elapsed := p.Now().Sub(start)
		if elapsed >= opts.MaxTotal {
			out = Outcome{
				Attempts: attempt,
				Elapsed:  elapsed,
				Reason:   fmt.Sprintf("Timed out after %ds", int(elapsed.Seconds())),
			}
			break
		}
		if attempt >= opts.MaxRetries {
			out = Outcome{
				Attempts: attempt,
				Elapsed:  elapsed,
				Reason:   fmt.Sprintf("Max retries (%d) exceeded", opts.MaxRetries),
			}
			break
		}

		p.Sleep(opts.Interval)
	}

	p.Observer.ActionCompleted(info, out.Ready, out.Reason, out.Elapsed)
	return out
}

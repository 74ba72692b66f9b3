package poll_test

import (
	"strings"
	"testing"
	"time"

	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/melih-ucgun/rigup/internal/poll"
)

// fakeClock advances only when the poller sleeps.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

// eventSink records action events; everything else is discarded.
type eventSink struct {
	core.NopObserver
	started   []core.ActionInfo
	completed []core.ActionInfo
	lastOK    bool
	lastMsg   string
}

func (s *eventSink) ActionStarted(info core.ActionInfo) {
	s.started = append(s.started, info)
}

func (s *eventSink) ActionCompleted(info core.ActionInfo, ok bool, errMsg string, _ time.Duration) {
	s.completed = append(s.completed, info)
	s.lastOK = ok
	s.lastMsg = errMsg
}

func newPoller(sink *eventSink) (*poll.Poller, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	p := poll.New(nil, sink)
	p.Now = clock.Now
	p.Sleep = clock.Sleep
	return p, clock
}

func seqProbe(results ...bool) func() bool {
	i := 0
	return func() bool {
		r := results[i%len(results)]
		i++
		return r
	}
}

func TestRunImmediateSuccess(t *testing.T) {
	sink := &eventSink{}
	p, clock := newPoller(sink)

	out := p.Run("docker", "waiting for docker", seqProbe(true), poll.Options{
		MaxRetries:        10,
		Interval:          3 * time.Second,
		RequiredSuccesses: 1,
		MaxTotal:          30 * time.Second,
	})

	if !out.Ready || out.Attempts != 1 {
		t.Fatalf("want ready on attempt 1, got %+v", out)
	}
	if len(clock.slept) != 0 {
		t.Errorf("no sleep expected, got %v", clock.slept)
	}
	if len(sink.started) != 1 || len(sink.completed) != 1 {
		t.Errorf("want exactly one started and one completed event, got %d/%d",
			len(sink.started), len(sink.completed))
	}
	if !sink.started[0].Wait() {
		t.Error("wait-phase events must carry index 0")
	}
}

func TestRunConsecutiveReset(t *testing.T) {
	// true, false, true, true with two required successes: the middle
	// failure resets the streak, so success lands on attempt 4.
	sink := &eventSink{}
	p, _ := newPoller(sink)

	calls := 0
	probe := func() bool {
		calls++
		return []bool{true, false, true, true}[calls-1]
	}

	out := p.Run("api", "waiting for api", probe, poll.Options{
		MaxRetries:        10,
		Interval:          time.Second,
		RequiredSuccesses: 2,
		MaxTotal:          time.Hour,
	})

	if !out.Ready {
		t.Fatalf("want ready, got %+v", out)
	}
	if calls != 4 || out.Attempts != 4 {
		t.Errorf("want 4 attempts, got calls=%d attempts=%d", calls, out.Attempts)
	}
}

func TestRunMaxRetriesExceeded(t *testing.T) {
	sink := &eventSink{}
	p, clock := newPoller(sink)

	out := p.Run("db", "waiting for db", seqProbe(false), poll.Options{
		MaxRetries:        3,
		Interval:          time.Second,
		RequiredSuccesses: 1,
		MaxTotal:          time.Hour,
	})

	if out.Ready {
		t.Fatal("want failure")
	}
	if out.Attempts != 3 {
		t.Errorf("want exactly 3 attempts, got %d", out.Attempts)
	}
	if len(clock.slept) != 2 {
		t.Errorf("want 2 sleeps (never after the final attempt), got %d", len(clock.slept))
	}
	if out.Reason != "Max retries (3) exceeded" {
		t.Errorf("reason = %q", out.Reason)
	}
	if sink.lastOK || sink.lastMsg != out.Reason {
		t.Errorf("completion event mismatch: ok=%v msg=%q", sink.lastOK, sink.lastMsg)
	}
}

func TestRunTimeoutBeatsRetries(t *testing.T) {
	// One-second budget with a ten-second interval: the second attempt
	// sees elapsed past the budget and must report time, not retries.
	sink := &eventSink{}
	p, _ := newPoller(sink)

	out := p.Run("web", "waiting for web", seqProbe(false), poll.Options{
		MaxRetries:        100,
		Interval:          10 * time.Second,
		RequiredSuccesses: 1,
		MaxTotal:          time.Second,
	})

	if out.Ready {
		t.Fatal("want failure")
	}
	if !strings.HasPrefix(out.Reason, "Timed out after ") {
		t.Errorf("want a timeout reason, got %q", out.Reason)
	}
	if out.Attempts != 2 {
		t.Errorf("want 2 attempts, got %d", out.Attempts)
	}
}

func TestRunRequiredSuccessesRunOfThree(t *testing.T) {
	sink := &eventSink{}
	p, clock := newPoller(sink)

	out := p.Run("cache", "waiting for cache", seqProbe(true), poll.Options{
		MaxRetries:        10,
		Interval:          2 * time.Second,
		RequiredSuccesses: 3,
		MaxTotal:          time.Hour,
	})

	if !out.Ready || out.Attempts != 3 {
		t.Fatalf("want ready after 3 straight successes, got %+v", out)
	}
	if len(clock.slept) != 2 {
		t.Errorf("want 2 sleeps, got %d", len(clock.slept))
	}
	// Events stay aggregate regardless of attempt count.
	if len(sink.started) != 1 || len(sink.completed) != 1 {
		t.Errorf("attempts leaked into observer: %d/%d", len(sink.started), len(sink.completed))
	}
}

func TestFromReadinessDefaults(t *testing.T) {
	opts := poll.FromReadiness(nil)
	if opts.MaxRetries != 10 || opts.Interval != 3*time.Second ||
		opts.RequiredSuccesses != 1 || opts.MaxTotal != 30*time.Second {
		t.Errorf("defaults not applied: %+v", opts)
	}

	opts = poll.FromReadiness(&core.Readiness{MaxRetries: 5, TimeoutSeconds: 120})
	if opts.MaxRetries != 5 || opts.MaxTotal != 120*time.Second {
		t.Errorf("explicit values lost: %+v", opts)
	}
	if opts.Interval != 3*time.Second || opts.RequiredSuccesses != 1 {
		t.Errorf("partial defaults not applied: %+v", opts)
	}
}

package readiness_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/melih-ucgun/rigup/internal/readiness"
	"github.com/melih-ucgun/rigup/internal/transport"
)

func quietContext(tr core.Transport) *core.SystemContext {
	return core.NewSystemContext(false, tr, core.NewDefaultLogger(io.Discard, core.LevelError))
}

// fastClock makes the checker's poller advance virtual time instead of
// sleeping.
func fastClock(c *readiness.Checker) {
	now := time.Unix(0, 0)
	c.Poller.Now = func() time.Time { return now }
	c.Poller.Sleep = func(d time.Duration) { now = now.Add(d) }
}

// scriptedTransport returns one canned reply per call, clamping at the
// last entry.
type scriptedTransport struct {
	outs  []string
	errs  []error
	calls int
}

func (s *scriptedTransport) Execute(ctx context.Context, cmd string) (string, error) {
	return s.ExecuteIn(ctx, "", cmd)
}

func (s *scriptedTransport) ExecuteIn(ctx context.Context, dir, cmd string) (string, error) {
	i := s.calls
	s.calls++
	if i >= len(s.outs) {
		i = len(s.outs) - 1
	}
	var err error
	if len(s.errs) > 0 {
		j := i
		if j >= len(s.errs) {
			j = len(s.errs) - 1
		}
		err = s.errs[j]
	}
	return s.outs[i], err
}

func (s *scriptedTransport) FileSystem() core.FileSystem { return nil }
func (s *scriptedTransport) Describe() string            { return "scripted" }
func (s *scriptedTransport) Close() error                { return nil }

func TestContainsErrorIndicator(t *testing.T) {
	tests := []struct {
		output  string
		flagged bool
	}{
		{"Server Version: 27.0.3", false},
		{"3 containers running", false},
		{"Error: something broke", true},
		{"ERROR", true},
		{"docker: command not found", true},
		{"Unable to connect to the daemon", true},
		{"FAILED to start unit", true},
		{"failure imminent", true}, // "fail" matches inside longer words
		{"cat: /tmp/x: no such file or directory", true},
		{"dial tcp 127.0.0.1:5432: connection refused", true},
		{"", false},
	}

	for _, tt := range tests {
		if got := readiness.ContainsErrorIndicator(tt.output); got != tt.flagged {
			t.Errorf("ContainsErrorIndicator(%q) = %v, want %v", tt.output, got, tt.flagged)
		}
	}
}

func TestPreCheckCommandProbe(t *testing.T) {
	t.Run("clean output is ready", func(t *testing.T) {
		tr := transport.NewMock()
		tr.AddResponse("docker info", "Server Version: 27.0.3")
		c := readiness.NewChecker(quietContext(tr), nil, 0)

		st := &core.State{Name: "docker", Readiness: &core.Readiness{
			Check: &core.Probe{Command: "docker info"},
		}}
		if !c.PreCheck(st) {
			t.Error("clean exit-0 output should be ready")
		}
	})

	t.Run("exit 0 with diagnostic output is not ready", func(t *testing.T) {
		tr := transport.NewMock()
		tr.AddResponse("docker info", "Error: connection refused")
		c := readiness.NewChecker(quietContext(tr), nil, 0)

		st := &core.State{Name: "docker", Readiness: &core.Readiness{
			Check: &core.Probe{Command: "docker info"},
		}}
		if c.PreCheck(st) {
			t.Error("diagnostic output must read as not-ready even on exit 0")
		}
	})

	t.Run("command error is not ready", func(t *testing.T) {
		tr := transport.NewMock()
		tr.AddError("docker info", context.DeadlineExceeded)
		c := readiness.NewChecker(quietContext(tr), nil, 0)

		st := &core.State{Name: "docker", Readiness: &core.Readiness{
			Check: &core.Probe{Command: "docker info"},
		}}
		if c.PreCheck(st) {
			t.Error("failed command must read as not-ready")
		}
	})
}

func TestPreCheckEndpointProbe(t *testing.T) {
	t.Run("any completed response is ready", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := readiness.NewChecker(quietContext(transport.NewMock()), nil, 0)
		st := &core.State{Name: "api", Readiness: &core.Readiness{
			Wait: &core.Probe{Endpoint: srv.URL},
		}}
		if !c.PreCheck(st) {
			t.Error("a completed 500 response still counts as ready")
		}
	})

	t.Run("connection error is not ready", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := readiness.NewChecker(quietContext(transport.NewMock()), nil, 0)
		st := &core.State{Name: "api", Readiness: &core.Readiness{
			Wait: &core.Probe{Endpoint: url},
		}}
		if c.PreCheck(st) {
			t.Error("refused connection must read as not-ready")
		}
	})
}

func TestPreCheckPrefersWaitEndpoint(t *testing.T) {
	var checkHits, waitHits atomic.Int32
	checkSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkHits.Add(1)
	}))
	defer checkSrv.Close()
	waitSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		waitHits.Add(1)
	}))
	defer waitSrv.Close()

	c := readiness.NewChecker(quietContext(transport.NewMock()), nil, 0)
	st := &core.State{Name: "api", Readiness: &core.Readiness{
		Check: &core.Probe{Endpoint: checkSrv.URL},
		Wait:  &core.Probe{Endpoint: waitSrv.URL},
	}}

	if !c.PreCheck(st) {
		t.Fatal("pre-check should succeed")
	}
	if waitHits.Load() != 1 || checkHits.Load() != 0 {
		t.Errorf("wait endpoint is authoritative: wait=%d check=%d", waitHits.Load(), checkHits.Load())
	}
}

func TestPreCheckWithoutProbes(t *testing.T) {
	c := readiness.NewChecker(quietContext(transport.NewMock()), nil, 0)
	st := &core.State{Name: "deps", Actions: []core.Action{{Kind: core.ActionCommand, Run: "npm install"}}}
	if c.PreCheck(st) {
		t.Error("no probe means not satisfied; actions must run")
	}
}

func TestWaitForReadyThirdAttempt(t *testing.T) {
	tr := &scriptedTransport{outs: []string{
		"Error: not up yet",
		"Error: not up yet",
		"200 OK",
	}}
	c := readiness.NewChecker(quietContext(tr), nil, 0)
	fastClock(c)

	st := &core.State{Name: "web", Readiness: &core.Readiness{
		Wait: &core.Probe{Command: "curl -s localhost:3000"},
	}}

	if !c.WaitForReady(st) {
		t.Fatal("probe succeeds on attempt 3, wait should report ready")
	}
	if tr.calls != 3 {
		t.Errorf("want 3 attempts, got %d", tr.calls)
	}
}

func TestWaitForReadyExhaustsRetries(t *testing.T) {
	tr := &scriptedTransport{outs: []string{"Error: still down"}}
	c := readiness.NewChecker(quietContext(tr), nil, 0)
	fastClock(c)

	st := &core.State{Name: "db", Readiness: &core.Readiness{
		Wait:       &core.Probe{Command: "pg_isready"},
		MaxRetries: 4,
	}}

	if c.WaitForReady(st) {
		t.Fatal("probe never succeeds, wait must fail")
	}
	if tr.calls != 4 {
		t.Errorf("want exactly 4 attempts, got %d", tr.calls)
	}
}

func TestWaitCommandCheckNotReused(t *testing.T) {
	// A command check probe never carries over into the wait phase.
	tr := transport.NewMock()
	c := readiness.NewChecker(quietContext(tr), nil, 0)

	st := &core.State{
		Name:      "tooling",
		Actions:   []core.Action{{Kind: core.ActionCommand, Run: "make setup"}},
		Readiness: &core.Readiness{Check: &core.Probe{Command: "which make"}},
	}

	if !c.WaitForReady(st) {
		t.Error("no wait probe: nothing to confirm, report ready")
	}
	if len(tr.Calls) != 0 {
		t.Errorf("check command must not be polled, saw %v", tr.Calls)
	}
}

func TestWaitFallsBackToCheckEndpoint(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := readiness.NewChecker(quietContext(transport.NewMock()), nil, 0)
	fastClock(c)

	st := &core.State{Name: "api", Readiness: &core.Readiness{
		Check: &core.Probe{Endpoint: srv.URL},
	}}

	if !c.WaitForReady(st) {
		t.Fatal("endpoint check probe should carry over into the wait phase")
	}
	if hits.Load() != 1 {
		t.Errorf("want one probe hit, got %d", hits.Load())
	}
}

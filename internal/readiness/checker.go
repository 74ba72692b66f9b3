// Package readiness decides whether a state is already satisfied
// (pre-check) or becomes satisfied after its actions ran (polled wait).
package readiness

import (
	"fmt"
	"net/http"
	"time"

	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/melih-ucgun/rigup/internal/poll"
)

// DefaultHTTPTimeout bounds a single endpoint probe.
const DefaultHTTPTimeout = 5 * time.Second

// Checker evaluates probes through the system transport and HTTP client.
// Poller is exported so tests can replace its clock seams.
type Checker struct {
	Poller *poll.Poller

	sys  *core.SystemContext
	http *http.Client
}

func NewChecker(sys *core.SystemContext, obs core.Observer, httpTimeout time.Duration) *Checker {
	if httpTimeout <= 0 {
		httpTimeout = DefaultHTTPTimeout
	}
	return &Checker{
		Poller: poll.New(sys.Log, obs),
		sys:    sys,
		http:   &http.Client{Timeout: httpTimeout},
	}
}

// PreCheck answers "is this state already satisfied" with a single,
// instantaneous probe. No declared probe means not satisfied: the caller
// has to run actions.
func (c *Checker) PreCheck(st *core.State) bool {
	p := st.Readiness.PreCheckProbe()
	if p == nil {
		return false
	}
	return c.probe(p)
}

// WaitForReady polls the state's wait probe with its configured retry
// parameters. A state without a wait probe has nothing to confirm and
// reports ready.
func (c *Checker) WaitForReady(st *core.State) bool {
	p := st.Readiness.WaitProbe()
	if p == nil {
		return true
	}
	label := fmt.Sprintf("waiting for %s (%s)", st.Name, p.Target())
	out := c.Poller.Run(st.Name, label, func() bool { return c.probe(p) }, poll.FromReadiness(st.Readiness))
	return out.Ready
}

// probe evaluates a single probe once. Every failure mode — non-zero
// exit, diagnostic output, network trouble — collapses to not-ready;
// nothing escapes as an error.
func (c *Checker) probe(p *core.Probe) bool {
	if p.Endpoint != "" {
		return c.probeEndpoint(p.Endpoint)
	}
	return c.probeCommand(p.Command)
}

func (c *Checker) probeEndpoint(url string) bool {
	req, err := http.NewRequestWithContext(c.sys, http.MethodGet, url, nil)
	if err != nil {
		c.sys.Log.Debug("endpoint probe rejected", "url", url, "error", err)
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.sys.Log.Debug("endpoint probe failed", "url", url, "error", err)
		return false
	}
	// Any completed response counts as ready; the status code is not
	// inspected.
	resp.Body.Close()
	return true
}

func (c *Checker) probeCommand(cmdline string) bool {
	out, err := c.sys.Transport.Execute(c.sys, cmdline)
	if err != nil {
		c.sys.Log.Debug("command probe failed", "cmd", cmdline, "error", err)
		return false
	}
	if ContainsErrorIndicator(out) {
		c.sys.Log.Debug("command probe output flagged", "cmd", cmdline)
		return false
	}
	return true
}

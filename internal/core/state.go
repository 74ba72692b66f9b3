package core

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ActionKind separates shell commands from application launches.
type ActionKind string

const (
	ActionCommand ActionKind = "command"
	ActionApp     ActionKind = "app"
)

// LaunchMode controls how an action's process is attached to the user.
type LaunchMode string

const (
	// ModeConsole runs attached to the current console and waits.
	ModeConsole LaunchMode = "console"
	// ModeWindow spawns the command in a new terminal window, detached.
	ModeWindow LaunchMode = "window"
	// ModeGUI launches a graphical application or URL, detached.
	ModeGUI LaunchMode = "gui"
)

// Probe kinds.
const (
	ProbeCommand  = "command"
	ProbeEndpoint = "endpoint"
)

// Readiness polling defaults, applied wherever a field is left zero.
const (
	DefaultMaxRetries        = 10
	DefaultIntervalSeconds   = 3
	DefaultRequiredSuccesses = 1
	DefaultTimeoutSeconds    = 30
)

// State is one named unit of bring-up work: dependencies, an optional
// readiness probe pair, and/or ordered actions. Immutable after config load.
type State struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	DependsOn   []string   `yaml:"depends_on"`
	When        string     `yaml:"when"`
	Dir         string     `yaml:"dir"`
	Readiness   *Readiness `yaml:"readiness"`
	Actions     []Action   `yaml:"actions"`
}

// Validate checks the definition's internal shape. A state must carry at
// least one action or one valid probe, probes must be command XOR endpoint,
// and each action must be complete for its kind.
func (s *State) Validate() error {
	if !s.HasProbe() && len(s.Actions) == 0 {
		return fmt.Errorf("state '%s' has no actions and no readiness probe", s.Name)
	}
	if s.Readiness != nil {
		for _, p := range []*Probe{s.Readiness.Check, s.Readiness.Wait} {
			if p != nil && p.Command != "" && p.Endpoint != "" {
				return fmt.Errorf("state '%s': probe must set command or endpoint, not both", s.Name)
			}
		}
	}
	for i := range s.Actions {
		if err := s.Actions[i].validate(); err != nil {
			return fmt.Errorf("state '%s': %w", s.Name, err)
		}
	}
	return nil
}

// HasProbe reports whether at least one valid probe is declared.
func (s *State) HasProbe() bool {
	return s.Readiness != nil && (s.Readiness.Check.valid() || s.Readiness.Wait.valid())
}

// Probe is a single readiness test: a shell command or an HTTP endpoint,
// mutually exclusive.
type Probe struct {
	Command  string `yaml:"command"`
	Endpoint string `yaml:"endpoint"`
}

func (p *Probe) valid() bool {
	return p != nil && (p.Command != "" || p.Endpoint != "")
}

// Kind returns ProbeEndpoint or ProbeCommand, or "" for an empty probe.
func (p *Probe) Kind() string {
	switch {
	case p == nil:
		return ""
	case p.Endpoint != "":
		return ProbeEndpoint
	case p.Command != "":
		return ProbeCommand
	}
	return ""
}

// Target returns what the probe points at, for logs and observers.
func (p *Probe) Target() string {
	if p == nil {
		return ""
	}
	if p.Endpoint != "" {
		return p.Endpoint
	}
	return p.Command
}

// Readiness pairs an instantaneous check probe with a post-action wait
// probe, plus the polling parameters shared by both.
type Readiness struct {
	Check *Probe `yaml:"check"`
	Wait  *Probe `yaml:"wait"`

	MaxRetries        int `yaml:"max_retries"`
	IntervalSeconds   int `yaml:"interval_seconds"`
	RequiredSuccesses int `yaml:"required_successes"`
	TimeoutSeconds    int `yaml:"timeout_seconds"`
}

// Normalize fills zero polling parameters with the documented defaults.
func (r *Readiness) Normalize() {
	if r == nil {
		return
	}
	if r.MaxRetries == 0 {
		r.MaxRetries = DefaultMaxRetries
	}
	if r.IntervalSeconds == 0 {
		r.IntervalSeconds = DefaultIntervalSeconds
	}
	if r.RequiredSuccesses == 0 {
		r.RequiredSuccesses = DefaultRequiredSuccesses
	}
	if r.TimeoutSeconds == 0 {
		r.TimeoutSeconds = DefaultTimeoutSeconds
	}
}

// PreCheckProbe selects the probe for the instantaneous pre-check.
// Endpoint probes win, and the wait endpoint is authoritative over the
// check endpoint ("is this truly ready" is what the wait target answers);
// otherwise the declared command probe is used.
func (r *Readiness) PreCheckProbe() *Probe {
	if r == nil {
		return nil
	}
	if r.Wait != nil && r.Wait.Endpoint != "" {
		return r.Wait
	}
	if r.Check != nil && r.Check.Endpoint != "" {
		return r.Check
	}
	if r.Check != nil && r.Check.Command != "" {
		return r.Check
	}
	if r.Wait != nil && r.Wait.Command != "" {
		return r.Wait
	}
	return nil
}

// WaitProbe selects the probe polled after actions run: the wait probe
// when declared, else the check probe only if it is endpoint-kind. A
// command check probe is never reused for waiting.
func (r *Readiness) WaitProbe() *Probe {
	if r == nil {
		return nil
	}
	if r.Wait.valid() {
		return r.Wait
	}
	if r.Check != nil && r.Check.Endpoint != "" {
		return r.Check
	}
	return nil
}

// Action is one command or application launch belonging to a state.
// In YAML it is either a bare command string or a full mapping.
type Action struct {
	Kind           ActionKind `yaml:"kind"`
	Name           string     `yaml:"name"`
	Run            string     `yaml:"run"`
	Path           string     `yaml:"path"`
	Args           []string   `yaml:"args"`
	Dir            string     `yaml:"dir"`
	Mode           LaunchMode `yaml:"mode"`
	TimeoutSeconds int        `yaml:"timeout_seconds"`
}

// UnmarshalYAML accepts the scalar shorthand ("npm install") as well as the
// structured mapping form.
func (a *Action) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var cmdline string
		if err := node.Decode(&cmdline); err != nil {
			return err
		}
		*a = Action{Kind: ActionCommand, Run: strings.TrimSpace(cmdline), Mode: ModeConsole}
		return nil
	}

	type plain Action // drops the method set so Decode doesn't recurse
	var raw plain
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*a = Action(raw)
	a.normalize()
	return nil
}

func (a *Action) normalize() {
	if a.Kind == "" {
		if a.Path != "" && a.Run == "" {
			a.Kind = ActionApp
		} else {
			a.Kind = ActionCommand
		}
	}
	if a.Mode == "" {
		a.Mode = ModeConsole
	}
}

func (a *Action) validate() error {
	switch a.Kind {
	case ActionCommand:
		if a.Run == "" {
			return fmt.Errorf("command action '%s' has nothing to run", a.Label())
		}
	case ActionApp:
		if a.Path == "" {
			return fmt.Errorf("app action '%s' has no path", a.Label())
		}
	default:
		return fmt.Errorf("unknown action kind '%s'", a.Kind)
	}
	switch a.Mode {
	case ModeConsole, ModeWindow, ModeGUI:
	default:
		return fmt.Errorf("unknown launch mode '%s'", a.Mode)
	}
	return nil
}

// Label returns the action's display name.
func (a *Action) Label() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Kind == ActionApp {
		return a.Path
	}
	return a.Run
}

// CommandLine returns what the action will execute, for records and logs.
func (a *Action) CommandLine() string {
	if a.Kind == ActionApp {
		if len(a.Args) == 0 {
			return a.Path
		}
		return a.Path + " " + strings.Join(a.Args, " ")
	}
	return a.Run
}

// Package config loads and validates the rigup.yaml state graph.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/melih-ucgun/rigup/internal/consts"
	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/melih-ucgun/rigup/internal/utils"
)

// Settings are the run-wide knobs.
type Settings struct {
	// DefaultTargets resolve when `up` is called without arguments.
	DefaultTargets []string `yaml:"default_targets"`
	Theme          string   `yaml:"theme"`
	// HTTPTimeoutSeconds bounds a single endpoint probe request.
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`
	// Shell overrides the sh -c wrapper for command actions and probes.
	Shell      []string `yaml:"shell"`
	ReportFile string   `yaml:"report_file"`
}

// Host describes an optional remote dev box reached over SSH.
type Host struct {
	Name           string `yaml:"name"`
	Addr           string `yaml:"addr"`
	User           string `yaml:"user"`
	Port           int    `yaml:"port"`
	KeyFile        string `yaml:"key_file"`
	KnownHostsFile string `yaml:"known_hosts_file"`
}

// Config is the parsed rigup.yaml.
type Config struct {
	Settings Settings          `yaml:"settings"`
	Vars     map[string]string `yaml:"vars"`
	EnvFiles []string          `yaml:"env_files"`
	Host     *Host             `yaml:"host"`
	States   []*core.State     `yaml:"states"`

	// BaseDir is the config file's directory; relative paths anchor here.
	BaseDir string `yaml:"-"`
}

// Load reads, parses and normalizes a config file. Validation is a
// separate step so doctor can report all findings instead of the first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.BaseDir = filepath.Dir(abs)
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	if c.Settings.Theme == "" {
		c.Settings.Theme = "default"
	}
	if c.Settings.HTTPTimeoutSeconds == 0 {
		c.Settings.HTTPTimeoutSeconds = 5
	}
	if c.Settings.ReportFile == "" {
		c.Settings.ReportFile = consts.RunLogPath()
	}
	if c.Vars == nil {
		c.Vars = make(map[string]string)
	}

	for _, st := range c.States {
		st.Readiness.Normalize()
		for i := range st.Actions {
			a := &st.Actions[i]
			if a.Kind == "" {
				if a.Path != "" && a.Run == "" {
					a.Kind = core.ActionApp
				} else {
					a.Kind = core.ActionCommand
				}
			}
			if a.Mode == "" {
				a.Mode = core.ModeConsole
			}
		}
	}
}

// Render expands {{ .vars.* }} / {{ .env.* }} templates in every command,
// path, directory and endpoint field, with host facts available too.
func (c *Config) Render(sys *core.SystemContext) error {
	data := map[string]any{
		"vars": c.Vars,
		"env":  sys.Env,
		"os":   sys.OS,
		"arch": sys.Arch,
	}

	render := func(field *string, where string) error {
		if *field == "" {
			return nil
		}
		out, err := core.ExecuteTemplate(*field, data)
		if err != nil {
			return fmt.Errorf("template in %s: %w", where, err)
		}
		*field = out
		return nil
	}

	for _, st := range c.States {
		if err := render(&st.Dir, "state "+st.Name+" dir"); err != nil {
			return err
		}
		if st.Readiness != nil {
			for _, p := range []*core.Probe{st.Readiness.Check, st.Readiness.Wait} {
				if p == nil {
					continue
				}
				if err := render(&p.Command, "state "+st.Name+" probe"); err != nil {
					return err
				}
				if err := render(&p.Endpoint, "state "+st.Name+" probe"); err != nil {
					return err
				}
			}
		}
		for i := range st.Actions {
			a := &st.Actions[i]
			where := fmt.Sprintf("state %s action %d", st.Name, i+1)
			if err := render(&a.Run, where); err != nil {
				return err
			}
			if err := render(&a.Path, where); err != nil {
				return err
			}
			if err := render(&a.Dir, where); err != nil {
				return err
			}
			for j := range a.Args {
				if err := render(&a.Args[j], where); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Validate checks the whole graph and returns every finding. remote marks
// a run that targets a remote host, where window/gui launches cannot work.
func (c *Config) Validate(remote bool) []error {
	var errs []error
	seen := make(map[string]bool)

	if !utils.IsOneOf(c.Settings.Theme, "default", "simple", "medium", "elaborate", "silent") {
		errs = append(errs, fmt.Errorf("unknown theme '%s'", c.Settings.Theme))
	}

	for _, st := range c.States {
		if !utils.IsValidName(st.Name) {
			errs = append(errs, fmt.Errorf("invalid state name '%s'", st.Name))
		}
		if seen[st.Name] {
			errs = append(errs, fmt.Errorf("duplicate state name '%s'", st.Name))
		}
		seen[st.Name] = true

		if err := st.Validate(); err != nil {
			errs = append(errs, err)
		}

		if remote {
			for i := range st.Actions {
				a := &st.Actions[i]
				if a.Mode != core.ModeConsole {
					errs = append(errs, fmt.Errorf("state '%s': %s action '%s' cannot open on a remote host", st.Name, a.Mode, a.Label()))
				}
			}
		}
	}

	for _, st := range c.States {
		for _, dep := range st.DependsOn {
			if !seen[dep] {
				errs = append(errs, fmt.Errorf("state '%s' depends on unknown state '%s'", st.Name, dep))
			}
		}
	}

	return errs
}

// Graph keys the states by name for the resolver.
func (c *Config) Graph() map[string]*core.State {
	graph := make(map[string]*core.State, len(c.States))
	for _, st := range c.States {
		graph[st.Name] = st
	}
	return graph
}

// Targets picks the states to resolve: explicit arguments win, then the
// configured defaults.
func (c *Config) Targets(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(c.Settings.DefaultTargets) > 0 {
		return c.Settings.DefaultTargets, nil
	}
	return nil, fmt.Errorf("no targets given and settings.default_targets is empty")
}

package core

import (
	"context"
	"os"
)

// SystemContext carries the run-time surroundings of one invocation: host
// facts, the execution transport, logging, and run modes. It wraps the
// standard context so it can flow into blocking calls directly.
type SystemContext struct {
	context.Context

	// Host facts, filled by system.Detect (or by the remote transport).
	OS       string // linux, darwin
	Arch     string // amd64, arm64
	Distro   string // ubuntu, arch, fedora
	Version  string // 24.04, rolling
	Hostname string
	Init     string // systemd, openrc, sysvinit

	User    string
	HomeDir string

	// BaseDir anchors relative action/state directories (the directory of
	// the loaded config file).
	BaseDir string

	// Env is the merged run environment: process env overlaid with the
	// declared env files. Vars are the config's template variables.
	Env  map[string]string
	Vars map[string]string

	DryRun bool

	Log       Logger
	Transport Transport
}

// NewSystemContext builds a context with process-level defaults. Transport
// stays nil until the caller wires one; Logger falls back to the default
// stderr logger.
func NewSystemContext(dryRun bool, tr Transport, log Logger) *SystemContext {
	if log == nil {
		log = NewDefaultLogger(os.Stderr, LevelInfo)
	}
	return &SystemContext{
		Context:   context.Background(),
		OS:        "unknown",
		Arch:      "unknown",
		User:      os.Getenv("USER"),
		HomeDir:   os.Getenv("HOME"),
		Env:       map[string]string{},
		Vars:      map[string]string{},
		DryRun:    dryRun,
		Log:       log,
		Transport: tr,
	}
}

// FactMap exposes the context as data for condition expressions and
// templates.
func (s *SystemContext) FactMap() map[string]any {
	return map[string]any{
		"os":       s.OS,
		"arch":     s.Arch,
		"distro":   s.Distro,
		"version":  s.Version,
		"hostname": s.Hostname,
		"init":     s.Init,
		"user":     s.User,
		"home":     s.HomeDir,
		"dry_run":  s.DryRun,
	}
}

package transport

import (
	"context"

	"github.com/melih-ucgun/rigup/internal/core"
)

// Local executes command lines on this machine through the global
// core.CommandRunner, so tests can stub the whole transport from outside.
type Local struct {
	Shell []string
	Env   map[string]string
	fs    core.FileSystem
}

var _ core.Transport = (*Local)(nil)

func NewLocal(shell []string, env map[string]string) *Local {
	return &Local{
		Shell: shell,
		Env:   env,
		fs:    &core.RealFS{},
	}
}

func (t *Local) Execute(ctx context.Context, cmdline string) (string, error) {
	return t.ExecuteIn(ctx, "", cmdline)
}

func (t *Local) ExecuteIn(ctx context.Context, dir, cmdline string) (string, error) {
	cmd := core.ShellCommand(ctx, t.Shell, dir, cmdline, t.Env)
	out, err := core.CommandRunner.CombinedOutput(cmd)
	return string(out), err
}

func (t *Local) FileSystem() core.FileSystem { return t.fs }

func (t *Local) Describe() string { return "local" }

func (t *Local) Close() error { return nil }

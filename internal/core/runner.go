package core

import (
	"context"
	"os"
	"os/exec"
)

// Runner interface defines methods for running commands.
// It allows mocking process execution in tests across all packages.
type Runner interface {
	Run(cmd *exec.Cmd) error
	Output(cmd *exec.Cmd) ([]byte, error)
	CombinedOutput(cmd *exec.Cmd) ([]byte, error)
	// Start launches the command without waiting and releases the child,
	// for detached window/GUI launches.
	Start(cmd *exec.Cmd) error
}

// RealRunner implements Runner using real os/exec.
type RealRunner struct{}

func (r *RealRunner) Run(cmd *exec.Cmd) error { return cmd.Run() }

func (r *RealRunner) Output(cmd *exec.Cmd) ([]byte, error) { return cmd.Output() }

func (r *RealRunner) CombinedOutput(cmd *exec.Cmd) ([]byte, error) { return cmd.CombinedOutput() }

func (r *RealRunner) Start(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// CommandRunner is the global runner instance.
// Tests can replace this with a mock.
var CommandRunner Runner = &RealRunner{}

// DefaultShell wraps command lines for execution; config may override it.
var DefaultShell = []string{"sh", "-c"}

// ShellCommand builds an exec.Cmd that runs cmdline through the given
// shell (DefaultShell when empty) in dir, with env overlaid on the process
// environment. The working directory applies to the child only, so later
// commands never inherit it.
func ShellCommand(ctx context.Context, shell []string, dir, cmdline string, env map[string]string) *exec.Cmd {
	if len(shell) == 0 {
		shell = DefaultShell
	}
	args := append(append([]string{}, shell[1:]...), cmdline)
	cmd := exec.CommandContext(ctx, shell[0], args...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}
	return cmd
}

// IsCommandAvailable reports whether a command exists on PATH.
var IsCommandAvailable = func(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

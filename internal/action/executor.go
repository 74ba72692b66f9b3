// Package action executes a state's actions: shell commands through the
// transport, and terminal-window or GUI launches on the local machine.
package action

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/melih-ucgun/rigup/internal/core"
)

// Executor is the real core.ActionExecutor. Command actions run through
// the system transport; app actions always spawn locally.
type Executor struct {
	sys *core.SystemContext

	// BaseDir anchors relative working directories (the config file's
	// directory).
	BaseDir string
	// Remote blocks window/gui launches, which cannot cross a transport.
	Remote bool
}

var _ core.ActionExecutor = (*Executor)(nil)

func NewExecutor(sys *core.SystemContext, baseDir string, remote bool) *Executor {
	return &Executor{sys: sys, BaseDir: baseDir, Remote: remote}
}

// Execute runs one action and reports its outcome. The working directory
// applies to the spawned process only, so a later action never inherits
// it. A configured timeout converts into "Timeout after {N} seconds".
func (e *Executor) Execute(a *core.Action) (bool, string) {
	if e.sys.DryRun {
		e.sys.Log.Info("dry-run: would execute", "action", a.Label(), "cmd", a.CommandLine())
		return true, ""
	}

	switch a.Kind {
	case core.ActionApp:
		return e.launchApp(a)
	default:
		return e.runCommand(a)
	}
}

func (e *Executor) runCommand(a *core.Action) (bool, string) {
	ctx := context.Context(e.sys)
	if a.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(a.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	out, err := e.sys.Transport.ExecuteIn(ctx, e.resolveDir(a.Dir), a.Run)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return false, fmt.Sprintf("Timeout after %d seconds", a.TimeoutSeconds)
		}
		if msg := strings.TrimSpace(out); msg != "" {
			return false, msg
		}
		return false, err.Error()
	}
	return true, ""
}

func (e *Executor) launchApp(a *core.Action) (bool, string) {
	if e.Remote {
		return false, fmt.Sprintf("app action '%s' cannot run on a remote host", a.Label())
	}

	switch a.Mode {
	case core.ModeWindow:
		return e.launchWindow(a)
	case core.ModeGUI:
		return e.launchDetached(a)
	default:
		return e.launchConsole(a)
	}
}

// launchConsole runs the application attached and waits for it to exit.
func (e *Executor) launchConsole(a *core.Action) (bool, string) {
	ctx := context.Context(e.sys)
	if a.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(a.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	cmd := core.ShellCommand(ctx, nil, e.resolveDir(a.Dir), a.CommandLine(), e.sys.Env)
	out, err := core.CommandRunner.CombinedOutput(cmd)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return false, fmt.Sprintf("Timeout after %d seconds", a.TimeoutSeconds)
		}
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return false, msg
		}
		return false, err.Error()
	}
	return true, ""
}

// launchWindow opens the command in a new terminal window and reports
// success as soon as the window process starts.
func (e *Executor) launchWindow(a *core.Action) (bool, string) {
	term, args := terminalLauncher(e.sys.OS)
	if term == "" {
		return false, "no terminal emulator found for a window action"
	}

	launcher := append([]string{term}, args...)
	cmd := core.ShellCommand(e.sys, launcher, e.resolveDir(a.Dir), a.CommandLine(), e.sys.Env)
	if err := core.CommandRunner.Start(cmd); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// launchDetached hands the path to the platform opener and releases it.
func (e *Executor) launchDetached(a *core.Action) (bool, string) {
	opener := guiOpener(e.sys.OS)

	cmdline := a.CommandLine()
	if opener != "" {
		cmdline = opener + " " + cmdline
	}

	cmd := core.ShellCommand(e.sys, nil, e.resolveDir(a.Dir), cmdline, e.sys.Env)
	if err := core.CommandRunner.Start(cmd); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func (e *Executor) resolveDir(dir string) string {
	if dir == "" {
		return ""
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(e.BaseDir, dir)
}

// terminalLauncher picks the first terminal emulator available on this
// platform, with the flag that runs a command inside it.
func terminalLauncher(goos string) (string, []string) {
	if goos == "darwin" {
		return "open", []string{"-a", "Terminal"}
	}
	candidates := []struct {
		bin  string
		args []string
	}{
		{"x-terminal-emulator", []string{"-e"}},
		{"gnome-terminal", []string{"--"}},
		{"konsole", []string{"-e"}},
		{"xterm", []string{"-e"}},
	}
	for _, c := range candidates {
		if core.IsCommandAvailable(c.bin) {
			return c.bin, c.args
		}
	}
	return "", nil
}

func guiOpener(goos string) string {
	switch goos {
	case "darwin":
		return "open"
	default:
		if core.IsCommandAvailable("xdg-open") {
			return "xdg-open"
		}
		return ""
	}
}

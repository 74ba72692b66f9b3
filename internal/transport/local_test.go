package transport

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/melih-ucgun/rigup/internal/core"
)

// fakeRunner captures the built exec.Cmd instead of running it.
type fakeRunner struct {
	lastCmd *exec.Cmd
	out     string
	err     error
}

func (f *fakeRunner) Run(cmd *exec.Cmd) error { f.lastCmd = cmd; return f.err }
func (f *fakeRunner) Output(cmd *exec.Cmd) ([]byte, error) {
	f.lastCmd = cmd
	return []byte(f.out), f.err
}
func (f *fakeRunner) CombinedOutput(cmd *exec.Cmd) ([]byte, error) {
	f.lastCmd = cmd
	return []byte(f.out), f.err
}
func (f *fakeRunner) Start(cmd *exec.Cmd) error { f.lastCmd = cmd; return f.err }

func TestLocalExecuteIn(t *testing.T) {
	fake := &fakeRunner{out: "ok"}
	old := core.CommandRunner
	core.CommandRunner = fake
	defer func() { core.CommandRunner = old }()

	tr := NewLocal(nil, map[string]string{"PORT": "3000"})
	out, err := tr.ExecuteIn(context.Background(), "/srv/api", "npm start")
	if err != nil {
		t.Fatalf("ExecuteIn: %v", err)
	}
	if out != "ok" {
		t.Errorf("output = %q, want ok", out)
	}

	cmd := fake.lastCmd
	if cmd.Dir != "/srv/api" {
		t.Errorf("Dir = %q, want /srv/api", cmd.Dir)
	}
	if cmd.Args[0] != "sh" || cmd.Args[len(cmd.Args)-1] != "npm start" {
		t.Errorf("unexpected argv: %v", cmd.Args)
	}

	foundEnv := false
	for _, kv := range cmd.Env {
		if kv == "PORT=3000" {
			foundEnv = true
		}
	}
	if !foundEnv {
		t.Error("declared env var missing from command environment")
	}
}

func TestMockTransport(t *testing.T) {
	m := NewMock()
	m.AddResponse("docker info", "Server Version: 27.0")
	m.AddError("docker compose up -d", context.DeadlineExceeded)

	out, err := m.Execute(context.Background(), "docker info")
	if err != nil || !strings.Contains(out, "27.0") {
		t.Errorf("canned response not returned: %q, %v", out, err)
	}

	if _, err := m.Execute(context.Background(), "docker compose up -d"); err == nil {
		t.Error("canned error not returned")
	}

	if _, err := m.Execute(context.Background(), "unmapped"); err == nil {
		t.Error("unmocked command should error")
	}

	if len(m.Calls) != 3 || m.Calls[0] != "docker info" {
		t.Errorf("call record wrong: %v", m.Calls)
	}
}

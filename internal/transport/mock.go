package transport

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/melih-ucgun/rigup/internal/core"
)

// Mock simulates a transport for tests: canned outputs and errors per
// command line, plus a record of everything executed.
type Mock struct {
	mu        sync.Mutex
	Responses map[string]string // command -> output
	Errors    map[string]error  // command -> error
	Files     map[string]string // path -> content
	Calls     []string          // executed commands, in order
	Dirs      []string          // working dir per call ("" when unset)
}

var _ core.Transport = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{
		Responses: make(map[string]string),
		Errors:    make(map[string]error),
		Files:     make(map[string]string),
	}
}

// AddResponse registers a canned output for a command.
func (m *Mock) AddResponse(cmd, output string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[cmd] = output
}

// AddError registers a canned error for a command.
func (m *Mock) AddError(cmd string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[cmd] = err
}

func (m *Mock) Execute(ctx context.Context, cmd string) (string, error) {
	return m.ExecuteIn(ctx, "", cmd)
}

func (m *Mock) ExecuteIn(ctx context.Context, dir, cmd string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, cmd)
	m.Dirs = append(m.Dirs, dir)

	if err, ok := m.Errors[cmd]; ok {
		return m.Responses[cmd], err
	}
	if output, ok := m.Responses[cmd]; ok {
		return output, nil
	}
	return "", fmt.Errorf("mock: command not mocked: %s", cmd)
}

func (m *Mock) FileSystem() core.FileSystem {
	return &MockFS{Files: m.Files}
}

func (m *Mock) Describe() string { return "mock" }

func (m *Mock) Close() error { return nil }

// MockFS implements core.FileSystem over an in-memory map.
type MockFS struct {
	Files map[string]string
}

var _ core.FileSystem = (*MockFS)(nil)

func (m *MockFS) Stat(name string) (fs.FileInfo, error) {
	if content, ok := m.Files[name]; ok {
		return &mockFileInfo{name: name, size: int64(len(content))}, nil
	}
	return nil, os.ErrNotExist
}

func (m *MockFS) ReadFile(name string) ([]byte, error) {
	if content, ok := m.Files[name]; ok {
		return []byte(content), nil
	}
	return nil, os.ErrNotExist
}

func (m *MockFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.Files[name] = string(data)
	return nil
}

func (m *MockFS) MkdirAll(path string, perm os.FileMode) error { return nil }

type mockFileInfo struct {
	name string
	size int64
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return 0644 }
func (m *mockFileInfo) ModTime() time.Time { return time.Now() }
func (m *mockFileInfo) IsDir() bool        { return false }
func (m *mockFileInfo) Sys() interface{}   { return nil }

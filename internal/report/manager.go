// Package report writes the per-project run log. The engine never reads
// it back; this is write-only reporting at the CLI boundary.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/melih-ucgun/rigup/internal/engine"
)

// MaxRecords caps the run log; older runs roll off.
const MaxRecords = 100

// StateRecord is one state's outcome inside a RunRecord.
type StateRecord struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Success  bool          `json:"success"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
	Actions  int           `json:"actions"`
}

// RunRecord is the persisted snapshot of one resolution run.
type RunRecord struct {
	ID        string        `json:"id"`
	Targets   []string      `json:"targets"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	States    []StateRecord `json:"states"`
	Events    []Event       `json:"events,omitempty"`
}

// Manager reads and appends the run log through an abstract filesystem,
// so remote runs can log onto the remote host over SFTP.
type Manager struct {
	FilePath string
	FS       core.FileSystem
	mu       sync.Mutex
}

func NewManager(path string, fs core.FileSystem) *Manager {
	return &Manager{FilePath: path, FS: fs}
}

// Append snapshots a finished run (plus the recorded event timeline)
// into the log file, trimming to MaxRecords.
func (m *Manager) Append(run *engine.Run, success bool, events []Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, err := m.load()
	if err != nil {
		return err
	}

	records = append(records, snapshot(run, success, events))
	if len(records) > MaxRecords {
		records = records[len(records)-MaxRecords:]
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(m.FilePath); dir != "." {
		if err := m.FS.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create %s: %w", dir, err)
		}
	}
	return m.FS.WriteFile(m.FilePath, data, 0644)
}

// Load returns the recorded runs, oldest first. A missing log file is an
// empty history, not an error.
func (m *Manager) Load() ([]RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Manager) load() ([]RunRecord, error) {
	data, err := m.FS.ReadFile(m.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read run log %s: %w", m.FilePath, err)
	}

	var records []RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("run log %s is corrupt: %w", m.FilePath, err)
	}
	return records, nil
}

func snapshot(run *engine.Run, success bool, events []Event) RunRecord {
	rec := RunRecord{
		ID:        run.ID,
		Targets:   run.Targets,
		StartedAt: run.StartedAt,
		Duration:  time.Since(run.StartedAt),
		Success:   success,
		Events:    events,
	}

	// Completion order first, then the states that never started.
	seen := make(map[string]bool)
	add := func(name string) {
		res := run.Results[name]
		if res == nil || seen[name] {
			return
		}
		seen[name] = true
		rec.States = append(rec.States, StateRecord{
			Name:     res.Name,
			Status:   string(res.Status),
			Success:  res.Success,
			Message:  res.Message,
			Duration: res.Duration,
			Actions:  len(res.Actions),
		})
	}
	for _, name := range run.Order {
		add(name)
	}
	for _, name := range run.Failed() {
		add(name)
	}
	return rec
}

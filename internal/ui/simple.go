package ui

import (
	"io"
	"time"

	"github.com/pterm/pterm"

	"github.com/melih-ucgun/rigup/internal/core"
)

// Simple prints one line per finished state and stays quiet otherwise.
type Simple struct {
	core.NopObserver
	w io.Writer
}

var _ core.Observer = (*Simple)(nil)

func NewSimple(w io.Writer) *Simple {
	return &Simple{w: w}
}

func (s *Simple) StateCompleted(name string, success bool, errMsg string, elapsed time.Duration) {
	if success {
		pterm.Success.WithWriter(s.w).Printfln("%s (%s)", name, elapsed.Round(time.Millisecond))
		return
	}
	pterm.Error.WithWriter(s.w).Printfln("%s: %s", name, errMsg)
}

package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// Medium is Default plus dependency chains under each state header.
type Medium struct {
	Default
}

func NewMedium(w io.Writer) *Medium {
	return &Medium{Default{w: w}}
}

func (m *Medium) StateStarted(name string, deps []string) {
	m.Default.StateStarted(name, deps)
	if len(deps) > 0 {
		fmt.Fprintln(m.w, pterm.FgGray.Sprint("  depends on: "+strings.Join(deps, " -> ")))
	}
}

func (m *Medium) CheckResult(name string, ready bool, kind, info string) {
	if ready {
		pterm.Success.WithWriter(m.w).Printfln("already ready (%s %s)", kind, info)
		return
	}
	pterm.Info.WithWriter(m.w).Printfln("not ready yet (%s %s)", kind, info)
}

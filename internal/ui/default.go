package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"

	"github.com/melih-ucgun/rigup/internal/core"
)

// Default shows a section per state with check and action lines.
type Default struct {
	w io.Writer
}

var _ core.Observer = (*Default)(nil)

func NewDefault(w io.Writer) *Default {
	return &Default{w: w}
}

func (d *Default) StateStarted(name string, deps []string) {
	pterm.DefaultSection.WithWriter(d.w).Println(name)
}

func (d *Default) CheckPerformed(name, kind, detail string) {
	pterm.Info.WithWriter(d.w).Printfln("checking %s (%s)", detail, kind)
}

func (d *Default) CheckResult(name string, ready bool, kind, info string) {
	if ready {
		pterm.Success.WithWriter(d.w).Println("already ready, nothing to do")
	} else {
		pterm.Info.WithWriter(d.w).Println("not ready yet")
	}
}

func (d *Default) ActionsStarted(name string, count int) {
	pterm.Info.WithWriter(d.w).Printfln("running %d action(s)", count)
}

func (d *Default) ActionStarted(info core.ActionInfo) {
	if info.Wait() {
		pterm.Info.WithWriter(d.w).Println(info.Label)
		return
	}
	pterm.Info.WithWriter(d.w).Printfln("[%d/%d] %s", info.Index, info.Total, info.Label)
}

func (d *Default) ActionCompleted(info core.ActionInfo, ok bool, errMsg string, elapsed time.Duration) {
	label := info.Label
	if info.Wait() {
		label = "readiness wait"
	}
	if ok {
		pterm.Success.WithWriter(d.w).Printfln("%s (%s)", label, elapsed.Round(time.Millisecond))
		return
	}
	msg := fmt.Sprintf("%s failed", label)
	if errMsg != "" {
		msg += ": " + errMsg
	}
	pterm.Error.WithWriter(d.w).Println(msg)
}

func (d *Default) StateCompleted(name string, success bool, errMsg string, elapsed time.Duration) {
	if success {
		pterm.Success.WithWriter(d.w).Printfln("%s completed in %s", name, elapsed.Round(time.Millisecond))
		return
	}
	pterm.Error.WithWriter(d.w).Printfln("%s failed: %s", name, errMsg)
}

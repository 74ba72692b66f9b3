package ui

import (
	"fmt"
	"io"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"

	"github.com/melih-ucgun/rigup/internal/core"
)

// Elaborate renders a header panel, a tree per state and a live spinner
// while a readiness wait polls. The terminal cursor hides around the live
// region so the spinner does not flicker it.
type Elaborate struct {
	w       io.Writer
	started bool
	spinner *pterm.SpinnerPrinter
}

var _ core.Observer = (*Elaborate)(nil)

func NewElaborate(w io.Writer) *Elaborate {
	return &Elaborate{w: w}
}

func (e *Elaborate) StateStarted(name string, deps []string) {
	if !e.started {
		e.started = true
		pterm.DefaultHeader.WithFullWidth().WithWriter(e.w).Println("rigup: bringing the environment up")
	}
	pterm.DefaultSection.WithWriter(e.w).Println(name)
	if len(deps) > 0 {
		tree := pterm.TreeNode{Text: name, Children: make([]pterm.TreeNode, 0, len(deps))}
		for _, dep := range deps {
			tree.Children = append(tree.Children, pterm.TreeNode{Text: dep})
		}
		rendered, err := pterm.DefaultTree.WithRoot(tree).Srender()
		if err == nil {
			fmt.Fprint(e.w, rendered)
		}
	}
}

func (e *Elaborate) CheckPerformed(name, kind, detail string) {
	pterm.Info.WithWriter(e.w).Printfln("checking %s (%s)", detail, kind)
}

func (e *Elaborate) CheckResult(name string, ready bool, kind, info string) {
	if ready {
		pterm.Success.WithWriter(e.w).Println("already ready, skipping actions")
	} else {
		pterm.Info.WithWriter(e.w).Println("not ready, running actions")
	}
}

func (e *Elaborate) ActionsStarted(name string, count int) {
	pterm.Info.WithWriter(e.w).Printfln("%d action(s) queued", count)
}

func (e *Elaborate) ActionStarted(info core.ActionInfo) {
	if info.Wait() {
		cursor.Hide()
		if sp, err := pterm.DefaultSpinner.WithWriter(e.w).Start(info.Label); err == nil {
			e.spinner = sp
		}
		return
	}
	pterm.Info.WithWriter(e.w).Printfln("[%d/%d] %s", info.Index, info.Total, info.Label)
}

func (e *Elaborate) ActionCompleted(info core.ActionInfo, ok bool, errMsg string, elapsed time.Duration) {
	if info.Wait() {
		if e.spinner != nil {
			if ok {
				e.spinner.Success(fmt.Sprintf("ready after %s", elapsed.Round(time.Second)))
			} else {
				e.spinner.Fail(errMsg)
			}
			e.spinner = nil
		}
		cursor.Show()
		return
	}
	if ok {
		pterm.Success.WithWriter(e.w).Printfln("%s (%s)", info.Label, elapsed.Round(time.Millisecond))
		return
	}
	msg := info.Label + " failed"
	if errMsg != "" {
		msg += ": " + errMsg
	}
	pterm.Error.WithWriter(e.w).Println(msg)
}

func (e *Elaborate) StateCompleted(name string, success bool, errMsg string, elapsed time.Duration) {
	if success {
		pterm.Success.WithWriter(e.w).Printfln("%s up in %s", name, elapsed.Round(time.Millisecond))
		return
	}
	pterm.Error.WithWriter(e.w).Printfln("%s failed: %s", name, errMsg)
}

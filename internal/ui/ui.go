// Package ui renders resolution progress from observer events. Themes
// never reach into the engine; everything they show arrives through
// core.Observer callbacks.
package ui

import (
	"fmt"
	"os"

	"github.com/melih-ucgun/rigup/internal/core"
)

// ForName returns the observer for a theme name. "silent" discards
// everything; tests and --quiet use it.
func ForName(name string, log core.Logger) (core.Observer, error) {
	switch name {
	case "simple":
		return NewSimple(os.Stderr), nil
	case "", "default":
		return NewDefault(os.Stderr), nil
	case "medium":
		return NewMedium(os.Stderr), nil
	case "elaborate":
		return NewElaborate(os.Stderr), nil
	case "silent":
		return core.NopObserver{}, nil
	default:
		return nil, fmt.Errorf("unknown theme '%s'", name)
	}
}

package core

import "context"

// Transport abstracts where commands run and files live: the local machine
// or a remote dev box over SSH. Probes and command actions go through it.
type Transport interface {
	// Execute runs a shell command line and returns its combined output.
	// A non-nil error means the command could not run or exited non-zero.
	Execute(ctx context.Context, cmd string) (string, error)
	// ExecuteIn is Execute with a working directory applied for the
	// duration of the command only; the directory never leaks to later
	// commands.
	ExecuteIn(ctx context.Context, dir, cmd string) (string, error)
	// FileSystem exposes file access on the transport's target.
	FileSystem() FileSystem
	// Describe names the target for logs ("local", "user@host").
	Describe() string
	Close() error
}

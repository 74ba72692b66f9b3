package core

// ActionExecutor runs one action of a state. The resolver treats the
// execution as opaque: it only sees the boolean outcome and an optional
// error message for the action's record.
type ActionExecutor interface {
	Execute(a *Action) (ok bool, errMsg string)
}

package readiness

import "strings"

// errorIndicators mark a probe's output as failed even when the command
// exits zero. Docker-style CLIs print diagnostics to stdout while exiting
// 0, so exit codes alone are not trustworthy.
var errorIndicators = []string{
	"error",
	"not found",
	"unable",
	"fail",
	"failed",
	"no such file",
	"connection refused",
}

// ContainsErrorIndicator reports whether output matches the error-pattern
// heuristic, case-insensitively.
func ContainsErrorIndicator(output string) bool {
	lower := strings.ToLower(output)
	for _, indicator := range errorIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

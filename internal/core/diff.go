package core

import (
	"bytes"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// GenerateDiff renders a line-level +/- diff between two texts. Renderers
// colorize the prefixes; the core stays ANSI-free.
func GenerateDiff(name, current, desired string) string {
	dmp := diffmatchpatch.New()

	a, b, lines := dmp.DiffLinesToChars(current, desired)
	diffs := dmp.DiffMain(a, b, false)
	result := dmp.DiffCharsToLines(diffs, lines)

	var buf bytes.Buffer
	for _, diff := range result {
		var prefix string
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		default:
			prefix = "  "
		}
		for _, line := range strings.Split(diff.Text, "\n") {
			if line == "" {
				continue
			}
			buf.WriteString(prefix + line + "\n")
		}
	}
	return buf.String()
}

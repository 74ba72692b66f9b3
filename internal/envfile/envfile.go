// Package envfile loads declared .env files into the run environment and
// spots drift between an env file and its committed .example template.
package envfile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/melih-ucgun/rigup/internal/consts"
	"github.com/melih-ucgun/rigup/internal/core"
)

// Load parses each env file through the given filesystem and merges the
// results; later files win on key collisions. A missing file is an error
// (declare only files that exist; the .example is what's committed).
func Load(fs core.FileSystem, paths ...string) (map[string]string, error) {
	merged := make(map[string]string)
	for _, path := range paths {
		data, err := fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read env file %s: %w", path, err)
		}
		vars, err := godotenv.Parse(strings.NewReader(string(data)))
		if err != nil {
			return nil, fmt.Errorf("cannot parse env file %s: %w", path, err)
		}
		for k, v := range vars {
			merged[k] = v
		}
	}
	return merged, nil
}

// DriftReport describes how an env file diverges from its template.
// Values never appear here; env files hold credentials.
type DriftReport struct {
	Path        string
	ExamplePath string
	// Missing keys exist in the example but not in the env file.
	Missing []string
	// Extra keys exist in the env file but not in the example.
	Extra []string
	// Diff is a rendered key-level diff for display.
	Diff string
}

// Clean reports whether the key sets match.
func (r *DriftReport) Clean() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0
}

// Drift compares path against path.example by key set. No example file
// means nothing to compare, returning a nil report. A declared example
// with a missing env file reports every key as missing.
func Drift(fs core.FileSystem, path string) (*DriftReport, error) {
	examplePath := path + consts.EnvExampleSuffix
	exampleData, err := fs.ReadFile(examplePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", examplePath, err)
	}
	example, err := godotenv.Parse(strings.NewReader(string(exampleData)))
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", examplePath, err)
	}

	actual := make(map[string]string)
	if data, err := fs.ReadFile(path); err == nil {
		if actual, err = godotenv.Parse(strings.NewReader(string(data))); err != nil {
			return nil, fmt.Errorf("cannot parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	report := &DriftReport{Path: path, ExamplePath: examplePath}
	for key := range example {
		if _, ok := actual[key]; !ok {
			report.Missing = append(report.Missing, key)
		}
	}
	for key := range actual {
		if _, ok := example[key]; !ok {
			report.Extra = append(report.Extra, key)
		}
	}
	sort.Strings(report.Missing)
	sort.Strings(report.Extra)

	if !report.Clean() {
		report.Diff = core.GenerateDiff(path, keyLines(actual), keyLines(example))
	}
	return report, nil
}

func keyLines(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "\n") + "\n"
}

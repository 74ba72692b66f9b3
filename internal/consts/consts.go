package consts

import "path/filepath"

// Application identity.
const (
	AppName = "rigup"
	Version = "0.3.0"
)

// Well-known file and directory names.
const (
	DefaultConfigFile = "rigup.yaml"
	DataDirName       = ".rigup"
	RunLogFileName    = "runs.json"
	EnvExampleSuffix  = ".example"
)

// RunLogPath returns the path of the run log inside the data directory.
func RunLogPath() string {
	return filepath.Join(DataDirName, RunLogFileName)
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/rigup/internal/config"
	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/melih-ucgun/rigup/internal/engine"
	"github.com/melih-ucgun/rigup/internal/envfile"
	"github.com/melih-ucgun/rigup/internal/system"
	"github.com/melih-ucgun/rigup/internal/transport"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the config for problems without running anything",
	Long:  `Validates the state graph, warns about dependency cycles and compares each declared env file against its committed .example template. Exits non-zero when any problem is found.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(cfgFile)
		if err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}

		problems := 0

		log := core.NewDefaultLogger(os.Stderr, core.LevelFromVerbosity(verboseCount))
		sys := core.NewSystemContext(false, transport.NewLocal(cfg.Settings.Shell, processEnv()), log)
		sys.BaseDir = cfg.BaseDir
		sys.Vars = cfg.Vars
		system.Detect(sys)
		defer sys.Transport.Close()

		if err := cfg.Render(sys); err != nil {
			pterm.Error.Println(err.Error())
			problems++
		}

		// A declared host means the config may run remotely, so the
		// remote-only constraints count as findings too.
		for _, e := range cfg.Validate(cfg.Host != nil) {
			pterm.Error.Println(e.Error())
			problems++
		}

		for _, cycle := range engine.DetectCycles(cfg.Graph()) {
			pterm.Warning.Printfln("dependency cycle: %s (later states in the cycle resolve against an in-flight dependency)", strings.Join(cycle, " -> "))
			problems++
		}

		fs := &core.RealFS{}
		for _, p := range cfg.EnvFiles {
			if !filepath.IsAbs(p) {
				p = filepath.Join(cfg.BaseDir, p)
			}
			if _, err := fs.Stat(p); err != nil {
				pterm.Error.Printfln("declared env file %s does not exist", p)
				problems++
			}
			report, err := envfile.Drift(fs, p)
			if err != nil {
				pterm.Error.Println(err.Error())
				problems++
				continue
			}
			if report == nil || report.Clean() {
				continue
			}
			problems++
			pterm.Warning.Printfln("%s drifts from %s", report.Path, report.ExamplePath)
			if len(report.Missing) > 0 {
				pterm.Warning.Printfln("  missing keys: %s", strings.Join(report.Missing, ", "))
			}
			if len(report.Extra) > 0 {
				pterm.Warning.Printfln("  extra keys: %s", strings.Join(report.Extra, ", "))
			}
			if verboseCount > 0 && report.Diff != "" {
				fmt.Fprint(os.Stderr, report.Diff)
			}
		}

		if problems > 0 {
			pterm.Error.Printfln("%d problem(s) found", problems)
			os.Exit(1)
		}
		pterm.Success.Printfln("%d state(s), no problems found", len(cfg.States))
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

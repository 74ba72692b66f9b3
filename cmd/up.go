package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/rigup/internal/action"
	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/melih-ucgun/rigup/internal/engine"
	"github.com/melih-ucgun/rigup/internal/readiness"
	"github.com/melih-ucgun/rigup/internal/report"
	"github.com/melih-ucgun/rigup/internal/ui"
)

var upCmd = &cobra.Command{
	Use:   "up [state...]",
	Short: "Bring target states up, resolving dependencies first",
	Long:  `Resolves each target state depth-first: dependencies come up before their dependents, states that are already ready are skipped, and states with a wait probe are polled until ready.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		host, _ := cmd.Flags().GetString("host")
		themeFlag, _ := cmd.Flags().GetString("theme")
		reportFlag, _ := cmd.Flags().GetString("report")
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		rt, err := buildRuntime(ctx, cfgFile, host, dryRun)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		defer rt.Close()
		rt.validateOrDie()

		targets, err := rt.cfg.Targets(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}

		theme := rt.cfg.Settings.Theme
		if themeFlag != "" {
			theme = themeFlag
		}
		if quiet {
			theme = "silent"
		}
		obs, err := ui.ForName(theme, rt.sys.Log)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}

		recorder := report.NewRecorder()
		fanout := core.MultiObserver{obs, recorder}

		checker := readiness.NewChecker(rt.sys, fanout, time.Duration(rt.cfg.Settings.HTTPTimeoutSeconds)*time.Second)
		executor := action.NewExecutor(rt.sys, rt.cfg.BaseDir, rt.remote)
		resolver := engine.New(rt.cfg.Graph(), checker, executor, fanout, rt.sys)

		ok := true
		for _, target := range targets {
			if !resolver.Resolve(target) {
				ok = false
			}
		}

		run := resolver.Run()
		reportPath := rt.cfg.Settings.ReportFile
		if reportFlag != "" {
			reportPath = reportFlag
		}
		mgr := report.NewManager(reportPath, &core.RealFS{})
		if err := mgr.Append(run, ok, recorder.Events()); err != nil {
			rt.sys.Log.Warn("could not write run log", "path", reportPath, "error", err)
		}

		if ctx.Err() == context.Canceled {
			pterm.Warning.Println("interrupted")
			os.Exit(130)
		}

		if ok {
			pterm.Success.Printfln("%d state(s) up in %s", len(run.Order), run.Elapsed().Round(time.Millisecond))
			return
		}
		failed := run.Failed()
		pterm.Error.Printfln("failed: %s", strings.Join(failed, ", "))
		for _, name := range failed {
			if res := run.Result(name); res != nil && res.Message != "" {
				pterm.Error.Printfln("  %s: %s", name, res.Message)
			}
		}
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(upCmd)
	upCmd.Flags().Bool("dry-run", false, "Log actions instead of running them")
	upCmd.Flags().String("host", "", "Bring states up on a declared remote host")
	upCmd.Flags().String("theme", "", "Progress theme (simple, default, medium, elaborate, silent)")
	upCmd.Flags().String("report", "", "Run log path (overrides settings.report_file)")
	upCmd.Flags().BoolP("quiet", "q", false, "Suppress progress output")
}

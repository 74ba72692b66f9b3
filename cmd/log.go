package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/rigup/internal/config"
	"github.com/melih-ucgun/rigup/internal/consts"
	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/melih-ucgun/rigup/internal/report"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the recorded resolution runs",
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")

		// The run log path lives in settings; a missing config still has
		// a usable default location.
		reportPath := ""
		if cfg, err := config.Load(cfgFile); err == nil {
			reportPath = cfg.Settings.ReportFile
		}
		if flag, _ := cmd.Flags().GetString("report"); flag != "" {
			reportPath = flag
		}
		if reportPath == "" {
			reportPath = consts.RunLogPath()
		}

		mgr := report.NewManager(reportPath, &core.RealFS{})
		history, err := mgr.Load()
		if err != nil {
			pterm.Error.Println("Failed to load run log:", err)
			os.Exit(1)
		}

		if len(history) == 0 {
			pterm.Info.Println("No runs recorded yet.")
			return
		}

		pterm.DefaultHeader.Println("Run Log")

		tableData := [][]string{{"ID", "Date", "Targets", "Status", "States", "Duration"}}

		// Latest first.
		for i := len(history) - 1; i >= 0; i-- {
			rec := history[i]

			status := pterm.NewStyle(pterm.FgGreen).Sprint("success")
			if !rec.Success {
				status = pterm.NewStyle(pterm.FgRed).Sprint("failed")
			}

			tableData = append(tableData, []string{
				shortID(rec.ID),
				rec.StartedAt.Format("2006-01-02 15:04:05"),
				strings.Join(rec.Targets, ", "),
				status,
				fmt.Sprintf("%d", len(rec.States)),
				rec.Duration.Round(time.Millisecond).String(),
			})
		}

		pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().String("report", "", "Run log path (overrides settings.report_file)")
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/melih-ucgun/rigup/internal/readiness"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously probe every state and show a live readiness board",
	Long:  `Re-runs each state's pre-check probe on an interval and redraws the readiness of the whole graph in place, until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")
		host, _ := cmd.Flags().GetString("host")
		intervalStr, _ := cmd.Flags().GetString("interval")

		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid interval:", err)
			os.Exit(1)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		rt, err := buildRuntime(ctx, cfgFile, host, false)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		defer rt.Close()
		rt.validateOrDie()

		checker := readiness.NewChecker(rt.sys, core.NopObserver{}, time.Duration(rt.cfg.Settings.HTTPTimeoutSeconds)*time.Second)

		area, err := pterm.DefaultArea.WithFullscreen(false).Start()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		cursor.Hide()
		defer cursor.Show()
		defer area.Stop()

		draw := func() {
			data := pterm.TableData{{"STATE", "READY", "PROBE"}}
			for _, st := range rt.cfg.States {
				probe := "-"
				ready := pterm.FgGray.Sprint("?")
				if st.Readiness != nil {
					if p := st.Readiness.PreCheckProbe(); p != nil {
						probe = fmt.Sprintf("%s %s", p.Kind(), p.Target())
						if checker.PreCheck(st) {
							ready = pterm.FgGreen.Sprint("yes")
						} else {
							ready = pterm.FgRed.Sprint("no")
						}
					}
				}
				data = append(data, []string{st.Name, ready, probe})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return
			}
			area.Update(fmt.Sprintf("%s\n%s", time.Now().Format(time.RFC822), table))
		}

		draw()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				draw()
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("interval", "i", "5s", "Probe interval (e.g. 5s, 1m)")
	watchCmd.Flags().String("host", "", "Probe states on a declared remote host")
}

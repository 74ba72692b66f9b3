package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/melih-ucgun/rigup/internal/readiness"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe each state once and show what is already ready",
	Long:  `Runs every state's pre-check probe once, without executing any actions, and prints the readiness of the whole graph.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")
		host, _ := cmd.Flags().GetString("host")

		rt, err := buildRuntime(context.Background(), cfgFile, host, false)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		defer rt.Close()
		rt.validateOrDie()

		checker := readiness.NewChecker(rt.sys, core.NopObserver{}, time.Duration(rt.cfg.Settings.HTTPTimeoutSeconds)*time.Second)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "STATE\tREADY\tPROBE\tDESCRIPTION")
		fmt.Fprintln(w, "-----\t-----\t-----\t-----------")

		for _, st := range rt.cfg.States {
			probe := "-"
			ready := "?"
			if st.Readiness != nil {
				if p := st.Readiness.PreCheckProbe(); p != nil {
					probe = fmt.Sprintf("%s %s", p.Kind(), p.Target())
					if checker.PreCheck(st) {
						ready = "yes"
					} else {
						ready = "no"
					}
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.Name, ready, probe, st.Description)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().String("host", "", "Probe states on a declared remote host")
}

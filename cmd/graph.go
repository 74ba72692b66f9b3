package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/rigup/internal/engine"
)

var graphCmd = &cobra.Command{
	Use:   "graph [state...]",
	Short: "Show the resolution order without running anything",
	Long:  `Prints the order in which the target states and their dependencies would be brought up, plus the dependency layers that could run side by side.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")

		rt, err := buildRuntime(context.Background(), cfgFile, "", false)
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

		graph := rt.cfg.Graph()

		for _, cycle := range engine.DetectCycles(graph) {
			pterm.Warning.Printfln("dependency cycle: %s", strings.Join(cycle, " -> "))
		}

		for _, target := range targets {
			order, err := engine.PlanOrder(graph, target)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(1)
			}
			fmt.Printf("%s: %s\n", target, strings.Join(order, " -> "))
		}

		layers, err := engine.Layers(graph, targets)
		if err != nil {
			pterm.Warning.Println(err.Error())
			return
		}
		fmt.Println()
		for i, layer := range layers {
			fmt.Printf("layer %d: %s\n", i+1, strings.Join(layer, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

package cmd

import (
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/rigup/internal/consts"
)

var rootCmd = &cobra.Command{
	Use:     consts.AppName,
	Short:   "Bring a development environment up, dependencies first",
	Long:    `Rigup reads a declarative state graph and brings each target state up: it resolves dependencies, skips states that are already ready, runs their actions and polls until they report ready.`,
	Version: consts.Version,
}

var verboseCount int

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	// Keep stdout clean for piping; all decoration goes to stderr.
	pterm.SetDefaultOutput(os.Stderr)
	pterm.Success.Writer = os.Stderr
	pterm.Info.Writer = os.Stderr
	pterm.Error.Writer = os.Stderr
	pterm.Warning.Writer = os.Stderr
	pterm.DefaultHeader.Writer = os.Stderr

	rootCmd.PersistentFlags().StringP("config", "c", consts.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().CountVarP(&verboseCount, "verbose", "v", "Increase verbosity level (-v, -vv, -vvv)")
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/cmd/timetable-cli/commands"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
)

func main() {
	app := &commands.AppContext{Ctx: context.Background(), Out: os.Stdout}
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "timetable-cli",
		Short:         "Generate and inspect weekly timetables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if verbose {
				cfg.Log.Level = "debug"
			} else if cfg.Log.Level == "" || cfg.Log.Level == "info" {
				cfg.Log.Level = "warn"
			}
			cfg.Log.Format = "console"
			app.Cfg = cfg
			app.Logger, err = logger.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log allocation details")

	rootCmd.AddCommand(commands.SimulateCmd(app))
	rootCmd.AddCommand(commands.GenerateCmd(app))
	rootCmd.AddCommand(commands.ShowCmd(app))

	if err := rootCmd.Execute(); err != nil {
		if app.Logger != nil {
			app.Logger.Debug("command failed", zap.Error(err))
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/rehearse/internal/config"
	"github.com/aretw0/rehearse/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rehearse",
	Short: "Rehearse is a mock interview practice engine for hiring managers",
	Long: `Rehearse plays a job candidate in scripted interview scenarios, scores the
questions you ask and compiles a feedback report at the end.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a rehearse.yaml configuration file")
	rootCmd.PersistentFlags().String("dir", "", "Directory with additional scenario files")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig resolves the file, the environment and the global flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.ScenariosDir = dir
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.LogLevel = config.LogDebug
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(cfg.LogLevel.Slog())
}

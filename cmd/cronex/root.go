package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/cronex/internal/config"
	"github.com/aatumaykin/cronex/internal/constants"
	"github.com/aatumaykin/cronex/internal/logger"
	"github.com/aatumaykin/cronex/internal/version"
)

// newRootCmd builds the command tree. A fresh tree per call keeps flag state
// from leaking between invocations.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cronex",
		Short: "cronex - extended cron expressions and a job scheduler",
		Long: `cronex parses seven-field cron expressions (seconds to years, with
day-of-week and day-of-month both applied), previews the instants they
produce in any time zone and runs shell jobs on them.`,
		Version:      version.Version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", constants.DefaultConfigPath, "path to config file")
	rootCmd.PersistentFlags().String("env", constants.DefaultEnvPath, "path to .env file")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newJobsCmd())
	rootCmd.AddCommand(newServeCmd())
	return rootCmd
}

// loadConfig loads the .env file and the configuration named by the
// persistent flags. A missing default config file yields the defaults; a
// missing file named explicitly is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envPath, _ := cmd.Flags().GetString("env")
	if err := config.LoadEnvOptional(envPath); err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", envPath, err)
	}

	path, _ := cmd.Flags().GetString("config")
	if _, err := os.Stat(path); os.IsNotExist(err) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the logger described by cfg.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

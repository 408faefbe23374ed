package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/cronex/internal/config"
	"github.com/aatumaykin/cronex/internal/constants"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Validate and inspect cronex configuration.`,
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate configuration file",
		Long:  `Validate the configuration file and report every problem found.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigValidate,
	})
	return configCmd
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	configPath, _ := cmd.Flags().GetString("config")
	if len(args) > 0 {
		configPath = args[0]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(out, constants.MsgConfigLoadError, err)
		return err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		fmt.Fprint(out, constants.MsgConfigValidationError)
		for _, e := range errs {
			fmt.Fprintf(out, constants.MsgConfigValidatePrefix, e)
		}
		return fmt.Errorf("%d configuration error(s)", len(errs))
	}

	fmt.Fprintf(out, constants.MsgConfigValid, configPath)
	return nil
}

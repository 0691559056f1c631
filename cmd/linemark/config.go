package main

import (
	"github.com/praetorian-inc/linemark/pkg/config"
	"github.com/spf13/cobra"
)

var configDefault bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration Linemark would run with, after applying the
--config file and flag overrides. With --default the built-in defaults are
printed instead, which is a convenient starting point for a new file.`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configDefault, "default", false, "Print the built-in defaults")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	if configDefault {
		cfg = config.Default()
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

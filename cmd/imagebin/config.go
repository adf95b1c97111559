package main

import (
	"github.com/spf13/cobra"

	"github.com/kmehta/imagebin/config"
)

// loadConfig reads the full configuration for a command, honoring the
// --config flag when set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var configFiles []string
	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		configFiles = append(configFiles, configFile)
	}

	return config.Load(configFiles, cmd.Flags())
}

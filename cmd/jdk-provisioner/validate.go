package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-edge-platform/jdk-provisioner/internal/config"
	"github.com/open-edge-platform/jdk-provisioner/internal/utils/logger"
)

// createValidateCommand creates the validate subcommand
func createValidateCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate CONFIG_FILE",
		Short: "Validate a configuration file",
		Long: `Validate checks a YAML configuration file against the configuration
schema without performing any acquisition. This allows catching errors in
the file before committing to a full provisioning run.`,
		Args: cobra.ExactArgs(1),
		RunE: executeValidate,
	}
	return validateCmd
}

// executeValidate handles the validate command logic
func executeValidate(cmd *cobra.Command, args []string) error {
	log := logger.Logger()
	configPath := args[0]

	log.Infof("validating configuration file: %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %v", err)
	}

	log.Infof("configuration is valid: %s", configPath)
	log.Infof("provider: %s", cfg.Provider)
	log.Infof("cache dir: %s", cfg.CacheDir)
	if cfg.Offline {
		log.Infof("offline mode is enabled")
	}
	return nil
}

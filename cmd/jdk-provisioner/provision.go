package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-edge-platform/jdk-provisioner/internal/provider"
	"github.com/open-edge-platform/jdk-provisioner/internal/utils/logger"
	"github.com/open-edge-platform/jdk-provisioner/internal/utils/system"
)

// Provision command flags
var (
	jdkType     string
	jdkVersion  string
	jdkOS       string
	jdkArch     string
	keepArchive bool
)

// createProvisionCommand creates the provision subcommand
func createProvisionCommand() *cobra.Command {
	provisionCmd := &cobra.Command{
		Use:   "provision [flags]",
		Short: "Resolve a JDK request into a cached, unpacked JDK directory",
		Long: `Provision resolves the requested JDK against the provider catalog,
downloads and unpacks it into the cache when it is not already there, and
prints the resulting JDK directory on stdout. A cached request resolves
without any network access.`,
		Args: cobra.NoArgs,
		RunE: executeProvision,
	}

	provisionCmd.Flags().StringVar(&jdkType, "type", "jdk",
		"Distribution type, e.g. jdk or jre")
	provisionCmd.Flags().StringVar(&jdkVersion, "jdk-version", "",
		"Version pattern, wildcards allowed, e.g. '11.0.*'")
	provisionCmd.Flags().StringVar(&jdkOS, "os", "",
		"Target OS token (default: current host)")
	provisionCmd.Flags().StringVar(&jdkArch, "arch", system.CurrentArch(),
		"Target architecture token, e.g. amd64 or aarch64")
	provisionCmd.Flags().BoolVar(&keepArchive, "keep-archive", false,
		"Keep the downloaded archive in the cache folder")
	return provisionCmd
}

// executeProvision handles the provision command execution logic
func executeProvision(cmd *cobra.Command, args []string) error {
	log := logger.Logger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := registerProviders(cfg); err != nil {
		return err
	}
	p, err := selectProvider(cfg)
	if err != nil {
		return err
	}

	req := provider.Request{
		Type:        jdkType,
		Version:     jdkVersion,
		OS:          jdkOS,
		Arch:        jdkArch,
		KeepArchive: keepArchive || cfg.KeepArchive,
	}

	log.Infof("provisioning JDK via provider %q", p.Name())
	path, err := p.PathToJDK(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("provider can't prepare JDK folder: %w", err)
	}

	// stdout carries only the resolved path so scripts can capture it
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-edge-platform/jdk-provisioner/internal/jdktool"
	"github.com/open-edge-platform/jdk-provisioner/internal/provider"
	"github.com/open-edge-platform/jdk-provisioner/internal/utils/system"
)

// createRunCommand creates the run subcommand
func createRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [flags] TOOL [-- TOOL_ARGS...]",
		Short: "Run a tool from the provisioned JDK",
		Long: `Run provisions the requested JDK (reusing the cache when possible) and
then executes the named tool from its bin directory, e.g. jlink or jdeps,
streaming the tool output.`,
		Args: cobra.MinimumNArgs(1),
		RunE: executeRun,
	}

	runCmd.Flags().StringVar(&jdkType, "type", "jdk",
		"Distribution type, e.g. jdk or jre")
	runCmd.Flags().StringVar(&jdkVersion, "jdk-version", "",
		"Version pattern, wildcards allowed, e.g. '11.0.*'")
	runCmd.Flags().StringVar(&jdkOS, "os", "",
		"Target OS token (default: current host)")
	runCmd.Flags().StringVar(&jdkArch, "arch", system.CurrentArch(),
		"Target architecture token, e.g. amd64 or aarch64")
	return runCmd
}

// executeRun handles the run command execution logic
func executeRun(cmd *cobra.Command, args []string) error {
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
		Type:    jdkType,
		Version: jdkVersion,
		OS:      jdkOS,
		Arch:    jdkArch,
	}

	jdkHome, err := p.PathToJDK(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("provider can't prepare JDK folder: %w", err)
	}

	toolName := args[0]
	tools, err := jdktool.NewCache(jdkHome, toolName)
	if err != nil {
		return err
	}
	toolPath, _ := tools.Path(toolName)

	return jdktool.Run(cmd.Context(), toolPath, args[1:], os.Stdout, os.Stderr)
}

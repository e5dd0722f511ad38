package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/open-edge-platform/jdk-provisioner/internal/config"
	"github.com/open-edge-platform/jdk-provisioner/internal/provider"
	"github.com/open-edge-platform/jdk-provisioner/internal/provider/liberica"
	"github.com/open-edge-platform/jdk-provisioner/internal/provider/local"
	"github.com/open-edge-platform/jdk-provisioner/internal/utils/logger"
	"github.com/open-edge-platform/jdk-provisioner/internal/utils/network"
)

// Version is set during build time via ldflags.
var Version = "dev"

// Global command flags
var (
	configFile string
	verbose    bool

	cacheDirFlag string
	offlineFlag  bool
	providerFlag string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "jdk-provisioner",
		Short:   "Resolve, download and cache vendor JDK distributions",
		Long: `jdk-provisioner resolves an abstract JDK request (type, version pattern,
os, architecture) into a concrete, locally cached, unpacked JDK directory,
fetching and verifying it from the vendor release catalog when it is not
already cached.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cacheDirFlag, "cache-dir", "",
		"Override the JDK cache directory")
	rootCmd.PersistentFlags().BoolVar(&offlineFlag, "offline", false,
		"Use only cached JDKs, never touch the network")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "",
		"JDK provider: liberica or local")

	rootCmd.AddCommand(createProvisionCommand())
	rootCmd.AddCommand(createRunCommand())
	rootCmd.AddCommand(createValidateCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging() error {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.DisableStacktrace = true

	z, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	logger.Init(z.Sugar())
	return nil
}

// loadConfig reads the configuration file when one was given, applies the
// built-in defaults otherwise, then folds in command-line overrides.
func loadConfig() (*config.GlobalConfig, error) {
	var cfg *config.GlobalConfig
	var err error

	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	if cacheDirFlag != "" {
		cfg.CacheDir = cacheDirFlag
	}
	if offlineFlag {
		cfg.Offline = true
	}
	if providerFlag != "" {
		cfg.Provider = providerFlag
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// registerProviders wires the configured providers into the registry.
func registerProviders(cfg *config.GlobalConfig) error {
	helpers := config.NewHelpers(cfg)

	client, err := network.NewHTTPClient(network.ClientOptions{
		ProxyURL:        cfg.Proxy,
		DisableTLSCheck: cfg.DisableSSLCheck,
		Timeout:         helpers.Timeout(),
	})
	if err != nil {
		return fmt.Errorf("building HTTP client: %w", err)
	}

	cacheDir, err := helpers.CacheDir()
	if err != nil {
		return err
	}

	provider.Register(liberica.New(liberica.Options{
		CacheRoot:    cacheDir,
		CatalogURL:   cfg.CatalogURL,
		HTTPClient:   client,
		Offline:      cfg.Offline,
		ShowProgress: true,
	}))
	provider.Register(local.New(local.EnvLocator{}))
	return nil
}

// selectProvider resolves the configured provider from the registry.
func selectProvider(cfg *config.GlobalConfig) (provider.Provider, error) {
	p, ok := provider.Get(cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q, available: %v", cfg.Provider, provider.Names())
	}
	return p, nil
}

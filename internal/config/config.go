// Package config loads and validates the global tool configuration.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

//go:embed schema.json
var schemaJSON string

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// GlobalConfig is the tool-wide configuration, loadable from a YAML file
// and overridable by command-line flags.
type GlobalConfig struct {
	// Provider selects the JDK provider, e.g. "liberica" or "local".
	Provider string `yaml:"provider" json:"provider"`
	// CacheDir is the root folder for unpacked JDK cache entries.
	CacheDir string `yaml:"cacheDir" json:"cacheDir"`
	// Offline forbids network access; only cached JDKs resolve.
	Offline bool `yaml:"offline" json:"offline"`
	// ConnectionTimeout bounds each HTTP request, in milliseconds.
	ConnectionTimeout int `yaml:"connectionTimeout" json:"connectionTimeout"`
	// Proxy routes requests through the given URL when non-empty.
	Proxy string `yaml:"proxy" json:"proxy"`
	// DisableSSLCheck skips TLS certificate verification.
	DisableSSLCheck bool `yaml:"disableSSLCheck" json:"disableSSLCheck"`
	// KeepArchive retains downloaded archives after unpacking.
	KeepArchive bool `yaml:"keepArchive" json:"keepArchive"`
	// CatalogURL overrides the release catalog endpoint (mirrors, tests).
	CatalogURL string `yaml:"catalogURL" json:"catalogURL"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// Default returns the built-in configuration.
func Default() *GlobalConfig {
	cacheDir := ".jdkCache"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".jdkCache")
	}
	return &GlobalConfig{
		Provider:          "liberica",
		CacheDir:          cacheDir,
		ConnectionTimeout: 60000,
		Logging:           LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML configuration file, validates it against the embedded
// schema and overlays it on the defaults.
func Load(path string) (*GlobalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := validate(data); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// validate checks the raw YAML document against the embedded JSON schema.
func validate(yamlData []byte) error {
	jsonData, err := sigsyaml.YAMLToJSON(yamlData)
	if err != nil {
		return fmt.Errorf("converting config to JSON: %w", err)
	}

	var doc any
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	schema, err := jsonschema.CompileString("config.schema.json", schemaJSON)
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

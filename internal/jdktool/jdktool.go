// Package jdktool locates and runs executables shipped inside a resolved
// JDK directory, e.g. jlink or jdeps.
package jdktool

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/open-edge-platform/jdk-provisioner/internal/utils/logger"
	"github.com/open-edge-platform/jdk-provisioner/internal/utils/system"
)

// Find locates the named tool under jdkHome/bin, honoring the platform
// executable suffix.
func Find(jdkHome, tool string) (string, error) {
	path := filepath.Join(jdkHome, "bin", system.EnsureExecutableExtension(tool))
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("can't find %s in JDK %s: %w", tool, jdkHome, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("tool path %s is a directory", path)
	}
	return path, nil
}

// Cache is an immutable-after-construction lookup of tool paths within one
// JDK. All tools are resolved up front; construction fails when any of them
// is missing, so a Cache in hand means every lookup succeeds.
type Cache struct {
	jdkHome string
	paths   map[string]string
}

// NewCache resolves every named tool under jdkHome and freezes the result.
func NewCache(jdkHome string, tools ...string) (*Cache, error) {
	log := logger.Logger()

	paths := make(map[string]string, len(tools))
	for _, tool := range tools {
		path, err := Find(jdkHome, tool)
		if err != nil {
			return nil, err
		}
		log.Debugf("resolved tool %q -> %s", tool, path)
		paths[tool] = path
	}
	return &Cache{jdkHome: jdkHome, paths: paths}, nil
}

// JDKHome returns the JDK directory the cache was built for.
func (c *Cache) JDKHome() string { return c.jdkHome }

// Path returns the resolved path of a tool named at construction.
func (c *Cache) Path(tool string) (string, bool) {
	p, ok := c.paths[tool]
	return p, ok
}

// Run executes toolPath with args, streaming its output to stdout and
// stderr. A non-zero exit status is returned as the error.
func Run(ctx context.Context, toolPath string, args []string, stdout, stderr io.Writer) error {
	log := logger.Logger()
	log.Infof("executing: %s %v", toolPath, args)

	cmd := exec.CommandContext(ctx, toolPath, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", filepath.Base(toolPath), err)
	}
	return nil
}

// Package local resolves a JDK already installed on the host without any
// network or cache involvement.
package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/open-edge-platform/jdk-provisioner/internal/provider"
	"github.com/open-edge-platform/jdk-provisioner/internal/utils/logger"
	"github.com/open-edge-platform/jdk-provisioner/internal/utils/system"
)

// ErrNoHostJDK reports that no host JDK could be located. It is the typed
// "not available" outcome of a HostJavaLocator.
var ErrNoHostJDK = errors.New("no host JDK available")

// HostJavaLocator resolves a JDK installed on the host. It is an explicit
// capability resolved at construction time; callers that cannot provide one
// use a locator returning ok=false.
type HostJavaLocator interface {
	// LocateJDK returns the JDK home directory, or ok=false when the
	// capability is not available.
	LocateJDK() (home string, ok bool)
}

// EnvLocator locates the host JDK through the JAVA_HOME environment
// variable.
type EnvLocator struct{}

// LocateJDK implements HostJavaLocator.
func (EnvLocator) LocateJDK() (string, bool) {
	home := os.Getenv("JAVA_HOME")
	if home == "" {
		return "", false
	}
	return home, true
}

// PathLocator locates the JDK at a fixed, caller-supplied directory.
type PathLocator string

// LocateJDK implements HostJavaLocator.
func (p PathLocator) LocateJDK() (string, bool) {
	if p == "" {
		return "", false
	}
	return string(p), true
}

// Provider serves requests from a host-installed JDK. Version, type and
// architecture fields of the request are not matched against the local
// installation; the caller asked for whatever the host has.
type Provider struct {
	locator HostJavaLocator
}

// New builds a Provider around the given locator.
func New(locator HostJavaLocator) *Provider {
	return &Provider{locator: locator}
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return "local" }

// PathToJDK implements provider.Provider.
func (p *Provider) PathToJDK(_ context.Context, _ provider.Request) (string, error) {
	log := logger.Logger()

	home, ok := p.locator.LocateJDK()
	if !ok {
		return "", ErrNoHostJDK
	}

	info, err := os.Stat(home)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("host JDK home %s is not a directory: %w", home, ErrNoHostJDK)
	}

	javaBin := filepath.Join(home, "bin", system.EnsureExecutableExtension("java"))
	if _, err := os.Stat(javaBin); err != nil {
		return "", fmt.Errorf("host JDK at %s has no java executable: %w", home, ErrNoHostJDK)
	}

	log.Infof("using host JDK: %s", home)
	return home, nil
}

// Package provider defines the JDK provider contract and the registry of
// named providers.
package provider

import (
	"context"
	"strings"
)

// Request describes one JDK acquisition. It is immutable input for a single
// call; fields are case-normalized by the provider before use.
type Request struct {
	// Type is the distribution flavor, e.g. "jdk" or "jre".
	Type string
	// Version is the requested version, may contain glob wildcards.
	Version string
	// OS is the target platform token; empty means the current host.
	OS string
	// Arch is the target architecture token.
	Arch string
	// KeepArchive retains the downloaded archive in the cache folder
	// instead of deleting it after a successful unpack.
	KeepArchive bool
}

// Normalized returns a copy with surrounding whitespace removed from every
// field.
func (r Request) Normalized() Request {
	r.Type = strings.TrimSpace(r.Type)
	r.Version = strings.TrimSpace(r.Version)
	r.OS = strings.TrimSpace(r.OS)
	r.Arch = strings.TrimSpace(r.Arch)
	return r
}

// Validate checks the required request fields before any I/O happens.
func (r Request) Validate() error {
	for _, field := range []struct {
		name, value string
	}{
		{"type", r.Type},
		{"version", r.Version},
		{"arch", r.Arch},
	} {
		if strings.TrimSpace(field.value) == "" {
			return &ConfigError{Field: field.name}
		}
	}
	return nil
}

// Provider resolves a distribution request into a local, unpacked JDK
// directory. Implementations are idempotent: once an acquisition succeeded,
// repeated calls return the same path without network access.
type Provider interface {
	// Name is the registry id, e.g. "liberica" or "local".
	Name() string

	// PathToJDK performs one acquisition and returns the JDK directory.
	PathToJDK(ctx context.Context, req Request) (string, error)
}

var providers = make(map[string]Provider)

// Register makes a Provider available under its Name().
func Register(p Provider) {
	providers[p.Name()] = p
}

// Get returns the Provider by name.
func Get(name string) (Provider, bool) {
	p, ok := providers[name]
	return p, ok
}

// Names lists the registered provider names.
func Names() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	return names
}

// Package cachedir derives cache keys for distribution requests and manages
// the cache root where unpacked JDKs live. A cache entry is a directory whose
// name is a deterministic function of the request; its existence is the whole
// record of a completed acquisition.
package cachedir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/open-edge-platform/jdk-provisioner/internal/utils/logger"
)

// EscapeFileName replaces characters that are unsafe in directory names
// with underscores.
func EscapeFileName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < 0x20, r == ' ', r == '\t':
			b.WriteByte('_')
		case strings.ContainsRune(`\/:*?"<>|`, r):
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Key canonicalizes a distribution request into the cache directory name
// <PROVIDER-TAG>_<type><version>_<os>_<arch>. Every field is trimmed,
// lower-cased and filename-escaped, so requests differing only in letter
// case or surrounding whitespace derive the same key.
func Key(providerTag, jdkType, version, osName, arch string) string {
	canon := func(s string) string {
		return EscapeFileName(strings.ToLower(strings.TrimSpace(s)))
	}
	return fmt.Sprintf("%s_%s%s_%s_%s",
		providerTag, canon(jdkType), canon(version), canon(osName), canon(arch))
}

// Prepare resolves root to an absolute path, creates it when absent and
// verifies it is usable as a cache directory. The caller owns choosing the
// location; this only guards against an unusable one.
func Prepare(root string) (string, error) {
	log := logger.Logger()

	if strings.TrimSpace(root) == "" {
		return "", fmt.Errorf("path to the cache folder is not provided")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving cache folder %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		log.Infof("creating cache folder: %s", abs)
		if err := os.MkdirAll(abs, 0755); err != nil {
			return "", fmt.Errorf("creating cache folder %s: %w", abs, err)
		}
	case err != nil:
		return "", fmt.Errorf("checking cache folder %s: %w", abs, err)
	case !info.IsDir():
		return "", fmt.Errorf("cache folder path %s is not a directory", abs)
	}

	// Probe for write access; os.Stat can't tell us.
	probe, err := os.CreateTemp(abs, ".probe-*")
	if err != nil {
		return "", fmt.Errorf("can't write to the cache folder, check rights: %s", abs)
	}
	probe.Close()
	os.Remove(probe.Name())

	return abs, nil
}

// NewStagingDir creates a fresh scratch directory under the cache root.
// Download and unpack work happens there and is renamed into the final
// cache path only after success, so an interrupted acquisition never leaves
// a directory that looks like a valid cache entry.
func NewStagingDir(root string) (string, error) {
	dir := filepath.Join(root, ".staging-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating staging folder %s: %w", dir, err)
	}
	return dir, nil
}

package system_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/open-edge-platform/jdk-provisioner/internal/utils/system"
)

func TestCurrentOS(t *testing.T) {
	got := system.CurrentOS()
	switch runtime.GOOS {
	case "windows":
		if got != "windows" {
			t.Errorf("CurrentOS = %q", got)
		}
	case "darwin":
		if got != "macos" {
			t.Errorf("CurrentOS = %q", got)
		}
	default:
		if got != "linux" {
			t.Errorf("CurrentOS = %q", got)
		}
	}
}

func TestEnsureExecutableExtension(t *testing.T) {
	got := system.EnsureExecutableExtension("jlink")
	if runtime.GOOS == "windows" {
		if got != "jlink.exe" {
			t.Errorf("got %q, want jlink.exe", got)
		}
	} else if got != "jlink" {
		t.Errorf("got %q, want jlink", got)
	}
}

func TestCurrentArchIsNonEmpty(t *testing.T) {
	if arch := system.CurrentArch(); strings.TrimSpace(arch) == "" {
		t.Error("CurrentArch returned an empty token")
	}
}

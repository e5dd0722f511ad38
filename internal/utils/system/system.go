package system

import "runtime"

// CurrentOS returns the vendor catalog token for the running platform.
// Vendor archives are published for linux, windows and macos.
func CurrentOS() string {
	switch runtime.GOOS {
	case "windows":
		return "windows"
	case "darwin":
		return "macos"
	default:
		return "linux"
	}
}

// CurrentArch maps the Go architecture name to the token used in vendor
// archive filenames.
func CurrentArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "amd64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i586"
	default:
		return runtime.GOARCH
	}
}

// EnsureExecutableExtension appends the platform executable suffix to a
// tool name when the platform requires one.
func EnsureExecutableExtension(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

package provider

import "fmt"

// ConfigError reports a required request field that was absent. It is
// raised before any network or filesystem work.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("required request field %q is not provided", e.Field)
}

// OfflineError reports a cache miss while offline mode is in effect. No
// network call was attempted.
type OfflineError struct {
	CacheKey string
}

func (e *OfflineError) Error() string {
	return fmt.Sprintf("unpacked %q is not found, stopping process because offline mode is active", e.CacheKey)
}

// NotFoundError reports that the whole catalog was scanned without a match.
// Report carries the scanned records for diagnosis.
type NotFoundError struct {
	Request Request
	Report  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("can't find release for version='%s', type='%s', os='%s', arch='%s'",
		e.Request.Version, e.Request.Type, e.Request.OS, e.Request.Arch)
}

// ExtractionError reports an archive that produced zero extracted files,
// which signals a wrong root-folder guess or a corrupt archive.
type ExtractionError struct {
	Archive  string
	RootName string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracted 0 files from archive %s, may be wrong root folder name: %q",
		e.Archive, e.RootName)
}

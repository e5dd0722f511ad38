package jdkrelease

import (
	"fmt"
	"strings"
)

// Record holds the parsed metadata for one downloadable vendor archive.
type Record struct {
	Type      string
	Version   string
	OS        string
	Arch      string
	FileName  string
	Link      string
	MimeType  string
	Extension string
	SizeBytes int64
}

func (r Record) String() string {
	return fmt.Sprintf("Release[type='%s',version='%s',os='%s',arch='%s',ext='%s']",
		r.Type, r.Version, r.OS, r.Arch, r.Extension)
}

// ParseError reports an asset filename that does not follow the vendor
// naming grammar. Callers log and discard the asset; a single bad entry
// never aborts catalog construction.
type ParseError struct {
	FileName string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("can't parse file name %q: %s", e.FileName, e.Reason)
}

const vendorPrefix = "bellsoft-"

// SupportedExtension returns the archive extension of name without the
// leading dot, or false when name is not a consumable archive. Only zip and
// tar.gz assets are candidates for acquisition.
func SupportedExtension(name string) (string, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"):
		return "tar.gz", true
	case strings.HasSuffix(lower, ".zip"):
		return "zip", true
	default:
		return "", false
	}
}

// ParseFileName parses a vendor asset filename following the grammar
// bellsoft-<type><version>-<os>-<arch>.<extension> into a Record. The
// returned error is always a *ParseError.
func ParseFileName(fileName, link, mime string, size int64) (Record, error) {
	fail := func(reason string) (Record, error) {
		return Record{}, &ParseError{FileName: fileName, Reason: reason}
	}

	if len(fileName) <= len(vendorPrefix) ||
		!strings.EqualFold(fileName[:len(vendorPrefix)], vendorPrefix) {
		return fail("missing vendor prefix")
	}
	core := fileName[len(vendorPrefix):]

	// <type><version>-<os>-<arch>.<extension>
	parts := strings.SplitN(core, "-", 3)
	if len(parts) != 3 {
		return fail("expected <type><version>-<os>-<arch>.<extension>")
	}
	typeVersion, osName, archExt := parts[0], parts[1], parts[2]

	jdkType, version := splitTypeVersion(typeVersion)
	if jdkType == "" || version == "" {
		return fail("missing type or version token")
	}
	if !allLetters(osName) {
		return fail("os segment must be alphabetic")
	}

	dot := strings.IndexByte(archExt, '.')
	if dot <= 0 || dot == len(archExt)-1 {
		return fail("missing architecture or extension")
	}
	arch, ext := archExt[:dot], archExt[dot+1:]

	return Record{
		Type:      jdkType,
		Version:   version,
		OS:        osName,
		Arch:      arch,
		FileName:  fileName,
		Link:      link,
		MimeType:  mime,
		Extension: ext,
		SizeBytes: size,
	}, nil
}

// splitTypeVersion cuts the leading alphabetic run (the type) from the
// version token that follows it, e.g. "jdk11.0.6+10" -> ("jdk", "11.0.6+10").
func splitTypeVersion(s string) (string, string) {
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func allLetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

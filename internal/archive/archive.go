// Package archive extracts vendor JDK archives. Vendor archives wrap the
// JDK tree in a single root folder; stripping it during extraction keeps
// the cache layout uniform across vendors.
package archive

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// entry is one archive member, normalized across formats.
type entry struct {
	name     string
	isDir    bool
	mode     os.FileMode
	linkname string
	open     func() (io.ReadCloser, error)
}

// FindShortestRoot returns the shortest top-level directory name found in
// the archive, the best guess for the vendor wrapping folder. An archive
// without directories yields an empty string.
func FindShortestRoot(archivePath string) (string, error) {
	shortest := ""
	err := walk(archivePath, func(e entry) error {
		name := normalize(e.name)
		var top string
		if i := strings.IndexByte(name, '/'); i > 0 {
			top = name[:i]
		} else if e.isDir && name != "" {
			top = name
		} else {
			return nil
		}
		if shortest == "" || len(top) < len(shortest) {
			shortest = top
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return shortest, nil
}

// Unpack extracts archivePath into destDir, stripping rootName from every
// member path so destDir directly contains the JDK tree. A pre-existing
// destDir is deleted first. The returned count covers regular files and
// symlinks; the caller treats zero as a failed extraction.
func Unpack(archivePath, destDir, rootName string) (int, error) {
	if _, err := os.Stat(destDir); err == nil {
		if err := os.RemoveAll(destDir); err != nil {
			return 0, fmt.Errorf("deleting existing target folder %s: %w", destDir, err)
		}
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return 0, fmt.Errorf("creating target folder %s: %w", destDir, err)
	}

	count := 0
	err := walk(archivePath, func(e entry) error {
		name, ok := stripRoot(normalize(e.name), rootName)
		if !ok || name == "" {
			return nil
		}

		target := filepath.Join(destDir, filepath.FromSlash(name))
		// reject members that would escape the destination
		if rel, err := filepath.Rel(destDir, target); err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("archive member %q escapes target folder", e.name)
		}

		switch {
		case e.isDir:
			return os.MkdirAll(target, 0755)
		case e.linkname != "":
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := os.Symlink(e.linkname, target); err != nil {
				return fmt.Errorf("creating symlink %s: %w", target, err)
			}
			count++
			return nil
		default:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			src, err := e.open()
			if err != nil {
				return fmt.Errorf("opening archive member %s: %w", e.name, err)
			}
			defer src.Close()

			mode := e.mode.Perm()
			if mode == 0 {
				mode = 0644
			}
			dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
			if err != nil {
				return fmt.Errorf("creating file %s: %w", target, err)
			}
			if _, err := io.Copy(dst, src); err != nil {
				dst.Close()
				return fmt.Errorf("extracting %s: %w", e.name, err)
			}
			if err := dst.Close(); err != nil {
				return err
			}
			count++
			return nil
		}
	})
	if err != nil {
		return count, err
	}
	return count, nil
}

func normalize(name string) string {
	name = path.Clean(filepath.ToSlash(name))
	if name == "." || name == "/" {
		return ""
	}
	return strings.TrimPrefix(name, "/")
}

// stripRoot removes the wrapping rootName from a member path. Members
// outside the root (stray top-level files in a wrapped archive) are skipped.
func stripRoot(name, rootName string) (string, bool) {
	if rootName == "" {
		return name, true
	}
	if name == rootName {
		return "", false
	}
	if rest, found := strings.CutPrefix(name, rootName+"/"); found {
		return rest, true
	}
	return "", false
}

func walk(archivePath string, fn func(e entry) error) error {
	lower := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return walkZip(archivePath, fn)
	case strings.HasSuffix(lower, ".tar.gz"):
		return walkTar(archivePath, "gzip", fn)
	case strings.HasSuffix(lower, ".tar.xz"):
		return walkTar(archivePath, "xz", fn)
	default:
		return fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
	}
}

func walkZip(archivePath string, fn func(e entry) error) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip %s: %w", archivePath, err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		e := entry{
			name:  f.Name,
			isDir: f.FileInfo().IsDir(),
			mode:  f.Mode(),
			open:  func() (io.ReadCloser, error) { return f.Open() },
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func walkTar(archivePath, compression string, fn func(e entry) error) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer f.Close()

	var stream io.Reader
	switch compression {
	case "gzip":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("reading gzip stream of %s: %w", archivePath, err)
		}
		defer gz.Close()
		stream = gz
	case "xz":
		xzr, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("reading xz stream of %s: %w", archivePath, err)
		}
		stream = xzr
	}

	tr := tar.NewReader(stream)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar stream of %s: %w", archivePath, err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir, tar.TypeReg, tar.TypeSymlink:
		default:
			continue
		}

		e := entry{
			name:  hdr.Name,
			isDir: hdr.Typeflag == tar.TypeDir,
			mode:  hdr.FileInfo().Mode(),
			open: func() (io.ReadCloser, error) {
				return io.NopCloser(tr), nil
			},
		}
		if hdr.Typeflag == tar.TypeSymlink {
			e.linkname = hdr.Linkname
		}
		if err := fn(e); err != nil {
			return err
		}
	}
}

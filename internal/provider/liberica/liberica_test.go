package liberica_test

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	"github.com/open-edge-platform/jdk-provisioner/internal/cachedir"
	"github.com/open-edge-platform/jdk-provisioner/internal/provider"
	"github.com/open-edge-platform/jdk-provisioner/internal/provider/liberica"
)

const archiveName = "bellsoft-jdk11.0.6+10-linux-amd64.tar.gz"

// buildArchive returns a tar.gz with the usual vendor layout: one wrapping
// root folder holding the JDK tree.
func buildArchive(t *testing.T, empty bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	write := func(hdr *tar.Header, body string) {
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if body != "" {
			if _, err := tw.Write([]byte(body)); err != nil {
				t.Fatal(err)
			}
		}
	}

	write(&tar.Header{Name: "jdk-11.0.6/", Typeflag: tar.TypeDir, Mode: 0755}, "")
	if !empty {
		write(&tar.Header{Name: "jdk-11.0.6/bin/", Typeflag: tar.TypeDir, Mode: 0755}, "")
		write(&tar.Header{Name: "jdk-11.0.6/bin/java", Typeflag: tar.TypeReg, Mode: 0755, Size: 5}, "#java")
		write(&tar.Header{Name: "jdk-11.0.6/release", Typeflag: tar.TypeReg, Mode: 0644, Size: 19}, "JAVA_VERSION=11.0.6")
	}

	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// buildXzArchive returns the same vendor layout repacked as tar.xz, the
// format accepted only via manual pre-staging.
func buildXzArchive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	xzw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	tw := tar.NewWriter(xzw)

	write := func(hdr *tar.Header, body string) {
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if body != "" {
			if _, err := tw.Write([]byte(body)); err != nil {
				t.Fatal(err)
			}
		}
	}

	write(&tar.Header{Name: "jdk-11.0.6/", Typeflag: tar.TypeDir, Mode: 0755}, "")
	write(&tar.Header{Name: "jdk-11.0.6/bin/", Typeflag: tar.TypeDir, Mode: 0755}, "")
	write(&tar.Header{Name: "jdk-11.0.6/bin/java", Typeflag: tar.TypeReg, Mode: 0755, Size: 5}, "#java")

	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := xzw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// catalogServer serves a single-release catalog on page 1 and an empty page
// afterwards, plus the archive asset itself. It counts every request.
type catalogServer struct {
	server       *httptest.Server
	pageFetches  int
	assetFetches int
	archive      []byte
	withMatch    bool
}

func newCatalogServer(t *testing.T, archive []byte, withMatch bool) *catalogServer {
	t.Helper()
	cs := &catalogServer{archive: archive, withMatch: withMatch}
	cs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/releases"):
			cs.pageFetches++
			page := r.URL.Query().Get("page")
			if page != "1" || !cs.withMatch {
				fmt.Fprint(w, "[]")
				return
			}
			fmt.Fprintf(w, `[{"tag_name":"11.0.6+10","draft":false,"prerelease":false,"assets":[
				{"name":"bellsoft-jdk11.0.6+10-linux-amd64.zip","content_type":"application/zip","size":1,"browser_download_url":"%s/dl/zip"},
				{"name":%q,"content_type":"application/gzip","size":%d,"browser_download_url":"%s/dl/targz"}
			]}]`, cs.server.URL, archiveName, len(cs.archive), cs.server.URL)
		case r.URL.Path == "/dl/targz":
			cs.assetFetches++
			w.Write(cs.archive)
		case r.URL.Path == "/dl/zip":
			cs.assetFetches++
			t.Error("zip asset downloaded, tar.gz must be preferred")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(cs.server.Close)
	return cs
}

func newProvider(cs *catalogServer, cacheRoot string, offline bool) *liberica.Provider {
	return liberica.New(liberica.Options{
		CacheRoot:  cacheRoot,
		CatalogURL: cs.server.URL + "/releases",
		HTTPClient: cs.server.Client(),
		Offline:    offline,
	})
}

func TestAcquireAndReuse(t *testing.T) {
	cs := newCatalogServer(t, buildArchive(t, false), true)
	cacheRoot := t.TempDir()
	p := newProvider(cs, cacheRoot, false)

	req := provider.Request{Type: "jdk", Version: "11.0.*", Arch: "amd64", OS: "linux"}
	path, err := p.PathToJDK(context.Background(), req)
	if err != nil {
		t.Fatalf("PathToJDK: %v", err)
	}

	wantKey := cachedir.Key("LIBERICA", "jdk", "11.0.*", "linux", "amd64")
	if filepath.Base(path) != wantKey {
		t.Errorf("cache entry name %q, want %q", filepath.Base(path), wantKey)
	}
	if _, err := os.Stat(filepath.Join(path, "bin", "java")); err != nil {
		t.Errorf("unpacked JDK misses bin/java: %v", err)
	}
	if cs.pageFetches != 1 {
		t.Errorf("page fetches = %d, want 1", cs.pageFetches)
	}
	if cs.assetFetches != 1 {
		t.Errorf("asset fetches = %d, want 1", cs.assetFetches)
	}

	// archive is deleted after unpack when retention was not requested
	if _, err := os.Stat(filepath.Join(cacheRoot, archiveName)); !os.IsNotExist(err) {
		t.Error("archive survived cleanup without keep-archive")
	}
	// no staging leftovers
	entries, _ := os.ReadDir(cacheRoot)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".staging-") {
			t.Errorf("staging dir %s left behind", e.Name())
		}
	}

	// second call, case- and whitespace-varied: same path, zero network calls
	again, err := p.PathToJDK(context.Background(), provider.Request{
		Type: " JDK ", Version: "11.0.* ", Arch: "AMD64", OS: "Linux",
	})
	if err != nil {
		t.Fatalf("second PathToJDK: %v", err)
	}
	if again != path {
		t.Errorf("second call returned %q, want %q", again, path)
	}
	if cs.pageFetches != 1 || cs.assetFetches != 1 {
		t.Errorf("cache hit performed network calls: pages=%d assets=%d", cs.pageFetches, cs.assetFetches)
	}
}

func TestKeepArchive(t *testing.T) {
	cs := newCatalogServer(t, buildArchive(t, false), true)
	cacheRoot := t.TempDir()
	p := newProvider(cs, cacheRoot, false)

	req := provider.Request{Type: "jdk", Version: "11.0.*", Arch: "amd64", OS: "linux", KeepArchive: true}
	if _, err := p.PathToJDK(context.Background(), req); err != nil {
		t.Fatalf("PathToJDK: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cacheRoot, archiveName)); err != nil {
		t.Errorf("archive missing despite keep-archive: %v", err)
	}
}

func TestPreStagedTarXzSkipsDownload(t *testing.T) {
	cs := newCatalogServer(t, buildArchive(t, false), true)
	cacheRoot := t.TempDir()
	p := newProvider(cs, cacheRoot, false)

	// repacked archive placed in the cache root ahead of the acquisition
	stagedName := strings.TrimSuffix(archiveName, ".tar.gz") + ".tar.xz"
	if err := os.WriteFile(filepath.Join(cacheRoot, stagedName), buildXzArchive(t), 0644); err != nil {
		t.Fatal(err)
	}

	req := provider.Request{Type: "jdk", Version: "11.0.*", Arch: "amd64", OS: "linux"}
	path, err := p.PathToJDK(context.Background(), req)
	if err != nil {
		t.Fatalf("PathToJDK: %v", err)
	}

	if cs.assetFetches != 0 {
		t.Errorf("asset fetches = %d, want 0 with a pre-staged archive", cs.assetFetches)
	}
	if _, err := os.Stat(filepath.Join(path, "bin", "java")); err != nil {
		t.Errorf("unpacked JDK misses bin/java: %v", err)
	}
	// the staged archive follows the usual retention policy
	if _, err := os.Stat(filepath.Join(cacheRoot, stagedName)); !os.IsNotExist(err) {
		t.Error("staged archive survived cleanup without keep-archive")
	}
}

func TestOfflineGuard(t *testing.T) {
	cs := newCatalogServer(t, nil, true)
	p := newProvider(cs, t.TempDir(), true)

	req := provider.Request{Type: "jdk", Version: "11.0.*", Arch: "amd64", OS: "linux"}
	_, err := p.PathToJDK(context.Background(), req)

	var offlineErr *provider.OfflineError
	if !errors.As(err, &offlineErr) {
		t.Fatalf("error = %v, want *OfflineError", err)
	}
	if cs.pageFetches != 0 || cs.assetFetches != 0 {
		t.Errorf("offline mode performed network calls: pages=%d assets=%d", cs.pageFetches, cs.assetFetches)
	}
}

func TestPaginationTermination(t *testing.T) {
	cs := newCatalogServer(t, nil, true)
	p := newProvider(cs, t.TempDir(), false)

	// page 1 has releases but none match this request; page 2 is empty
	req := provider.Request{Type: "jdk", Version: "15.*", Arch: "amd64", OS: "linux"}
	_, err := p.PathToJDK(context.Background(), req)

	var notFound *provider.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if cs.pageFetches != 2 {
		t.Errorf("page fetches = %d, want exactly 2", cs.pageFetches)
	}
	if !strings.Contains(notFound.Report, "11.0.6+10") {
		t.Errorf("not-found report misses scanned releases: %q", notFound.Report)
	}
}

func TestExtractionFailure(t *testing.T) {
	cs := newCatalogServer(t, buildArchive(t, true), true)
	cacheRoot := t.TempDir()
	p := newProvider(cs, cacheRoot, false)

	req := provider.Request{Type: "jdk", Version: "11.0.*", Arch: "amd64", OS: "linux"}
	_, err := p.PathToJDK(context.Background(), req)

	var extractErr *provider.ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("error = %v, want *ExtractionError", err)
	}

	// the failed acquisition must not look like a valid cache entry
	key := cachedir.Key("LIBERICA", "jdk", "11.0.*", "linux", "amd64")
	if _, err := os.Stat(filepath.Join(cacheRoot, key)); !os.IsNotExist(err) {
		t.Error("cache entry exists after extraction failure")
	}
}

func TestMissingRequiredFields(t *testing.T) {
	cs := newCatalogServer(t, nil, true)
	p := newProvider(cs, t.TempDir(), false)

	for _, req := range []provider.Request{
		{Version: "11.*", Arch: "amd64"},
		{Type: "jdk", Arch: "amd64"},
		{Type: "jdk", Version: "11.*"},
	} {
		_, err := p.PathToJDK(context.Background(), req)
		var cfgErr *provider.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("request %+v: error = %v, want *ConfigError", req, err)
		}
	}
	if cs.pageFetches != 0 {
		t.Errorf("validation failures performed %d network calls", cs.pageFetches)
	}
}

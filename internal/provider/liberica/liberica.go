// Package liberica acquires prebuilt OpenJDK archives published by the
// Liberica project through its GitHub release catalog.
package liberica

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/open-edge-platform/jdk-provisioner/internal/archive"
	"github.com/open-edge-platform/jdk-provisioner/internal/cachedir"
	"github.com/open-edge-platform/jdk-provisioner/internal/fetch"
	"github.com/open-edge-platform/jdk-provisioner/internal/jdkrelease"
	"github.com/open-edge-platform/jdk-provisioner/internal/provider"
	"github.com/open-edge-platform/jdk-provisioner/internal/utils/logger"
	"github.com/open-edge-platform/jdk-provisioner/internal/utils/system"
)

// ReleasesURL is the default release catalog endpoint.
const ReleasesURL = "https://api.github.com/repos/bell-sw/Liberica/releases"

const providerTag = "LIBERICA"

// Options configures a Provider.
type Options struct {
	// CacheRoot is the directory holding unpacked JDK cache entries.
	CacheRoot string
	// CatalogURL overrides the release catalog endpoint, mainly for
	// mirrors and tests. Empty selects ReleasesURL.
	CatalogURL string
	// HTTPClient performs catalog and asset requests. Must not be nil.
	HTTPClient *http.Client
	// Offline forbids any network access; only cached JDKs resolve.
	Offline bool
	// ShowProgress renders a progress bar during downloads.
	ShowProgress bool
}

// Provider resolves distribution requests against the Liberica catalog,
// caching unpacked JDKs under the configured cache root.
type Provider struct {
	cacheRoot string
	offline   bool
	catalog   *jdkrelease.Client
	fetcher   *fetch.Downloader
}

// New builds a Provider from Options.
func New(opts Options) *Provider {
	catalogURL := opts.CatalogURL
	if catalogURL == "" {
		catalogURL = ReleasesURL
	}
	return &Provider{
		cacheRoot: opts.CacheRoot,
		offline:   opts.Offline,
		catalog:   &jdkrelease.Client{BaseURL: catalogURL, HTTP: opts.HTTPClient},
		fetcher:   &fetch.Downloader{Client: opts.HTTPClient, ShowProgress: opts.ShowProgress},
	}
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return "liberica" }

// PathToJDK resolves req to a locally cached, unpacked JDK directory,
// fetching and unpacking it from the remote catalog when not already
// cached. The call is idempotent: a cache hit returns immediately with no
// network access.
func (p *Provider) PathToJDK(ctx context.Context, req provider.Request) (string, error) {
	log := logger.Logger()

	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return "", err
	}
	if req.OS == "" {
		req.OS = system.CurrentOS()
		log.Debugf("default os recognized as: %s", req.OS)
	}

	root, err := cachedir.Prepare(p.cacheRoot)
	if err != nil {
		return "", err
	}

	key := cachedir.Key(providerTag, req.Type, req.Version, req.OS, req.Arch)
	target := filepath.Join(root, key)

	if info, err := os.Stat(target); err == nil && info.IsDir() {
		log.Infof("found cached JDK: %s", key)
		return target, nil
	}

	if p.offline {
		return "", &provider.OfflineError{CacheKey: key}
	}
	log.Infof("can't find cached: %s", key)

	release, err := p.findRelease(ctx, req)
	if err != nil {
		return "", err
	}

	if err := p.downloadAndUnpack(ctx, root, target, release, req.KeepArchive); err != nil {
		return "", err
	}
	return target, nil
}

// findRelease drives the paginated catalog scan. Pages are fetched
// sequentially from 1; the scan stops as soon as the accumulated catalog
// matches the request or a freshly fetched page comes back empty. On no
// match the full catalog is returned for the not-found report.
func (p *Provider) findRelease(ctx context.Context, req provider.Request) (jdkrelease.Record, error) {
	log := logger.Logger()

	var catalog jdkrelease.Catalog
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return jdkrelease.Record{}, fmt.Errorf("catalog scan interrupted: %w", err)
		}

		log.Debugf("loading releases page: %d", page)
		records, err := p.catalog.FetchPage(ctx, page)
		if err != nil {
			return jdkrelease.Record{}, err
		}
		catalog.Add(records...)

		matches := catalog.Find(req.Type, req.Version, req.OS, req.Arch)
		if len(matches) > 0 {
			log.Debugf("found releases: %v", matches)
			release, _ := jdkrelease.SelectPreferred(matches)
			return release, nil
		}
		if len(records) == 0 {
			log.Warnf("scanned releases\n%s", catalog.Report())
			return jdkrelease.Record{}, &provider.NotFoundError{Request: req, Report: catalog.Report()}
		}
	}
}

// stagedArchive looks for an archive of the release already present in the
// cache root. Besides the exact asset name, a repacked <base>.tar.xz placed
// next to the cache entries is honored, so manually pre-staged archives of
// either kind skip the download.
func stagedArchive(root string, release jdkrelease.Record) (string, bool) {
	base := strings.TrimSuffix(release.FileName, "."+release.Extension)
	for _, name := range []string{release.FileName, base + ".tar.xz"} {
		path := filepath.Join(root, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// downloadAndUnpack materializes the release at target. All work happens in
// a staging directory under the cache root which is renamed into place only
// after a successful unpack, so failures never leave a directory that looks
// like a valid cache entry.
func (p *Provider) downloadAndUnpack(ctx context.Context, root, target string, release jdkrelease.Record, keepArchive bool) error {
	log := logger.Logger()

	archivePath := filepath.Join(root, release.FileName)
	if staged, ok := stagedArchive(root, release); ok {
		log.Infof("detected already loaded archive: %s", filepath.Base(staged))
		archivePath = staged
	} else if _, err := p.fetcher.Download(ctx, release.Link, archivePath, release.MimeType); err != nil {
		return err
	}

	staging, err := cachedir.NewStagingDir(root)
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging)

	rootName, err := archive.FindShortestRoot(archivePath)
	if err != nil {
		return err
	}
	log.Debugf("root archive folder: %q", rootName)

	log.Infof("unpacking archive...")
	unpackDir := filepath.Join(staging, "jdk")
	count, err := archive.Unpack(archivePath, unpackDir, rootName)
	if err != nil {
		return err
	}
	if count == 0 {
		return &provider.ExtractionError{Archive: release.FileName, RootName: rootName}
	}
	log.Infof("archive has been unpacked successfully, extracted %d files", count)

	if _, err := os.Stat(target); err == nil {
		log.Infof("detected existing target folder, deleting it: %s", filepath.Base(target))
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("deleting target folder %s: %w", target, err)
		}
	}
	if err := os.Rename(unpackDir, target); err != nil {
		return fmt.Errorf("moving unpacked JDK into cache: %w", err)
	}

	if keepArchive {
		log.Infof("keep downloaded archive file in cache: %s", archivePath)
	} else {
		log.Infof("deleting archive: %s", archivePath)
		if err := os.Remove(archivePath); err != nil {
			return fmt.Errorf("deleting archive %s: %w", archivePath, err)
		}
	}
	return nil
}

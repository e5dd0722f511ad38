package jdkrelease

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/open-edge-platform/jdk-provisioner/internal/utils/logger"
)

// AcceptMediaType selects the versioned JSON representation of the release
// catalog endpoint.
const AcceptMediaType = "application/vnd.github.v3+json"

// PageSize is the number of release entries requested per catalog page.
const PageSize = 100

// Catalog is the in-memory accumulation of release records across one or
// more paginated fetches. Records keep their fetch order so downstream
// tie-breaking stays deterministic.
type Catalog struct {
	records []Record
}

// Add appends records in fetch order.
func (c *Catalog) Add(records ...Record) {
	c.records = append(c.records, records...)
}

// Len returns the number of accumulated records.
func (c *Catalog) Len() int { return len(c.records) }

// Find returns all records matching the request: exact case-insensitive
// equality on type, os and arch, wildcard matching on version. Catalog
// order is preserved.
func (c *Catalog) Find(jdkType, version, osName, arch string) []Record {
	var found []Record
	for _, r := range c.records {
		if !strings.EqualFold(r.Type, jdkType) {
			continue
		}
		if !strings.EqualFold(r.OS, osName) {
			continue
		}
		if !strings.EqualFold(r.Arch, arch) {
			continue
		}
		if !Match(version, r.Version) {
			continue
		}
		found = append(found, r)
	}
	return found
}

// Report renders one line per accumulated record, used to diagnose
// not-found failures after a full catalog scan.
func (c *Catalog) Report() string {
	lines := make([]string, 0, len(c.records))
	for _, r := range c.records {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}

// SelectPreferred picks the record to download when several releases match
// the same request, typically one per archive format. tar.gz wins over zip;
// otherwise the first record in catalog order is taken.
func SelectPreferred(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	for _, r := range records {
		if strings.EqualFold(r.Extension, "tar.gz") {
			return r, true
		}
	}
	return records[0], true
}

// Client fetches pages of a GitHub-style release catalog.
type Client struct {
	// BaseURL is the releases endpoint without query parameters.
	BaseURL string
	// HTTP performs the requests. Must not be nil.
	HTTP *http.Client
}

type releaseEntry struct {
	TagName    string       `json:"tag_name"`
	Draft      bool         `json:"draft"`
	Prerelease bool         `json:"prerelease"`
	Assets     []assetEntry `json:"assets"`
}

type assetEntry struct {
	Name               string `json:"name"`
	ContentType        string `json:"content_type"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// FetchPage retrieves one page of the remote catalog and parses every
// consumable asset into a Record. Draft and prerelease entries are dropped
// before parsing; assets with unparseable names are logged and skipped. An
// empty result means the upstream catalog is exhausted.
func (c *Client) FetchPage(ctx context.Context, page int) ([]Record, error) {
	log := logger.Logger()

	url := fmt.Sprintf("%s?per_page=%d&page=%d", c.BaseURL, PageSize, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}
	req.Header.Set("Accept", AcceptMediaType)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog page %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request %s returned status %d", url, resp.StatusCode)
	}

	var entries []releaseEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding catalog page %s: %w", url, err)
	}

	var records []Record
	for _, entry := range entries {
		if entry.TagName == "" {
			continue
		}
		if entry.Draft || entry.Prerelease {
			continue
		}
		for _, asset := range entry.Assets {
			if _, ok := SupportedExtension(asset.Name); !ok {
				log.Debugf("ignoring non-unpackable asset: %s", asset.Name)
				continue
			}
			record, err := ParseFileName(asset.Name, asset.BrowserDownloadURL, asset.ContentType, asset.Size)
			if err != nil {
				log.Warnf("skipping asset: %v", err)
				continue
			}
			records = append(records, record)
		}
	}
	return records, nil
}

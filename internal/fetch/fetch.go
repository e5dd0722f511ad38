// Package fetch streams remote assets to local files while computing a
// content digest and reconciling it against server-provided integrity hints.
package fetch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/open-edge-platform/jdk-provisioner/internal/utils/logger"
)

// etagDigestPattern extracts a 32-character hex digest from an ETag-style
// header value. The header is not a contractual checksum, so anything it
// yields is advisory only.
var etagDigestPattern = regexp.MustCompile(`^"?([a-fA-F0-9]{32}).*"?$`)

// Outcome reports the advisory integrity reconciliation for one download.
// A mismatch never fails the acquisition.
type Outcome struct {
	// ExpectedDigest is the hex digest extracted from the response ETag,
	// empty when the header was absent or unparseable.
	ExpectedDigest string
	// ComputedDigest is the MD5 computed over the downloaded stream.
	ComputedDigest string
	// Matched is true when both digests are present and equal.
	Matched bool
	// Skipped is true when destPath already existed and no network
	// transfer happened.
	Skipped bool
}

// Downloader streams assets over a shared HTTP client.
type Downloader struct {
	// Client performs the requests. Must not be nil.
	Client *http.Client
	// ShowProgress renders a terminal progress bar during transfers.
	ShowProgress bool
}

// Download streams url into destPath, computing an MD5 digest over the
// stream and comparing it with any digest embedded in the response ETag.
// When destPath already exists as a regular file the download is skipped
// entirely; manually pre-staged archives are honored.
func (d *Downloader) Download(ctx context.Context, url, destPath, acceptMime string) (Outcome, error) {
	log := logger.Logger()

	if info, err := os.Stat(destPath); err == nil && info.Mode().IsRegular() {
		log.Infof("detected already loaded archive: %s", filepath.Base(destPath))
		return Outcome{Skipped: true}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Outcome{}, fmt.Errorf("building download request %s: %w", url, err)
	}
	if acceptMime != "" {
		req.Header.Set("Accept", acceptMime)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Outcome{}, fmt.Errorf("download %s returned status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return Outcome{}, fmt.Errorf("creating archive file %s: %w", destPath, err)
	}

	digest := md5.New()
	writer := io.MultiWriter(out, digest)

	var bar *progressbar.ProgressBar
	if d.ShowProgress {
		bar = progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetDescription(fmt.Sprintf("downloading %s", filepath.Base(destPath))),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
		)
		writer = io.MultiWriter(out, digest, bar)
	}

	_, copyErr := io.Copy(writer, resp.Body)
	closeErr := out.Close()
	if bar != nil {
		bar.Finish()
	}
	if copyErr != nil {
		os.Remove(destPath)
		return Outcome{}, fmt.Errorf("writing archive %s: %w", destPath, copyErr)
	}
	if closeErr != nil {
		os.Remove(destPath)
		return Outcome{}, fmt.Errorf("closing archive %s: %w", destPath, closeErr)
	}

	outcome := Outcome{ComputedDigest: hex.EncodeToString(digest.Sum(nil))}
	log.Infof("archive loaded, calculated MD5 digest is %s", outcome.ComputedDigest)

	reconcileETag(&outcome, resp.Header.Get("ETag"))
	return outcome, nil
}

// reconcileETag fills the expected digest from the ETag header and logs the
// comparison. Absent or unparseable headers and digest mismatches are all
// non-fatal: the hint is not guaranteed to be a true content hash.
func reconcileETag(outcome *Outcome, etag string) {
	log := logger.Logger()

	if etag == "" {
		log.Warnf("ETag is not presented in the response")
		return
	}

	m := etagDigestPattern.FindStringSubmatch(etag)
	if m == nil {
		log.Errorf("can't extract MD5 from ETag: %s", etag)
		return
	}

	outcome.ExpectedDigest = strings.ToLower(m[1])
	if strings.EqualFold(outcome.ComputedDigest, outcome.ExpectedDigest) {
		outcome.Matched = true
		log.Infof("calculated MD5 is equal to the ETag in response")
	} else {
		log.Warnf("calculated MD5 is not equal to the ETag in response: %s != %s",
			outcome.ComputedDigest, outcome.ExpectedDigest)
	}
}

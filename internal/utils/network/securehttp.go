package network

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"
)

// ClientOptions controls transport behavior for catalog and asset requests.
type ClientOptions struct {
	// ProxyURL routes all requests through the given proxy when non-empty.
	ProxyURL string
	// DisableTLSCheck skips server certificate verification. Only for
	// environments with intercepting proxies.
	DisableTLSCheck bool
	// Timeout bounds a whole request including body read. Zero means no
	// client-side timeout.
	Timeout time.Duration
}

// NewHTTPClient returns an http.Client with a custom TLS configuration.
// Callers reuse this instead of re-defining transport settings everywhere.
func NewHTTPClient(opts ClientOptions) (*http.Client, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS13,
	}
	if opts.DisableTLSCheck {
		tlsConfig.InsecureSkipVerify = true
	}

	transport := &http.Transport{
		TLSClientConfig:   tlsConfig,
		ForceAttemptHTTP2: true,
		Proxy:             http.ProxyFromEnvironment,
	}

	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}, nil
}

// Package httpclient builds the outbound HTTP clients shared by the data
// fetchers and the Telegram notifier.
package httpclient

import (
	"net/http"
	"net/url"
	"time"
)

// New returns a client with the given timeout, routed through proxyURL
// when one is configured. An unparseable proxy URL falls back to a direct
// connection rather than failing startup.
func New(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

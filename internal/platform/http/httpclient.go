// Package http builds the outbound HTTP client shared by the cloud SDK clients.
package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultTimeout bounds a whole outbound request, body included.
const DefaultTimeout = 30 * time.Second

// NewHTTPClient returns a client for calls to external APIs (S3, Gemini).
// http.DefaultClient has no timeout, so SDK clients are always given this one.
// Proxies are taken from HTTP_PROXY and friends.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

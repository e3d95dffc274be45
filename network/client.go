// Package network holds the HTTP client used for release checks.
package network

import (
	"net/http"
	"time"

	"github.com/vidsel-cli/vidsel/constant"
)

// Client is shared by everything that talks HTTP.
var Client = &http.Client{
	Timeout:   10 * time.Second,
	Transport: &userAgent{next: newTransport()},
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 10 * time.Second
	return t
}

type userAgent struct {
	next http.RoundTripper
}

func (u *userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", constant.Vidsel+"/"+constant.Version)
	return u.next.RoundTrip(req)
}

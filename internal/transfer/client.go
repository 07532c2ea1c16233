// Package transfer implements the HTTPS download/upload client: resumable
// downloads via Range headers, bounded redirects, response classification,
// retry with exponential backoff and jitter, and progress events.
package transfer

import (
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"factorix/internal/eventbus"
)

// Client is an HTTPS transfer client publishing progress events on bus.
type Client struct {
	http          *http.Client
	bus           *eventbus.Bus
	maxRedirects  int
	maxAttempts   int
	baseBackoff   time.Duration
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithMaxAttempts overrides the default retry budget of 3 attempts.
func WithMaxAttempts(n int) Option { return func(c *Client) { c.maxAttempts = n } }

// WithMaxRedirects overrides the default redirect cap of 10.
func WithMaxRedirects(n int) Option { return func(c *Client) { c.maxRedirects = n } }

// NewClient builds a Client publishing transfer events on bus.
func NewClient(bus *eventbus.Bus, opts ...Option) *Client {
	c := &Client{
		bus:          bus,
		maxRedirects: 10,
		maxAttempts:  3,
		baseBackoff:  250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= c.maxRedirects {
				return &TooManyRedirectsError{Limit: c.maxRedirects}
			}
			return nil
		},
	}
	return c
}

// Do sends req once through the client's HTTP transport, with the
// redirect cap applied and no retries.
func (c *Client) Do(req *http.Request) (*http.Response, error) { return c.http.Do(req) }

func requireHTTPS(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" {
		return &URLError{URL: rawURL}
	}
	return nil
}

// classify turns a completed HTTP response into a typed error, or nil
// for any 2xx/206 status.
func classify(resp *http.Response, body string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusPartialContent:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &HTTPClientError{Status: resp.StatusCode, Body: body}
	case resp.StatusCode >= 500:
		return &HTTPServerError{Status: resp.StatusCode, Body: body}
	default:
		return fmt.Errorf("transfer: unexpected status %d", resp.StatusCode)
	}
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*HTTPServerError); ok {
		return true
	}
	if _, ok := err.(*NetworkTimeoutError); ok {
		return true
	}
	var netErr net.Error
	if asNetError(err, &netErr) {
		return true
	}
	return false
}

func asNetError(err error, target *net.Error) bool {
	for err != nil {
		if ne, ok := err.(net.Error); ok {
			*target = ne
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// backoff returns a jittered exponential delay for the given attempt
// number (0-based).
func (c *Client) backoff(attempt int) time.Duration {
	base := c.baseBackoff * time.Duration(1<<attempt)
	jitter := time.Duration(rand.Int64N(int64(base) + 1))
	return base/2 + jitter/2
}

func canonicalKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	for _, cred := range []string{"username", "token", "api_key"} {
		q.Del(cred)
	}
	u.RawQuery = q.Encode()
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + u.Path + "?" + u.RawQuery
}

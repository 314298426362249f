package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// ErrorKind classifies transport failures for precise attribution.
type ErrorKind string

const (
	ErrNetwork    ErrorKind = "network"
	ErrHTTPStatus ErrorKind = "http_status"
	ErrTimeout    ErrorKind = "timeout"
)

// TransportError wraps a failed request with its classification. Status is
// only set for ErrHTTPStatus.
type TransportError struct {
	Kind   ErrorKind
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case ErrHTTPStatus:
		return fmt.Sprintf("http status %d from %s", e.Status, e.URL)
	case ErrTimeout:
		return fmt.Sprintf("request to %s timed out: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client is a small hardened wrapper around http.Client. It applies one
// fixed timeout and always attaches an identifying User-Agent, because some
// providers reject default or empty agents. It never retries; retries are
// the caller's decision so failure attribution stays precise.
type Client struct {
	http      *http.Client
	userAgent string
}

// Options tune the transport client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// New constructs a transport client with sane connection-pool defaults.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "cryptomax/1.0"
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		http:      &http.Client{Timeout: timeout, Transport: transport},
		userAgent: userAgent,
	}
}

// Get fetches url and returns the raw response body. Extra headers are
// applied on top of the defaults; a non-2xx status is an ErrHTTPStatus.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Kind: ErrNetwork, URL: url, Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Kind: classify(err), URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Kind: classify(err), URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Kind: ErrHTTPStatus, URL: url, Status: resp.StatusCode}
	}

	return body, nil
}

func classify(err error) ErrorKind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ErrNetwork
}

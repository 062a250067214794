// Package scryfall is the only network abstraction of the mirror.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/arcanaland/gatherer/internal/errors"
)

const (
	defaultTimeout      = 30 * time.Second
	acceptHeader        = "application/json"
	errorBodyPreviewLen = 512
)

// Transport issues GET requests against the upstream API.
// FetchStream hands back the body unread so large payloads can be copied incrementally;
// the caller must close it.
type Transport interface {
	FetchJSON(ctx context.Context, url string, v any) error
	FetchStream(ctx context.Context, url string) (io.ReadCloser, error)
}

// Client is the HTTP implementation of Transport.
type Client struct {
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithRequestInterval keeps the starts of two requests at least d apart, as the
// API usage policy asks. Zero disables the limit.
func WithRequestInterval(d time.Duration) Option {
	return func(cl *Client) {
		if d <= 0 {
			cl.limiter = nil
			return
		}
		cl.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewClient creates a client that identifies itself with userAgent.
// No overall timeout is set on the default client: bulk downloads can take minutes,
// only connection setup and response headers are bounded.
func NewClient(userAgent string, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: defaultTimeout,
			},
		},
		userAgent: userAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchJSON GETs url and decodes the JSON body into v.
func (c *Client) FetchJSON(ctx context.Context, url string, v any) error {
	body, err := c.do(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if ctx.Err() != nil {
			return errors.Network("read "+url, err)
		}
		return errors.Decode("decode "+url, err)
	}
	// The body must hold exactly one JSON value.
	if _, err := dec.Token(); err != io.EOF {
		if ctx.Err() != nil {
			return errors.Network("read "+url, ctx.Err())
		}
		return errors.Decode("decode "+url, errors.New("trailing data after JSON value"))
	}
	return nil
}

// FetchStream GETs url and returns the response body.
func (c *Client) FetchStream(ctx context.Context, url string) (io.ReadCloser, error) {
	return c.do(ctx, url)
}

func (c *Client) do(ctx context.Context, url string) (io.ReadCloser, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Network("rate limit wait", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Network("create request", err)
	}

	// Headers required by the API usage policy: https://scryfall.com/docs/api
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Network("GET "+url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyPreviewLen))
		return nil, errors.Network("GET "+url, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(preview)),
		})
	}

	return resp.Body, nil
}

// StatusError records a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/arcanaland/gatherer/internal/errors"
)

// Fake is an in-memory Transport serving canned bodies by URL.
// It records every call, including failed ones.
type Fake struct {
	mu     sync.Mutex
	bodies map[string][]byte
	errs   map[string]error
	calls  []string
}

var _ Transport = (*Fake)(nil)

// NewFake creates an empty Fake.
func NewFake() *Fake {
	return &Fake{
		bodies: make(map[string][]byte),
		errs:   make(map[string]error),
	}
}

// Serve registers body for url.
func (f *Fake) Serve(url string, body []byte) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[url] = body
	return f
}

// ServeJSON registers the JSON encoding of v for url.
func (f *Fake) ServeJSON(url string, v any) *Fake {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return f.Serve(url, b)
}

// Fail makes every request to url return err.
func (f *Fake) Fail(url string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[url] = err
	return f
}

// Calls returns the requested URLs in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how often url was requested.
func (f *Fake) CallCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == url {
			n++
		}
	}
	return n
}

// FetchJSON decodes the canned body for url into v.
func (f *Fake) FetchJSON(ctx context.Context, url string, v any) error {
	body, err := f.lookup(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Decode("decode "+url, err)
	}
	return nil
}

// FetchStream returns the canned body for url.
func (f *Fake) FetchStream(ctx context.Context, url string) (io.ReadCloser, error) {
	body, err := f.lookup(ctx, url)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (f *Fake) lookup(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, url)

	if err := ctx.Err(); err != nil {
		return nil, errors.Network("GET "+url, err)
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, errors.Network("GET "+url, &StatusError{StatusCode: http.StatusNotFound})
	}
	return body, nil
}

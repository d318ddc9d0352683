package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/cache"
	"github.com/matzehuels/bpview/pkg/errors"
	"github.com/matzehuels/bpview/pkg/observability"
)

const (
	// DefaultBaseURL is the blueprint service the viewer talks to when no
	// base URL is configured.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 10 * time.Second

	maxBodySize = 32 << 20
	cacheKind   = "http"
)

// StatusError reports a non-2xx answer from the blueprint service.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPSource fetches blueprints from the blueprint REST service.
type HTTPSource struct {
	base    string
	http    *http.Client
	headers map[string]string
	cache   cache.Cache
	ttl     time.Duration
}

// HTTPOption configures an [HTTPSource].
type HTTPOption func(*HTTPSource)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) { s.http = c }
}

// WithTimeout sets the request timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			s.http.Timeout = d
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(s *HTTPSource) { s.headers[key] = value }
}

// WithCache enables the response cache. Responses are stored under their
// URL for ttl. The source takes ownership of c and closes it on Close.
func WithCache(c cache.Cache, ttl time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		s.cache = c
		s.ttl = ttl
	}
}

// NewHTTPSource creates a source for the service at base. An empty base
// selects [DefaultBaseURL].
func NewHTTPSource(base string, opts ...HTTPOption) (*HTTPSource, error) {
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid base URL %q", base)
	}

	s := &HTTPSource{
		base:    strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		headers: map[string]string{"Accept": "application/json"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// URL returns the endpoint queried for author.
func (s *HTTPSource) URL(author string) string {
	if author == "" {
		return s.base + "/blueprints"
	}
	return s.base + "/blueprints/" + url.PathEscape(author)
}

// Fetch returns the blueprints of author, served from the cache when one
// is configured and holds a live entry.
func (s *HTTPSource) Fetch(ctx context.Context, author string) (blueprint.Set, error) {
	return s.fetch(ctx, author, false)
}

// Refresh fetches like [HTTPSource.Fetch] but bypasses the cache and
// stores the fresh response.
func (s *HTTPSource) Refresh(ctx context.Context, author string) (blueprint.Set, error) {
	return s.fetch(ctx, author, true)
}

func (s *HTTPSource) Name() string { return "http" }

// Close releases idle connections and closes the response cache, if any.
func (s *HTTPSource) Close() error {
	s.http.CloseIdleConnections()
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

func (s *HTTPSource) cached() bool { return s.cache != nil && s.ttl > 0 }

func (s *HTTPSource) fetch(ctx context.Context, author string, refresh bool) (blueprint.Set, error) {
	if err := errors.ValidatePathSegment("author", author); err != nil {
		return nil, err
	}
	return observe(ctx, s.Name(), author, func() (blueprint.Set, error) {
		u := s.URL(author)
		key := cache.Key(cacheKind, u)

		if s.cached() && !refresh {
			if data, ok, _ := s.cache.Get(ctx, key); ok {
				if set, err := blueprint.ReadJSON(bytes.NewReader(data)); err == nil {
					observability.Cache().OnCacheHit(ctx, cacheKind)
					return set, nil
				}
			}
			observability.Cache().OnCacheMiss(ctx, cacheKind)
		}

		body, err := s.get(ctx, u)
		if err != nil {
			return nil, err
		}
		set, err := blueprint.ReadJSON(bytes.NewReader(body))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidResponse, err, "malformed response from %s", u)
		}

		if s.cached() {
			if err := s.cache.Set(ctx, key, body, s.ttl); err == nil {
				observability.Cache().OnCacheSet(ctx, cacheKind, len(body))
			}
		}
		return set, nil
	})
}

func (s *HTTPSource) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := s.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		if resp.StatusCode == http.StatusNotFound {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "no blueprints at %s", rawURL)
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read response from %s", rawURL)
	}
	return body, nil
}

func checkStatus(code int) error {
	if code >= 200 && code < 300 {
		return nil
	}
	return &StatusError{StatusCode: code}
}

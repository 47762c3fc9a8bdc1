package overseerr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/five82/usher/internal/logging"
)

// Requester executes endpoints. dest receives the decoded JSON body; a nil
// dest discards the body. *Client implements it; tests substitute fakes.
type Requester interface {
	Request(ctx context.Context, ep Endpoint, dest any) error
}

// Ensure Client implements Requester at compile time.
var _ Requester = (*Client)(nil)

// Client talks to the Overseerr HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	breakers  *breakerSet

	mu     sync.RWMutex
	apiKey string
}

const (
	// DefaultBaseURL is where a local Overseerr install serves its API.
	DefaultBaseURL   = "http://localhost:5055/api/v1"
	defaultUserAgent = "usher/0.1"
	requestTimeout   = 15 * time.Second
	maxDrainBytes    = 64 << 10
)

// Option customizes a Client.
type Option func(*Client)

// WithAPIKey sets the X-Api-Key header value.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = strings.TrimSpace(key) }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithBreaker toggles the per-host circuit breaker (enabled by default).
func WithBreaker(enabled bool) Option {
	return func(c *Client) { c.breakers.enabled = enabled }
}

// NewClient builds a Client rooted at baseURL (for example
// "http://localhost:5055/api/v1"). The default transport keeps cookies so
// the session set by /auth/local or /auth/plex carries over to later calls.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
		userAgent: defaultUserAgent,
		breakers:  newBreakerSet(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns a copy of the configured base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// SetAPIKey replaces the API key used by subsequent requests. Requests that
// already started keep the key they were built with.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = strings.TrimSpace(key)
}

// APIKey returns the configured API key.
func (c *Client) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// WithAPIKey returns a new client that shares transport and breakers with c
// but carries its own API key.
func (c *Client) WithAPIKey(key string) *Client {
	return &Client{
		baseURL:   c.BaseURL(),
		http:      c.http,
		userAgent: c.userAgent,
		breakers:  c.breakers,
		apiKey:    strings.TrimSpace(key),
	}
}

// Send executes ep and discards the response body.
func (c *Client) Send(ctx context.Context, ep Endpoint) error {
	return c.Request(ctx, ep, nil)
}

// Request executes ep. Statuses outside 200-299 fail with *RequestFailedError
// without reading the body into dest.
func (c *Client) Request(ctx context.Context, ep Endpoint, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	log := logging.For(logging.Network)

	req, err := c.newRequest(ctx, ep)
	if err != nil {
		log.Error().Err(err).Str("endpoint", ep.String()).Msg("build request failed")
		return err
	}
	log.Info().Str("method", req.Method).Str("url", req.URL.Redacted()).Msg("request")

	resp, err := c.execute(req)
	if err != nil {
		log.Error().Err(err).Str("endpoint", ep.String()).Msg("request failed")
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode <= 0 {
		log.Error().Str("endpoint", ep.String()).Msg("response without status")
		return fmt.Errorf("%w: %s returned no status", ErrUnknown, ep.String())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		failure := &RequestFailedError{StatusCode: resp.StatusCode, Method: req.Method, Path: ep.Path()}
		log.Error().Int("status", resp.StatusCode).Str("endpoint", ep.String()).Msg("request failed with status")
		return failure
	}
	if dest == nil {
		drain(resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrUnknown, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		log.Error().Str("endpoint", ep.String()).Msg("empty response body")
		return fmt.Errorf("%w: %s: empty body", ErrDecodingFailed, ep.String())
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Error().Err(err).Str("endpoint", ep.String()).Msg("decode response failed")
		return fmt.Errorf("%w: %s: %w", ErrDecodingFailed, ep.String(), err)
	}
	return nil
}

// Fetch executes ep and decodes the response into a T.
func Fetch[T any](ctx context.Context, r Requester, ep Endpoint) (T, error) {
	var out T
	if err := r.Request(ctx, ep, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Send executes ep through r and discards the response body.
func Send(ctx context.Context, r Requester, ep Endpoint) error {
	return r.Request(ctx, ep, nil)
}

func (c *Client) newRequest(ctx context.Context, ep Endpoint) (*http.Request, error) {
	if ep.err != nil {
		return nil, fmt.Errorf("encode body for %s: %w", ep.String(), ep.err)
	}
	target, err := c.resolve(ep)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if b := ep.Body(); b != nil {
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, string(ep.Method()), target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if key := c.APIKey(); key != "" && c.ownsOrigin(target) {
		req.Header.Set("X-Api-Key", key)
	}
	return req, nil
}

// ownsOrigin reports whether u points at the configured server. The API key
// is never sent to any other host, such as the Plex endpoints.
func (c *Client) ownsOrigin(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, c.baseURL.Scheme) && strings.EqualFold(u.Host, c.baseURL.Host)
}

// resolve composes base, path and query into the request URL.
func (c *Client) resolve(ep Endpoint) (*url.URL, error) {
	base := c.baseURL
	if raw := ep.BaseURL(); raw != "" {
		override, err := url.Parse(raw)
		if err != nil || override.Scheme == "" || override.Host == "" {
			return nil, fmt.Errorf("%w: base %q", ErrInvalidURL, raw)
		}
		base = override
	}
	if strings.IndexFunc(ep.Path(), unicode.IsControl) >= 0 {
		return nil, fmt.Errorf("%w: path %q", ErrInvalidURL, ep.Path())
	}

	u := &url.URL{
		Scheme:   base.Scheme,
		User:     base.User,
		Host:     base.Host,
		Path:     joinPath(base.Path, ep.Path()),
		RawQuery: EncodeQuery(ep.Query()),
	}
	if _, err := url.Parse(u.String()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	return u, nil
}

func (c *Client) execute(req *http.Request) (*http.Response, error) {
	do := func() (*http.Response, error) { return c.http.Do(req) }

	var (
		resp *http.Response
		err  error
	)
	if cb := c.breakers.get(req.URL.Host); cb != nil {
		resp, err = cb.Execute(do)
	} else {
		resp, err = do()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnknown, req.Method, req.URL.Path, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: %s %s returned no response", ErrUnknown, req.Method, req.URL.Path)
	}
	return resp, nil
}

func joinPath(base, p string) string {
	base = strings.TrimRight(base, "/")
	p = strings.TrimLeft(p, "/")
	if p == "" {
		if base == "" {
			return "/"
		}
		return base
	}
	return base + "/" + p
}

// EncodeQuery joins params in the order given; url.Values would sort them.
func EncodeQuery(params []QueryParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, url.QueryEscape(p.Name)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxDrainBytes))
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: parse base url %q: %w", ErrInvalidURL, raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: base url %q has no host", ErrInvalidURL, raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// breakerSet holds one circuit breaker per host. Only transport failures
// count against a breaker; HTTP error statuses are ordinary responses.
type breakerSet struct {
	enabled bool

	mu     sync.Mutex
	byHost map[string]*gobreaker.CircuitBreaker[*http.Response]
}

func newBreakerSet() *breakerSet {
	return &breakerSet{enabled: true, byHost: make(map[string]*gobreaker.CircuitBreaker[*http.Response])}
}

func (b *breakerSet) get(host string) *gobreaker.CircuitBreaker[*http.Response] {
	if b == nil || !b.enabled {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if cb, ok := b.byHost[host]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.For(logging.Network).Warn().
				Str("host", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
	b.byHost[host] = cb
	return cb
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Keys under which the client persists the issued token pair.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// TokenStore is the persistence surface the client reads bearer tokens from
// and writes issued tokens to. kv.Store satisfies it.
type TokenStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Client talks to the platform HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenStore
}

const (
	defaultBaseURL   = "http://127.0.0.1:8000"
	defaultUserAgent = "deckhand/0.1"
	requestTimeout   = 15 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenStore sets where bearer tokens are read from and persisted to.
func WithTokenStore(tokens TokenStore) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("parse path %q: %w", path, err)
	}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(AccessTokenKey); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, rel.Path, raw)
	}
	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := decodeBody(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeBody unwraps the {trace_id, data} envelope when present and decodes
// the bare body otherwise.
func decodeBody(raw []byte, dest any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
			return json.Unmarshal(env.Data, dest)
		}
	}
	return json.Unmarshal(trimmed, dest)
}

func (c *Client) token(key string) string {
	if c.tokens == nil {
		return ""
	}
	value, err := c.tokens.Get(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func (c *Client) storeTokens(tok TokenResponse) error {
	if c.tokens == nil {
		return nil
	}
	if err := c.tokens.Set(AccessTokenKey, tok.AccessToken); err != nil {
		return fmt.Errorf("persist access token: %w", err)
	}
	if tok.RefreshToken != "" {
		if err := c.tokens.Set(RefreshTokenKey, tok.RefreshToken); err != nil {
			return fmt.Errorf("persist refresh token: %w", err)
		}
	}
	return nil
}

func (c *Client) clearTokens() error {
	if c.tokens == nil {
		return nil
	}
	return errors.Join(c.tokens.Remove(AccessTokenKey), c.tokens.Remove(RefreshTokenKey))
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func escape(segment string) string {
	return url.PathEscape(strings.TrimSpace(segment))
}

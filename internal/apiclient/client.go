// internal/apiclient/client.go
//
// Thin JSON client for the TrueArtists REST API.
//
// Context
//   Every visitor session owns one Client (see Clone) so the Authorization
//   header attached after login never leaks to another visitor.  Clones share
//   the base URL and the underlying *http.Client, and therefore its connection
//   pool.
//
// Notes
//   • No retry, backoff, or circuit breaking.  Callers decide what a failure
//     means.
//   • Non-2xx responses surface as *StatusError; network failures wrap
//     ErrTransport.

package apiclient

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
	"sync"
	"time"
)

// DefaultTimeout bounds a single API round trip when the caller supplies no
// *http.Client.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Client issues JSON requests against a configured origin.
type Client struct {
	http *http.Client

	mu   sync.RWMutex
	base *url.URL
	auth string
}

// New returns an unconfigured Client.  hc may be nil.
func New(hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{http: hc}
}

// Configure sets the API origin.  Relative request paths resolve against it,
// including any path prefix such as "/v1".
func (c *Client) Configure(baseURL string) error {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("apiclient: base url %q must be an absolute http(s) URL", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery, u.Fragment = "", ""

	c.mu.Lock()
	c.base = u
	c.mu.Unlock()
	return nil
}

// BaseURL returns the configured origin, or "" before Configure.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.base == nil {
		return ""
	}
	return c.base.String()
}

// SetAuthHeader attaches "Authorization: Bearer <token>" to every subsequent
// request.
func (c *Client) SetAuthHeader(token string) {
	c.mu.Lock()
	c.auth = "Bearer " + token
	c.mu.Unlock()
}

// ClearAuthHeader removes the Authorization header.
func (c *Client) ClearAuthHeader() {
	c.mu.Lock()
	c.auth = ""
	c.mu.Unlock()
}

// AuthHeader reports the current Authorization value ("" when unset).
func (c *Client) AuthHeader() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth
}

// Clone returns a Client with the same origin and transport and an empty
// header slot.
func (c *Client) Clone() *Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &Client{http: c.http, base: c.base}
}

func (c *Client) resolve(p string) (string, error) {
	c.mu.RLock()
	base := c.base
	c.mu.RUnlock()
	if base == nil {
		return "", ErrNotConfigured
	}
	ref, err := url.Parse(p)
	if err != nil {
		return "", fmt.Errorf("apiclient: parse path %q: %w", p, err)
	}
	u := *base
	u.Path = base.Path + "/" + strings.TrimLeft(ref.Path, "/")
	u.RawQuery = ref.RawQuery
	return u.String(), nil
}

// Do sends body (JSON-encoded when non-nil) and decodes a 2xx response into
// out (when non-nil).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	target, err := c.resolve(path)
	if err != nil {
		return err
	}

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s: %w", path, err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h := c.AuthHeader(); h != "" {
		req.Header.Set("Authorization", h)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("apiclient: decode %s: %w", path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	se := &StatusError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var env struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &env) == nil && env.Message != "" {
		se.Message = env.Message
	}
	return se
}

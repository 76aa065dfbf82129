package util

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxBody          = 16 << 20
)

// ErrDecode marks a payload that arrived but could not be parsed.
var ErrDecode = errors.New("undecodable payload")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	URL  string
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d from %s", e.Code, e.URL)
	}
	return fmt.Sprintf("status %d from %s body=%s", e.Code, e.URL, e.Body)
}

// Client is the HTTP client every fetcher shares: one timeout, one
// User-Agent and a per-host rate limit.
type Client struct {
	hc        *http.Client
	limiter   *HostLimiter
	userAgent string
}

func NewClient(timeout time.Duration, userAgent string, limiter *HostLimiter) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		hc:        &http.Client{Timeout: timeout},
		limiter:   limiter,
		userAgent: userAgent,
	}
}

// WithCookieJar returns a copy with its own cookie jar so session cookies
// (Workday CSRF) persist across one company's requests.
func (c *Client) WithCookieJar() *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		hc:        &http.Client{Timeout: c.hc.Timeout, Jar: jar},
		limiter:   c.limiter,
		userAgent: c.userAgent,
	}
}

func (c *Client) Cookies(raw string) []*http.Cookie {
	if c.hc.Jar == nil {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return c.hc.Jar.Cookies(u)
}

// Do sends req and returns the (size-capped) body. Non-2xx responses return
// the response alongside a *StatusError so callers can inspect headers.
func (c *Client) Do(req *http.Request) ([]byte, *http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if err := c.limiter.WaitURL(req.Context(), req.URL.String()); err != nil {
		return nil, nil, err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, res, fmt.Errorf("read body: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return body, res, &StatusError{Code: res.StatusCode, URL: req.URL.String(), Body: Truncate(string(body), 240)}
	}
	return body, res, nil
}

func (c *Client) Get(ctx context.Context, raw string, q url.Values) ([]byte, error) {
	if len(q) > 0 {
		raw = raw + "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")
	body, _, err := c.Do(req)
	return body, err
}

func (c *Client) GetJSON(ctx context.Context, raw string, q url.Values, v any) error {
	body, err := c.Get(ctx, raw, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w: %w", raw, ErrDecode, err)
	}
	return nil
}

// PostJSON marshals in, posts it to raw and decodes the reply into out.
func (c *Client) PostJSON(ctx context.Context, raw string, in, out any, hdr http.Header) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, raw, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	body, _, err := c.Do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w: %w", raw, ErrDecode, err)
	}
	return nil
}

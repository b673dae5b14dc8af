package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/logging"
)

// Default upstream endpoints.
const (
	DefaultRESTBaseURL  = "https://en.wikipedia.org/api/rest_v1"
	DefaultActionAPIURL = "https://en.wikipedia.org/w/api.php"
	DefaultPageBaseURL  = "https://en.wikipedia.org/wiki/"
	DefaultTimeout      = 30 * time.Second
	DefaultUserAgent    = "wikimcp/0.1 (MCP Wikipedia gateway; https://github.com/ajayindfw/WikipediaMcpServer)"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 8 << 20

// Client talks to the Wikipedia APIs. The zero value is not usable; use NewClient.
type Client struct {
	restBaseURL  string
	actionAPIURL string
	pageBaseURL  string
	userAgent    string
	httpClient   *http.Client
	log          *slog.Logger
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the HTTP timeout for the client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRESTBaseURL sets the REST API base, e.g. https://en.wikipedia.org/api/rest_v1.
func WithRESTBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.restBaseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithActionAPIURL sets the MediaWiki api.php endpoint.
func WithActionAPIURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.actionAPIURL = u
		}
	}
}

// WithPageBaseURL sets the prefix used to build article URLs.
func WithPageBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			if !strings.HasSuffix(u, "/") {
				u += "/"
			}
			c.pageBaseURL = u
		}
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a Client with the default English Wikipedia endpoints.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		restBaseURL:  DefaultRESTBaseURL,
		actionAPIURL: DefaultActionAPIURL,
		pageBaseURL:  DefaultPageBaseURL,
		userAgent:    DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// pageURL builds the public article URL for a title.
func (c *Client) pageURL(title string) string {
	return c.pageBaseURL + url.PathEscape(title)
}

// actionURL builds an api.php request URL for action=parse.
func (c *Client) actionURL(params url.Values) string {
	params.Set("action", "parse")
	params.Set("format", "json")
	sep := "?"
	if strings.Contains(c.actionAPIURL, "?") {
		sep = "&"
	}
	return c.actionAPIURL + sep + params.Encode()
}

// get performs a GET and returns the body of a 2xx response.
// Any other outcome is reported as an *Error for op.
func (c *Client) get(ctx context.Context, op, rawURL string) ([]byte, *Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, newError(op, KindTransport, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(op, KindTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("upstream response",
		"op", op,
		"url", rawURL,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		e := newError(op, KindNotFound, nil)
		e.Status = resp.StatusCode
		return nil, e
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, newError(op, KindTransport, fmt.Errorf("failed to read response: %w", err))
	}
	return body, nil
}

// report logs an absent result. Expected absences log at debug, faults at warn.
func (c *Client) report(err error, attrs ...any) {
	var e *Error
	if !errors.As(err, &e) {
		c.log.Warn("wikipedia lookup failed", append(attrs, "error", err)...)
		return
	}
	attrs = append(attrs, "op", e.Op, "kind", e.Kind.String())
	if e.Status != 0 {
		attrs = append(attrs, "status", e.Status)
	}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err)
	}
	switch e.Kind {
	case KindTransport, KindParse:
		c.log.Warn("wikipedia lookup failed", attrs...)
	default:
		c.log.Debug("wikipedia lookup returned no result", attrs...)
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/logging"
)

// DefaultURL is the tree listing of the community alias catalog.
const DefaultURL = "https://api.github.com/repos/iiEpic/tower-networking-alias-manager/git/trees/97891c53c3e21eb61614c1b1043b96de53765b8b?recursive=1"

// DefaultRequestTimeout bounds a single catalog request.
const DefaultRequestTimeout = 30 * time.Second

// maxBodySize caps a catalog response. Library files are a few kilobytes;
// the recursive tree listing is the largest response.
const maxBodySize = 8 << 20

// ErrInvalidListing indicates the listing response has neither known shape.
var ErrInvalidListing = errors.New("unrecognized catalog listing")

// Entry is one file in the catalog listing.
type Entry struct {
	// Path is the slash-separated path inside the catalog.
	Path string `json:"path"`

	// ContentURL returns the entry's blob.
	ContentURL string `json:"content_url"`
}

// listing covers both supported listing shapes.
type listing struct {
	Entries []Entry `json:"entries"`
	Tree    []struct {
		Path string `json:"path"`
		Type string `json:"type"`
		URL  string `json:"url"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

// Client fetches catalog listings and blobs.
type Client struct {
	httpClient *http.Client
	token      string
	userAgent  string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRequestTimeout bounds each request. Zero keeps the default.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithToken sends token as a bearer credential, which raises the GitHub API
// rate limit.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit limits requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithClientLogger sets the logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient returns a catalog client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultRequestTimeout},
		userAgent:  "tnalias",
		logger:     logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListTree fetches the catalog listing at listURL. Relative content URLs are
// resolved against listURL. Only blob items of a git tree are returned.
func (c *Client) ListTree(ctx context.Context, listURL string) ([]Entry, error) {
	body, err := c.get(ctx, listURL)
	if err != nil {
		return nil, err
	}

	var l listing
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, errors.WithDetailf(
			errors.Mark(errors.Wrap(err, "decoding catalog listing"), ErrInvalidListing),
			"url: %s", logging.MaskURL(listURL))
	}
	if l.Entries == nil && l.Tree == nil {
		return nil, errors.WithDetailf(ErrInvalidListing, "url: %s: no entries or tree member", logging.MaskURL(listURL))
	}
	if l.Truncated {
		c.logger.Warn("catalog listing is truncated", "url", listURL)
	}

	base, err := url.Parse(listURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing catalog URL")
	}

	entries := make([]Entry, 0, len(l.Entries)+len(l.Tree))
	for _, e := range l.Entries {
		if e.Path == "" || e.ContentURL == "" {
			continue
		}
		entries = append(entries, Entry{Path: e.Path, ContentURL: resolve(base, e.ContentURL)})
	}
	for _, item := range l.Tree {
		if item.Type != "blob" || item.Path == "" || item.URL == "" {
			continue
		}
		entries = append(entries, Entry{Path: item.Path, ContentURL: resolve(base, item.URL)})
	}

	c.logger.Debug("catalog listed", "url", listURL, "entries", len(entries))
	return entries, nil
}

// FetchBlob returns the body served at blobURL.
func (c *Client) FetchBlob(ctx context.Context, blobURL string) ([]byte, error) {
	return c.get(ctx, blobURL)
}

// get performs a GET. Transport failures and non-2xx statuses are marked
// errors.ErrNetwork; a done context is returned as the context's error.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	masked := logging.MaskURL(target)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, errors.Wrapf(ctxErr, "waiting to fetch %s", masked)
			}
			return nil, errors.Wrap(err, "rate limiter")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "creating request for %s", masked), errors.ErrNetwork)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Log(ctx, logging.LevelTrace, "catalog request", "url", target)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrapf(ctxErr, "fetching %s", masked)
		}
		return nil, errors.Mark(errors.Wrapf(err, "fetching %s", masked), errors.ErrNetwork)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.WithDetailf(
			errors.Mark(errors.Newf("fetching %s: HTTP %d", masked, resp.StatusCode), errors.ErrNetwork),
			"response: %s", snippet)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrapf(ctxErr, "reading %s", masked)
		}
		return nil, errors.Mark(errors.Wrapf(err, "reading %s", masked), errors.ErrNetwork)
	}
	if len(body) > maxBodySize {
		return nil, errors.Mark(errors.Newf("fetching %s: response exceeds %d bytes", masked, maxBodySize), errors.ErrNetwork)
	}

	return body, nil
}

func resolve(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

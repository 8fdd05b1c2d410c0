package doodstream

import (
	"compress/bzip2"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/doodget/doodozer/errs"
	"github.com/doodget/doodozer/internal/logger"
	"github.com/doodget/doodozer/internal/sanitize"
)

const (
	userAgentValue = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"

	tokenChars    = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	tokenPadLen   = 10
	embedSegment  = "/e/"
	directSegment = "/d/"
)

var (
	passMD5Re = regexp.MustCompile(`/pass_md5/([^"']+)`)
	titleRe   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
)

// Resolution holds the outcome of resolving a DoodStream page.
type Resolution struct {
	DirectURL string
	Title     string
	Token     string
	Domain    string
	EmbedURL  string
}

// Client resolves DoodStream page URLs into direct media URLs.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// Referer, when set, replaces the embed URL in the Referer header.
	Referer string

	log *logger.ComponentLogger
}

// New creates a resolution client. A nil httpClient falls back to a default
// client with a 30 second timeout.
func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		HTTPClient: httpClient,
		UserAgent:  userAgentValue,
		log:        logger.WithComponent(logger.ComponentExtractor),
	}
}

// WithUserAgent overrides the User-Agent header used for page requests.
func (c *Client) WithUserAgent(ua string) *Client {
	if strings.TrimSpace(ua) != "" {
		c.UserAgent = ua
	}
	return c
}

// WithReferer overrides the Referer header used for page requests.
func (c *Client) WithReferer(referer string) *Client {
	if strings.TrimSpace(referer) != "" {
		c.Referer = referer
	}
	return c
}

// EmbedURL normalizes a DoodStream page URL to its /e/ embed form.
func EmbedURL(pageURL string) string {
	return strings.Replace(pageURL, directSegment, embedSegment, 1)
}

// VideoID extracts the video identifier from a DoodStream /e/ or /d/ URL.
func VideoID(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	for _, seg := range []string{embedSegment, directSegment} {
		if i := strings.Index(u.Path, seg); i >= 0 {
			id := strings.Trim(u.Path[i+len(seg):], "/")
			if id != "" {
				return id, nil
			}
		}
	}
	return "", errs.ErrInvalidURL
}

// ResolveDownloadURL fetches the embed page and derives a direct, expiring
// media URL plus the video title.
func (c *Client) ResolveDownloadURL(ctx context.Context, pageURL string) (*Resolution, error) {
	embedURL := EmbedURL(pageURL)
	c.log.Debug("resolving", "url", embedURL)

	body, err := c.fetch(ctx, embedURL, embedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch embed page: %w", err)
	}

	m := passMD5Re.FindSubmatch(body)
	if m == nil {
		return nil, errs.ErrTokenNotFound
	}
	passPath := string(m[1])

	u, err := url.Parse(embedURL)
	if err != nil {
		return nil, err
	}
	domain := u.Host

	passURL := u.Scheme + "://" + domain + "/pass_md5/" + passPath
	c.log.Debug("found pass_md5", "url", passURL)

	baseBody, err := c.fetch(ctx, passURL, embedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch pass_md5: %w", err)
	}
	mediaBase := strings.TrimSpace(string(baseBody))
	if mediaBase == "" {
		return nil, errs.ErrTokenNotFound
	}

	segs := strings.Split(passPath, "/")
	token := segs[len(segs)-1]

	directURL := fmt.Sprintf("%s%s?token=%s&expiry=%d", mediaBase, randomString(tokenPadLen), token, time.Now().Unix())

	title := extractTitle(body)
	if title == "" {
		title = token
	}

	c.log.Info("resolved direct url", "title", title)
	return &Resolution{
		DirectURL: directURL,
		Title:     title,
		Token:     token,
		Domain:    domain,
		EmbedURL:  embedURL,
	}, nil
}

// fetch performs a GET with DoodStream-compatible headers and returns the
// decompressed body. The Referer header is required by most mirrors.
func (c *Client) fetch(ctx context.Context, rawURL, referer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	if c.Referer != "" {
		referer = c.Referer
	}
	req.Header.Set("Referer", referer)
	req.Header.Set("Connection", "keep-alive")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := mapStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	// Handle compressed response
	var reader io.Reader = resp.Body
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %v", err)
		}
		defer gzReader.Close()
		reader = gzReader
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		flReader := flate.NewReader(resp.Body)
		defer flReader.Close()
		reader = flReader
	case "bzip2":
		reader = bzip2.NewReader(resp.Body)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}
	return body, nil
}

// mapStatus converts HTTP error statuses into sentinel errors.
func mapStatus(code int) error {
	switch {
	case code >= 200 && code < 400:
		return nil
	case code == http.StatusTooManyRequests:
		return errs.ErrRateLimited
	case code == http.StatusNotFound || code == http.StatusGone || code == http.StatusForbidden:
		return errs.ErrVideoUnavailable
	default:
		return errors.Join(fmt.Errorf("HTTP status %d", code), errs.ErrVideoUnavailable)
	}
}

// extractTitle pulls the page title and strips filename-unsafe characters.
func extractTitle(body []byte) string {
	m := titleRe.FindSubmatch(body)
	if m == nil {
		return ""
	}
	title := html.UnescapeString(strings.TrimSpace(string(m[1])))
	return sanitize.CleanTitle(title)
}

func randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = tokenChars[rand.Intn(len(tokenChars))]
	}
	return string(b)
}

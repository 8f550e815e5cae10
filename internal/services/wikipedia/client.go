package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cadenza/internal/services"
)

const (
	// DefaultLanguage is the edition used when a request names none.
	DefaultLanguage = "en"
	langPlaceholder = "{lang}"
	defaultTimeout  = 15 * time.Second
)

// Page is one opensearch suggestion.
type Page struct {
	Title       string
	Description string
	URL         string
}

// Summary is the lead extract of a page.
type Summary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	URL     string `json:"-"`
}

// Searcher defines the lookups used by reference resolution.
type Searcher interface {
	Suggest(ctx context.Context, term string, limit int, lang string) ([]Page, error)
	Summary(ctx context.Context, title, lang string) (*Summary, error)
}

// Client queries Wikipedia over HTTP.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New creates a Wikipedia client. baseURL usually looks like
// "https://{lang}.wikipedia.org".
func New(baseURL, userAgent string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("wikipedia base url required")
	}
	client := &Client{
		baseURL:    baseURL,
		userAgent:  strings.TrimSpace(userAgent),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Suggest returns up to limit page suggestions for term in the lang edition.
// An empty result is not an error.
func (c *Client) Suggest(ctx context.Context, term string, limit int, lang string) ([]Page, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, services.Wrap(services.ErrLookupUnavailable, "wikipedia", "suggest", "term must not be empty", nil)
	}
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", term)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("namespace", "0")
	params.Set("format", "json")
	endpoint := c.editionURL(lang) + "/w/api.php?" + params.Encode()

	var raw []json.RawMessage
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, services.Wrap(services.ErrLookupUnavailable, "wikipedia", "suggest", term, err)
	}
	pages, err := parseOpenSearch(raw)
	if err != nil {
		return nil, services.Wrap(services.ErrLookupUnavailable, "wikipedia", "suggest", term, err)
	}
	if len(pages) > limit {
		pages = pages[:limit]
	}
	return pages, nil
}

// Summary returns the lead extract of title. A missing page yields (nil, nil).
func (c *Client) Summary(ctx context.Context, title, lang string) (*Summary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, services.Wrap(services.ErrLookupUnavailable, "wikipedia", "summary", "title must not be empty", nil)
	}
	endpoint := c.editionURL(lang) + "/api/rest_v1/page/summary/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	var summary Summary
	err := c.getJSON(ctx, endpoint, &summary)
	var statusErr *statusError
	if errors.As(err, &statusErr) && statusErr.code == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrLookupUnavailable, "wikipedia", "summary", title, err)
	}
	summary.Extract = strings.TrimSpace(summary.Extract)
	if summary.Title == "" {
		summary.Title = title
	}
	summary.URL = PageURL(lang, summary.Title)
	return &summary, nil
}

// PageURL builds the canonical article URL for title in the lang edition.
func PageURL(lang, title string) string {
	return "https://" + normalizeLang(lang) + ".wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(strings.TrimSpace(title), " ", "_"))
}

func (c *Client) editionURL(lang string) string {
	return strings.ReplaceAll(c.baseURL, langPlaceholder, normalizeLang(lang))
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

type statusError struct {
	code    int
	latency time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("wikipedia returned %d (latency=%v)", e.code, e.latency)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode, latency: latency}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode wikipedia response: %w", err)
	}
	return nil
}

// parseOpenSearch reads the [query, [titles], [descriptions], [urls]] tuple.
func parseOpenSearch(raw []json.RawMessage) ([]Page, error) {
	if len(raw) < 2 {
		return nil, errors.New("malformed opensearch response")
	}
	var titles, descriptions, urls []string
	if err := json.Unmarshal(raw[1], &titles); err != nil {
		return nil, fmt.Errorf("decode titles: %w", err)
	}
	if len(raw) > 2 {
		_ = json.Unmarshal(raw[2], &descriptions)
	}
	if len(raw) > 3 {
		_ = json.Unmarshal(raw[3], &urls)
	}
	pages := make([]Page, 0, len(titles))
	for i, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		page := Page{Title: title}
		if i < len(descriptions) {
			page.Description = strings.TrimSpace(descriptions[i])
		}
		if i < len(urls) {
			page.URL = strings.TrimSpace(urls[i])
		}
		pages = append(pages, page)
	}
	return pages, nil
}

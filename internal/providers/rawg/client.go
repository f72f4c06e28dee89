package rawg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/game-catalog-service/internal/domain"
	"github.com/preston-bernstein/game-catalog-service/internal/providers"
)

// Config controls how the RAWG client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the RAWG games API. Each method issues exactly one request.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
}

// NewClient constructs a RAWG client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}
}

// FetchGame retrieves the detail payload by slug, or by numeric id when no slug is given.
func (c *Client) FetchGame(ctx context.Context, ref providers.GameRef) (providers.GameDetail, error) {
	if ref.IsZero() {
		return providers.GameDetail{}, fmt.Errorf("%w: slug or rawg_id is required", domain.ErrInvalidArgument)
	}
	ident := ref.Slug
	if ident == "" {
		ident = strconv.Itoa(ref.RawgID)
	}

	var detail providers.GameDetail
	if err := c.getJSON(ctx, "/games/"+url.PathEscape(ident), nil, &detail); err != nil {
		return providers.GameDetail{}, err
	}
	return detail, nil
}

// FetchScreenshots retrieves the screenshot list for a game.
func (c *Client) FetchScreenshots(ctx context.Context, rawgID int) ([]providers.ScreenshotEntry, error) {
	var page providers.ScreenshotsPage
	if err := c.getJSON(ctx, fmt.Sprintf("/games/%d/screenshots", rawgID), nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// ListGames retrieves one page of lightweight entries.
func (c *Client) ListGames(ctx context.Context, params providers.ListParams) (providers.GamesPage, error) {
	q := url.Values{}
	setInt(q, "page", params.Page)
	setInt(q, "page_size", params.PageSize)
	setString(q, "ordering", params.Ordering)
	setString(q, "dates", params.Dates)
	setString(q, "platforms", params.Platforms)
	setString(q, "genres", params.Genres)

	var page providers.GamesPage
	if err := c.getJSON(ctx, "/games", q, &page); err != nil {
		return providers.GamesPage{}, err
	}
	return page, nil
}

// SearchGames runs a free-text search against the listing endpoint.
func (c *Client) SearchGames(ctx context.Context, query string, page, pageSize int) (providers.GamesPage, error) {
	q := url.Values{}
	setString(q, "search", query)
	setInt(q, "page", page)
	setInt(q, "page_size", pageSize)

	var out providers.GamesPage
	if err := c.getJSON(ctx, "/games", q, &out); err != nil {
		return providers.GamesPage{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	req, err := c.buildRequest(ctx, path, query)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrUpstream, providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    "rawg rate limited",
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &providers.UpstreamError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: %s: decode %s: %v", domain.ErrUpstream, providerName, path, err)
	}
	return nil
}

func (c *Client) buildRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if query == nil {
		query = url.Values{}
	}
	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func setInt(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}

func setString(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}

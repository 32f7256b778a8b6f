package bgg

import (
	"context"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

const DefaultBaseURL = "https://boardgamegeek.com/xmlapi"

// Client talks to the BoardGameGeek XML API. It never retries: the first
// failure is returned to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        logger.Logger
}

// NewClient builds a client for baseURL. A zero timeout leaves the
// transport default in place.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return newClient(&http.Client{Timeout: timeout}, baseURL, log)
}

func newClient(httpClient *http.Client, baseURL string, log logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

func (c *Client) SearchGames(ctx context.Context, term string) (iter.Seq[domain.GameRecord], error) {
	body, err := c.fetchXML(ctx, fmt.Sprintf("%s/search?search=%s", c.baseURL, url.QueryEscape(term)))
	if err != nil {
		return nil, err
	}
	return ParseSearchResults(body), nil
}

// GetGameDetails returns nil details, not an error, when BGG knows no game
// with that id.
func (c *Client) GetGameDetails(ctx context.Context, gameID string) (*domain.GameDetails, error) {
	body, err := c.fetchXML(ctx, fmt.Sprintf("%s/game/%s", c.baseURL, url.PathEscape(gameID)))
	if err != nil {
		return nil, err
	}
	return ParseGameDetails(body), nil
}

func (c *Client) fetchXML(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml, text/xml;q=0.9, */*;q=0.8")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch from BoardGameGeek API: %w", err)
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			c.log.Warn("Failed to close response body", "url", target, "error", closeErr)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.log.Warn("BoardGameGeek API returned non-2xx", "url", target, "status", res.StatusCode)
		return "", &domain.UpstreamError{StatusCode: res.StatusCode}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read BoardGameGeek response: %w", err)
	}
	return string(data), nil
}

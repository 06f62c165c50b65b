package ogs

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

	"github.com/vytor/ninebynine/internal/logger"
	"github.com/vytor/ninebynine/internal/models"
)

const (
	DefaultBaseURL = "https://online-go.com/api/v1"

	searchPath = "/ui/omniSearch"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		log:        logger.Default().WithPrefix("ogs"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageURL returns the games list URL for a player and 1-based page number.
func (c *Client) PageURL(playerID int64, page int) string {
	return fmt.Sprintf("%s/players/%d/games?page=%d", c.baseURL, playerID, page)
}

// SGFURL returns the SGF download URL for a game.
func (c *Client) SGFURL(gameID int64) string {
	return fmt.Sprintf("%s/games/%d/sgf", c.baseURL, gameID)
}

// SearchPlayers runs the omni search for a free-text player name.
func (c *Client) SearchPlayers(ctx context.Context, query string) ([]models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("ogs").WithField("query", query)
	u := c.baseURL + searchPath + "?q=" + url.QueryEscape(query)

	log.Debug("searching players: %s", u)
	var out models.SearchResult
	if err := c.getJSON(ctx, log, u, &out); err != nil {
		return nil, err
	}

	log.Info("search returned %d players", len(out.Players))
	return out.Players, nil
}

// FetchGamesPage fetches one page of a player's games. A non-empty ref.URL
// (the service's "next" link) takes precedence over the page number.
func (c *Client) FetchGamesPage(ctx context.Context, ref PageRef) (*models.Page, error) {
	u := ref.URL
	if u == "" {
		u = c.PageURL(ref.PlayerID, ref.Number)
	}
	log := logger.FromContext(ctx).WithPrefix("ogs").WithFields(map[string]any{
		"player_id": ref.PlayerID,
		"page":      ref.Number,
	})

	log.Debug("fetching games page: %s", u)
	var page models.Page
	if err := c.getJSON(ctx, log, u, &page); err != nil {
		return nil, err
	}

	log.Debug("page has %d games, total count %v", len(page.Results), page.Count)
	return &page, nil
}

// FetchSGF downloads the SGF record of a game as raw text.
func (c *Client) FetchSGF(ctx context.Context, gameID int64) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("ogs").WithField("game_id", gameID)
	u := c.SGFURL(gameID)

	resp, err := c.get(ctx, log, u)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read sgf body: %v", err)
		return "", fmt.Errorf("read sgf %d: %w", gameID, err)
	}

	log.Debug("downloaded sgf (%d bytes)", len(body))
	return string(body), nil
}

func (c *Client) get(ctx context.Context, log *logger.Logger, u string) (*http.Response, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed: %v", err)
		return nil, err
	}

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Warn("request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, &StatusError{URL: u, Status: resp.StatusCode, Body: string(body)}
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, log *logger.Logger, u string, out any) error {
	resp, err := c.get(ctx, log, u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warn("failed to decode response: %v", err)
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}

// StatusError is returned when OGS answers with a non-200 status.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return "status " + strconv.Itoa(e.Status) + " from " + e.URL + ": " + e.Body
}

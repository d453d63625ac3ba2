// Package fpl provides a client for the public Fantasy Premier League API.
//
// All GETs go through the snapshot cache keyed by URL, so repeated requests
// within the cache TTL never touch the upstream.
package fpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"gwplanner/internal/cache"
)

// ErrNotFound indicates the upstream returned 404 (e.g. no picks for a GW)
var ErrNotFound = errors.New("fpl: resource not found")

// UpstreamError indicates a failed upstream request (non-404 status or transport failure)
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fpl: upstream request failed: %v", e.Err)
	}
	return fmt.Sprintf("fpl: upstream returned status %d", e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Client for the FPL API
type Client struct {
	baseURL string
	client  *http.Client
	store   *cache.Store
	log     zerolog.Logger
}

// NewClient creates a new FPL API client.
// store is optional - if nil, caching is disabled.
func NewClient(baseURL string, store *cache.Store, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		store:   store,
		log:     log.With().Str("client", "fpl").Logger(),
	}
}

// getJSON fetches url into out, reading through the snapshot cache
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	if c.store != nil {
		found, err := c.store.Get(url, out)
		if err != nil {
			c.log.Warn().Err(err).Str("url", url).Msg("Cache read failed, falling through to upstream")
		} else if found {
			c.log.Debug().Str("url", url).Msg("Cache hit")
			return nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	c.log.Debug().Str("url", url).Msg("Fetching from upstream")
	resp, err := c.client.Do(req)
	if err != nil {
		return &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return &UpstreamError{Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if c.store != nil {
		if err := c.store.Put(url, out); err != nil {
			c.log.Warn().Err(err).Str("url", url).Msg("Failed to cache upstream response")
		}
	}
	return nil
}

// Bootstrap returns the bootstrap-static payload (events, teams, players)
func (c *Client) Bootstrap(ctx context.Context) (*Bootstrap, error) {
	var boot Bootstrap
	if err := c.getJSON(ctx, c.baseURL+"/bootstrap-static/", &boot); err != nil {
		return nil, err
	}
	return &boot, nil
}

// Fixtures returns the full fixture list
func (c *Client) Fixtures(ctx context.Context) ([]Fixture, error) {
	var fixtures []Fixture
	if err := c.getJSON(ctx, c.baseURL+"/fixtures/", &fixtures); err != nil {
		return nil, err
	}
	return fixtures, nil
}

// FixturesByGW returns fixtures whose event equals gw
func (c *Client) FixturesByGW(ctx context.Context, gw int) ([]Fixture, error) {
	all, err := c.Fixtures(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]Fixture, 0, 10)
	for _, f := range all {
		if f.Event != nil && *f.Event == gw {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

// ManagerPicks returns a manager's picks for an entry (team id) and gameweek.
// Returns ErrNotFound when the manager has no picks for that gameweek.
func (c *Client) ManagerPicks(ctx context.Context, tid, gw int) (*ManagerPicks, error) {
	var picks ManagerPicks
	url := fmt.Sprintf("%s/entry/%d/event/%d/picks/", c.baseURL, tid, gw)
	if err := c.getJSON(ctx, url, &picks); err != nil {
		return nil, err
	}
	return &picks, nil
}

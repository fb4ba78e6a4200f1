package statsapi

import (
	"context"
	"fmt"
	"io"

	"github.com/banshee-data/pitchview/internal/httputil"
)

// maxBodyBytes caps how much of one response is read.
const maxBodyBytes = 8 << 20

// Client issues GET requests against the statistics feed.
type Client struct {
	http    httputil.HTTPClient
	baseURL string
}

// NewClient returns a Client rooted at baseURL.
func NewClient(c httputil.HTTPClient, baseURL string) *Client {
	if c == nil {
		c = httputil.NewStandardClient(nil)
	}
	return &Client{http: c, baseURL: baseURL}
}

// BaseURL returns the feed root this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Get fetches one endpoint and returns its status code and raw body. Only
// transport failures are reported as errors; status handling is left to
// the caller.
func (c *Client) Get(ctx context.Context, ep Endpoint) (int, []byte, error) {
	resp, err := httputil.GetContext(ctx, c.http, ep.URL(c.baseURL))
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", ep.Name, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%s: read body: %w", ep.Name, err)
	}
	return resp.StatusCode, body, nil
}

// StatusError is a non-2xx response from the feed.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.StatusCode)
}

// FeedError is an error envelope returned by the feed.
type FeedError struct {
	Endpoint string
	Message  string
}

func (e *FeedError) Error() string {
	return e.Message
}

// getInto fetches ep and decodes it into v, surfacing status and envelope
// failures as typed errors.
func (c *Client) getInto(ctx context.Context, ep Endpoint, v any) error {
	status, body, err := c.Get(ctx, ep)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &StatusError{Endpoint: ep.Name, StatusCode: status}
	}
	if msg, ok := ErrorMessage(body); ok {
		return &FeedError{Endpoint: ep.Name, Message: msg}
	}
	if err := Decode(body, v); err != nil {
		return fmt.Errorf("%s: %w", ep.Name, err)
	}
	return nil
}

// SearchPlayers returns autocomplete candidates for a partial name.
func (c *Client) SearchPlayers(ctx context.Context, name string) ([]PlayerSearchResult, error) {
	var out []PlayerSearchResult
	if err := c.getInto(ctx, PlayerSearchEndpoint(name), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PlayerInfo returns the portrait of one player.
func (c *Client) PlayerInfo(ctx context.Context, name string) (*PlayerInfo, error) {
	var out PlayerInfo
	if err := c.getInto(ctx, PlayerInfoEndpoint(name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Leaderboards returns the weekly category leaders.
func (c *Client) Leaderboards(ctx context.Context) (*Leaderboards, error) {
	var out Leaderboards
	if err := c.getInto(ctx, LeaderboardsEndpoint(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Pitches fetches only the trajectory records of a matchup.
func (c *Client) Pitches(ctx context.Context, pitcher, batter string) (PitchRecords, error) {
	for _, ep := range MatchupEndpoints(pitcher, batter) {
		if ep.Name != EndpointTrajectory {
			continue
		}
		var out PitchRecords
		if err := c.getInto(ctx, ep, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("no %s endpoint", EndpointTrajectory)
}

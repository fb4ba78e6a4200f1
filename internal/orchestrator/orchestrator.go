// Package orchestrator fetches every payload of a pitcher/batter analysis
// concurrently, validates the whole set and holds the committed result.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/pitchview/internal/httputil"
	"github.com/banshee-data/pitchview/internal/monitoring"
	"github.com/banshee-data/pitchview/internal/statsapi"
	"github.com/banshee-data/pitchview/internal/timeutil"
)

var logf = monitoring.Component("orchestrator")

// AnalysisResult bundles every payload of one matchup. It is not modified
// after it has been committed.
type AnalysisResult struct {
	Pitcher        string                  `json:"pitcher"`
	Batter         string                  `json:"batter"`
	Generation     uint64                  `json:"generation"`
	FetchedAt      time.Time               `json:"fetched_at"`
	PitcherStats   statsapi.SeasonStats    `json:"pitcher_stats"`
	BatterStats    statsapi.SeasonStats    `json:"batter_stats"`
	Arsenal        statsapi.Arsenal        `json:"arsenal"`
	HeadToHead     statsapi.HeadToHead     `json:"head_to_head"`
	Timeline       statsapi.Timeline       `json:"timeline"`
	Outcomes       statsapi.Outcomes       `json:"outcomes"`
	Movement       statsapi.Movements      `json:"movement"`
	LeagueMovement statsapi.LeagueMovement `json:"league_movement"`
	Pitches        statsapi.PitchRecords   `json:"pitches"`
	Strategy       statsapi.Strategy       `json:"strategy"`
}

// Fetcher produces an AnalysisResult for a matchup.
type Fetcher interface {
	Fetch(ctx context.Context, pitcher, batter string) (*AnalysisResult, error)
}

// Orchestrator issues the matchup requests. It keeps no cache and never
// retries.
type Orchestrator struct {
	client  *statsapi.Client
	limit   int
	timeout time.Duration
	clock   timeutil.Clock
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConcurrencyLimit caps in-flight requests; n <= 0 means unlimited.
func WithConcurrencyLimit(n int) Option {
	return func(o *Orchestrator) { o.limit = n }
}

// WithTimeout bounds the whole fan-out; d <= 0 disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithClock overrides the time source used for FetchedAt.
func WithClock(c timeutil.Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// New returns an Orchestrator that talks to the feed at baseURL.
func New(client httputil.HTTPClient, baseURL string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client: statsapi.NewClient(client, baseURL),
		clock:  timeutil.RealClock{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ValidateNames applies the input precondition shared by every analysis.
func ValidateNames(pitcher, batter string) (string, string, error) {
	p := strings.TrimSpace(pitcher)
	b := strings.TrimSpace(batter)
	if p == "" || b == "" {
		return "", "", &ValidationError{Message: ValidationMessage}
	}
	return p, b, nil
}

type response struct {
	status int
	body   []byte
	err    error
}

// Fetch issues all matchup requests concurrently and waits for every one
// to settle before inspecting them in endpoint order. Either the full
// result or a single error is returned.
func (o *Orchestrator) Fetch(ctx context.Context, pitcher, batter string) (*AnalysisResult, error) {
	pitcher, batter, err := ValidateNames(pitcher, batter)
	if err != nil {
		return nil, err
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	eps := statsapi.MatchupEndpoints(pitcher, batter)
	responses := make([]response, len(eps))

	var g errgroup.Group
	if o.limit > 0 {
		g.SetLimit(o.limit)
	}
	for i, ep := range eps {
		g.Go(func() error {
			status, body, err := o.client.Get(ctx, ep)
			responses[i] = response{status: status, body: body, err: err}
			// Inspected after the barrier.
			return nil
		})
	}
	_ = g.Wait()

	for i, ep := range eps {
		r := responses[i]
		if r.err != nil {
			logf("%s failed: %v", ep.Name, r.err)
			return nil, &NetworkError{Message: NetworkMessage, Endpoint: ep.Name, Err: r.err}
		}
		if r.status < 200 || r.status > 299 {
			logf("%s returned status %d", ep.Name, r.status)
			return nil, &NetworkError{Message: NetworkMessage, Endpoint: ep.Name, StatusCode: r.status}
		}
	}
	for i, ep := range eps {
		if msg, ok := statsapi.ErrorMessage(responses[i].body); ok {
			logf("%s reported error: %s", ep.Name, msg)
			return nil, &PayloadError{Message: msg, Endpoint: ep.Name}
		}
	}

	res := &AnalysisResult{Pitcher: pitcher, Batter: batter, FetchedAt: o.clock.Now()}
	targets := res.targets()
	for i, ep := range eps {
		target, ok := targets[ep.Name]
		if !ok {
			continue
		}
		if err := statsapi.Decode(responses[i].body, target); err != nil {
			logf("%s payload rejected: %v", ep.Name, err)
			return nil, &PayloadError{
				Message:  fmt.Sprintf("Invalid %s data received.", ep.Name),
				Endpoint: ep.Name,
				Err:      err,
			}
		}
	}
	return res, nil
}

func (r *AnalysisResult) targets() map[string]any {
	return map[string]any{
		statsapi.EndpointPitcherSeason: &r.PitcherStats,
		statsapi.EndpointBatterSeason:  &r.BatterStats,
		statsapi.EndpointArsenal:       &r.Arsenal,
		statsapi.EndpointHeadToHead:    &r.HeadToHead,
		statsapi.EndpointTimeline:      &r.Timeline,
		statsapi.EndpointOutcomes:      &r.Outcomes,
		statsapi.EndpointMovement:      &r.Movement,
		statsapi.EndpointLeagueAvg:     &r.LeagueMovement,
		statsapi.EndpointTrajectory:    &r.Pitches,
		statsapi.EndpointStrategy:      &r.Strategy,
	}
}

// Package statsapi describes the external statistics feed: its endpoints,
// the explicit schema of every payload, and strict decoding of responses.
package statsapi

import (
	"net/url"
	"strings"
)

// Endpoint paths of the statistics feed.
const (
	PathSeasonStats       = "/api/player-season-stats"
	PathPitchArsenal      = "/api/pitch-arsenal"
	PathHeadToHead        = "/api/pvb-stats"
	PathAtBatTimeline     = "/api/at-bat-timeline"
	PathOutcomeSimulator  = "/api/outcome-simulator"
	PathPitchMovement     = "/api/pitch-movement"
	PathLeagueAvgMovement = "/api/league-avg-movement"
	PathTrajectory        = "/api/3d-trajectory"
	PathPitchStrategy     = "/api/pitch-strategy"
	PathPlayerSearch      = "/api/player-search"
	PathPlayerInfo        = "/api/player-info"
	PathLeaderboards      = "/api/leaderboards"
)

// Names of the matchup endpoints, in the order MatchupEndpoints returns them.
const (
	EndpointPitcherSeason = "pitcher-season-stats"
	EndpointBatterSeason  = "batter-season-stats"
	EndpointArsenal       = "pitch-arsenal"
	EndpointHeadToHead    = "pvb-stats"
	EndpointTimeline      = "at-bat-timeline"
	EndpointOutcomes      = "outcome-simulator"
	EndpointMovement      = "pitch-movement"
	EndpointLeagueAvg     = "league-avg-movement"
	EndpointTrajectory    = "3d-trajectory"
	EndpointStrategy      = "pitch-strategy"
)

// Endpoint is one request descriptor: a path plus its query parameters.
type Endpoint struct {
	Name  string
	Path  string
	Query url.Values
}

// URL joins the endpoint onto baseURL. Query values are URL-encoded.
func (e Endpoint) URL(baseURL string) string {
	u := strings.TrimRight(baseURL, "/") + e.Path
	if len(e.Query) > 0 {
		u += "?" + e.Query.Encode()
	}
	return u
}

func query(kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return q
}

// MatchupEndpoints returns the fixed set of requests issued for one
// pitcher/batter analysis. The order is stable; failures are reported for
// the first failing endpoint in this order.
func MatchupEndpoints(pitcher, batter string) []Endpoint {
	return []Endpoint{
		{Name: EndpointPitcherSeason, Path: PathSeasonStats, Query: query("player_name", pitcher)},
		{Name: EndpointBatterSeason, Path: PathSeasonStats, Query: query("player_name", batter)},
		{Name: EndpointArsenal, Path: PathPitchArsenal, Query: query("pitcher", pitcher)},
		{Name: EndpointHeadToHead, Path: PathHeadToHead, Query: query("pitcher", pitcher, "batter", batter)},
		{Name: EndpointTimeline, Path: PathAtBatTimeline, Query: query("pitcher", pitcher, "batter", batter)},
		{Name: EndpointOutcomes, Path: PathOutcomeSimulator, Query: query("pitcher", pitcher, "batter", batter)},
		{Name: EndpointMovement, Path: PathPitchMovement, Query: query("pitcher", pitcher)},
		{Name: EndpointLeagueAvg, Path: PathLeagueAvgMovement},
		{Name: EndpointTrajectory, Path: PathTrajectory, Query: query("pitcher", pitcher, "batter", batter)},
		{Name: EndpointStrategy, Path: PathPitchStrategy, Query: query("pitcher_name", pitcher, "batter_name", batter)},
	}
}

// PlayerSearchEndpoint returns the autocomplete lookup descriptor.
func PlayerSearchEndpoint(name string) Endpoint {
	return Endpoint{Name: "player-search", Path: PathPlayerSearch, Query: query("name", name)}
}

// PlayerInfoEndpoint returns the player portrait lookup descriptor.
func PlayerInfoEndpoint(name string) Endpoint {
	return Endpoint{Name: "player-info", Path: PathPlayerInfo, Query: query("name", name)}
}

// LeaderboardsEndpoint returns the weekly leaders descriptor.
func LeaderboardsEndpoint() Endpoint {
	return Endpoint{Name: "leaderboards", Path: PathLeaderboards}
}

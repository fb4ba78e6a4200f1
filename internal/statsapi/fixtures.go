package statsapi

import (
	"net/http"

	"github.com/banshee-data/pitchview/internal/httputil"
)

// Canned feed payloads for a complete matchup, shaped like the live
// backend responses. They back the -dev mode of cmd/pitchview.
const (
	FixtureSeasonStats = `{"type":"pitcher","name":"Shohei Ohtani","W":10,"L":5,"ERA":3.14,"SO":167,"WHIP":1.06,"IP":132.0}`
	FixtureArsenal     = `[{"pitch_name":"4-Seam Fastball","usage_percentage":34.2,"avg_speed":97.3,"max_speed":101.4,"avg_spin":2350},{"pitch_name":"Sweeper","usage_percentage":29.0,"avg_speed":84.9,"max_speed":88.0,"avg_spin":2600}]`
	FixtureHeadToHead  = `{"pitcher_name":"Shohei Ohtani","batter_name":"Aaron Judge","batting_average":0.25,"total_pa":9,"at_bats":8,"hits":2,"home_runs":1,"strikeouts":3,"walks":1}`
	FixtureTimeline    = `[{"game_date":"2024-06-01","at_bat_number":12,"final_event":"strikeout","pitches":[{"pitch_number":1,"pitch_name":"Sweeper","release_speed":85.1,"description":"called_strike"}]}]`
	FixtureOutcomes    = `[["Out",61.5],["Strikeout",23.1],["Single",15.4]]`
	FixtureMovement    = `[{"pitch_name":"Sweeper","pfx_x_in":15.1,"pfx_z_in":1.2},{"pitch_name":"4-Seam Fastball","pfx_x_in":-7.9,"pfx_z_in":15.6}]`
	FixtureLeague      = `{"Sweeper":{"pfx_x_in":13.8,"pfx_z_in":0.9},"4-Seam Fastball":{"pfx_x_in":-6.7,"pfx_z_in":15.9}}`
	FixtureTrajectory  = `[{"pitch_type":"FF","release_speed":97.2,"release_pos_x":-1.5,"release_pos_y":54,"release_pos_z":6,"plate_x":0.3,"plate_z":2.5,"sz_top":3.4,"sz_bot":1.6},{"pitch_type":"ST","release_speed":84.8,"release_pos_x":-1.7,"release_pos_y":54.1,"release_pos_z":5.8,"plate_x":-0.7,"plate_z":1.9,"sz_top":3.6,"sz_bot":1.7}]`
	FixtureStrategy    = `{"analysis_target":"Shohei Ohtani","first_pitch":{"4-Seam Fastball":55.0,"Sweeper":45.0},"two_strikes":{"Sweeper":70.0,"4-Seam Fastball":30.0},"strikeout_pitch":{"Sweeper":80.0,"4-Seam Fastball":20.0}}`
)

// FixtureRoutes maps every matchup path to its fixture payload.
func FixtureRoutes() map[string]string {
	return map[string]string{
		PathSeasonStats:       FixtureSeasonStats,
		PathPitchArsenal:      FixtureArsenal,
		PathHeadToHead:        FixtureHeadToHead,
		PathAtBatTimeline:     FixtureTimeline,
		PathOutcomeSimulator:  FixtureOutcomes,
		PathPitchMovement:     FixtureMovement,
		PathLeagueAvgMovement: FixtureLeague,
		PathTrajectory:        FixtureTrajectory,
		PathPitchStrategy:     FixtureStrategy,
	}
}

// NewFixtureClient returns a mock client answering every matchup path with
// its fixture. Individual routes can be overridden afterwards.
func NewFixtureClient() *httputil.MockHTTPClient {
	m := httputil.NewMockHTTPClient()
	for path, body := range FixtureRoutes() {
		m.AddRoute(path, http.StatusOK, body)
	}
	return m
}

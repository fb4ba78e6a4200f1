package statsapi

import (
	"context"
	"errors"
	"math"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pitchview/internal/httputil"
)

func TestMatchupEndpoints_OrderAndEncoding(t *testing.T) {
	eps := MatchupEndpoints("Shohei Ohtani", "Aaron Judge")

	var names []string
	for _, ep := range eps {
		names = append(names, ep.Name)
	}
	want := []string{
		EndpointPitcherSeason, EndpointBatterSeason, EndpointArsenal, EndpointHeadToHead,
		EndpointTimeline, EndpointOutcomes, EndpointMovement, EndpointLeagueAvg,
		EndpointTrajectory, EndpointStrategy,
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("endpoint order mismatch (-want +got):\n%s", diff)
	}

	u, err := url.Parse(eps[3].URL("http://feed.local/"))
	require.NoError(t, err)
	assert.Equal(t, "/api/pvb-stats", u.Path)
	assert.Equal(t, "Shohei Ohtani", u.Query().Get("pitcher"))
	assert.Equal(t, "Aaron Judge", u.Query().Get("batter"))
	assert.Contains(t, eps[3].URL("http://feed.local"), "pitcher=Shohei+Ohtani")

	assert.Equal(t, "http://feed.local/api/league-avg-movement", eps[7].URL("http://feed.local"))
	assert.Equal(t, "Shohei Ohtani", eps[9].Query.Get("pitcher_name"))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
		ok   bool
	}{
		{"envelope", `{"error":"invalid player name"}`, "invalid player name", true},
		{"envelope with whitespace", "  \n{\"error\": \"boom\"}", "boom", true},
		{"empty error field", `{"error":""}`, "", false},
		{"no error field", `{"type":"pitcher"}`, "", false},
		{"array", `[{"error":"x"}]`, "", false},
		{"non-string error", `{"error":42}`, "", false},
		{"empty", ``, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := ErrorMessage([]byte(tt.body))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestDecode_PitchRecords(t *testing.T) {
	body := `[{"pitch_type":"FF","release_speed":97.2,"release_pos_x":-1.8,"release_pos_y":54.2,
		"release_pos_z":6.1,"plate_x":0.2,"plate_z":2.5,"sz_top":3.4,"sz_bot":1.6}]`
	var recs PitchRecords
	require.NoError(t, Decode([]byte(body), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "FF", recs[0].PitchType)
	assert.InDelta(t, 54.2, recs[0].ReleasePosY, 1e-9)
}

func TestDecode_RejectsInvalidZone(t *testing.T) {
	body := `[{"pitch_type":"FF","release_speed":90,"release_pos_x":0,"release_pos_y":55,
		"release_pos_z":6,"plate_x":0,"plate_z":2,"sz_top":1.5,"sz_bot":3.5}]`
	var recs PitchRecords
	err := Decode([]byte(body), &recs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pitch 0")
}

func TestDecode_Errors(t *testing.T) {
	var recs PitchRecords
	assert.Error(t, Decode([]byte(""), &recs))
	assert.Error(t, Decode([]byte(`{"pitch_type":"FF"}`), &recs))
	assert.Error(t, Decode([]byte(`[] []`), &recs))

	var stats SeasonStats
	assert.Error(t, Decode([]byte(`{"type":"umpire","name":"x"}`), &stats))
	assert.NoError(t, Decode([]byte(`{"type":"pitcher","name":"x","W":3,"ERA":2.5}`), &stats))
	require.NotNil(t, stats.ERA)
	assert.InDelta(t, 2.5, *stats.ERA, 1e-9)
}

func TestPitchRecord_ValidateNonFinite(t *testing.T) {
	p := PitchRecord{ReleasePosX: math.NaN(), SzTop: 3, SzBot: 1}
	assert.ErrorContains(t, p.Validate(), "release_pos_x")
	p = PitchRecord{PlateZ: math.Inf(1), SzTop: 3, SzBot: 1}
	assert.ErrorContains(t, p.Validate(), "plate_z")
	p = PitchRecord{SzTop: 3, SzBot: 1}
	assert.NoError(t, p.Validate())
}

func TestOutcomeProbability_PairDecoding(t *testing.T) {
	var out Outcomes
	require.NoError(t, Decode([]byte(`[["Out",61.5],["Strikeout",23.1],["Single",15.4]]`), &out))
	want := Outcomes{
		{Outcome: "Out", Probability: 61.5},
		{Outcome: "Strikeout", Probability: 23.1},
		{Outcome: "Single", Probability: 15.4},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}

	assert.Error(t, Decode([]byte(`[["strikeout"]]`), &out))
	assert.Error(t, Decode([]byte(`[{"outcome":"x"}]`), &out))
	assert.Error(t, Decode([]byte(`[[1,0.2]]`), &out))
}

func TestOutcomes_ValidatePercentages(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"certain", `[["Out",100.0]]`, false},
		{"zero", `[["Walk",0]]`, false},
		{"fraction of a percent", `[["Triple",0.4]]`, false},
		{"above 100", `[["Out",100.1]]`, true},
		{"negative", `[["Out",-1]]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out Outcomes
			err := Decode([]byte(tt.body), &out)
			if tt.wantErr {
				assert.ErrorContains(t, err, "out of range")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFixtureRoutes_Decode(t *testing.T) {
	var out Outcomes
	require.NoError(t, Decode([]byte(FixtureRoutes()[PathOutcomeSimulator]), &out))
	assert.Equal(t, OutcomeProbability{Outcome: "Out", Probability: 61.5}, out[0])

	m := NewFixtureClient()
	records, err := NewClient(m, "http://dev.local").Pitches(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestHeadToHead_MessageOrStats(t *testing.T) {
	var h HeadToHead
	require.NoError(t, Decode([]byte(`{"message":"no matchups found"}`), &h))
	assert.False(t, h.HasData())

	h = HeadToHead{}
	require.NoError(t, Decode([]byte(`{"batting_average":0.25,"total_pa":12,"hits":3}`), &h))
	assert.True(t, h.HasData())
	assert.Equal(t, 3, h.Hits)

	h = HeadToHead{}
	assert.Error(t, Decode([]byte(`{}`), &h))
}

func TestMovementAndLeague(t *testing.T) {
	var mv Movements
	require.NoError(t, Decode([]byte(`[{"pitch_name":"Sweeper","pfx_x_in":14.2,"pfx_z_in":1.1}]`), &mv))
	assert.InDelta(t, 14.2, mv[0].PfxXIn, 1e-9)

	var league LeagueMovement
	require.NoError(t, Decode([]byte(`{"Sweeper":{"pfx_x_in":13.0,"pfx_z_in":0.5}}`), &league))
	assert.InDelta(t, 13.0, league["Sweeper"].PfxXIn, 1e-9)
}

func TestLeaderboards_Unmarshal(t *testing.T) {
	var lb Leaderboards
	body := `{"hr_leader":{"player_name":"Aaron Judge","value":"4 HR"},"k_leader":null}`
	require.NoError(t, Decode([]byte(body), &lb))
	require.Contains(t, lb.Categories, "hr_leader")
	assert.Equal(t, "Aaron Judge", lb.Categories["hr_leader"].PlayerName)
	assert.Nil(t, lb.Categories["k_leader"])

	lb = Leaderboards{}
	require.NoError(t, Decode([]byte(`{"message":"no games this week"}`), &lb))
	assert.Equal(t, "no games this week", lb.Message)
	assert.Empty(t, lb.Categories)
}

func TestClient_Get(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddRoute(PathLeagueAvgMovement, 200, `{"Slider":{"pfx_x_in":5,"pfx_z_in":1}}`)
	c := NewClient(mock, "http://feed.local")

	status, body, err := c.Get(context.Background(), MatchupEndpoints("a", "b")[7])
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"Slider":{"pfx_x_in":5,"pfx_z_in":1}}`, string(body))
	assert.Equal(t, "application/json", mock.GetRequest(0).Header.Get("Accept"))
}

func TestClient_GetTransportError(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.DefaultError = errors.New("connection refused")
	c := NewClient(mock, "http://feed.local")

	_, _, err := c.Get(context.Background(), LeaderboardsEndpoint())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leaderboards")
}

func TestClient_Proxies(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddRoute(PathPlayerSearch, 200, `[{"id":660271,"name":"Shohei Ohtani"}]`)
	mock.AddRoute(PathPlayerInfo, 200, `{"error":"player not found"}`)
	mock.AddRoute(PathLeaderboards, 503, `unavailable`)
	c := NewClient(mock, "http://feed.local")
	ctx := context.Background()

	res, err := c.SearchPlayers(ctx, "Oht")
	require.NoError(t, err)
	assert.Equal(t, []PlayerSearchResult{{ID: 660271, Name: "Shohei Ohtani"}}, res)
	assert.Equal(t, "Oht", mock.GetRequest(0).URL.Query().Get("name"))

	_, err = c.PlayerInfo(ctx, "Nobody")
	var fe *FeedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "player not found", fe.Message)

	_, err = c.Leaderboards(ctx)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 503, se.StatusCode)
}

func TestClient_Pitches(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddRoute(PathTrajectory, 200, `[]`)
	c := NewClient(mock, "http://feed.local")

	records, err := c.Pitches(context.Background(), "Shohei Ohtani", "Aaron Judge")
	require.NoError(t, err)
	assert.Empty(t, records)
	require.Equal(t, 1, mock.RequestCount())
	assert.Equal(t, PathTrajectory, mock.GetRequest(0).URL.Path)
}

// Package testutil provides shared test utilities and statistics feed
// fixtures.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/banshee-data/pitchview/internal/httputil"
	"github.com/banshee-data/pitchview/internal/statsapi"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a test HTTP request with an optional body.
func NewTestRequest(method, path string, body ...string) *http.Request {
	var r io.Reader
	if len(body) > 0 {
		r = strings.NewReader(body[0])
	}
	return httptest.NewRequest(method, path, r)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// Feed fixtures re-exported for tests.
const (
	SeasonStatsBody = statsapi.FixtureSeasonStats
	ArsenalBody     = statsapi.FixtureArsenal
	HeadToHeadBody  = statsapi.FixtureHeadToHead
	TimelineBody    = statsapi.FixtureTimeline
	OutcomesBody    = statsapi.FixtureOutcomes
	MovementBody    = statsapi.FixtureMovement
	LeagueBody      = statsapi.FixtureLeague
	TrajectoryBody  = statsapi.FixtureTrajectory
	StrategyBody    = statsapi.FixtureStrategy
)

// FeedRoutes maps every matchup path to a valid payload.
func FeedRoutes() map[string]string {
	return statsapi.FixtureRoutes()
}

// NewFeedMock returns a mock client answering every matchup path with a
// valid payload. Individual routes can be overridden afterwards.
func NewFeedMock() *httputil.MockHTTPClient {
	return statsapi.NewFixtureClient()
}

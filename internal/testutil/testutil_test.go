package testutil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/banshee-data/pitchview/internal/httputil"
	"github.com/banshee-data/pitchview/internal/statsapi"
)

func TestAssertHelpers_NoFailure(t *testing.T) {
	fakeT := &testing.T{}
	AssertStatusCode(fakeT, http.StatusOK, http.StatusOK)
	AssertNoError(fakeT, nil)
	AssertError(fakeT, errors.New("something wrong"))
	if fakeT.Failed() {
		t.Error("expected no failure")
	}
}

func TestNewTestRequest(t *testing.T) {
	req := NewTestRequest(http.MethodPost, "/api/scene/pointer", `{"object_id":"pitch-0"}`)
	if req.Method != http.MethodPost {
		t.Errorf("method = %s, want POST", req.Method)
	}
	body, _ := io.ReadAll(req.Body)
	if string(body) != `{"object_id":"pitch-0"}` {
		t.Errorf("body = %q", body)
	}

	req = NewTestRequest(http.MethodGet, "/")
	if req.URL.Path != "/" {
		t.Errorf("path = %s, want /", req.URL.Path)
	}
}

func TestNewTestRecorder_InitialState(t *testing.T) {
	w := NewTestRecorder()
	if w.Code != http.StatusOK {
		t.Errorf("initial Code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.Len() != 0 {
		t.Errorf("initial body length = %d, want 0", w.Body.Len())
	}
}

// Every fixture must pass the same decoding the orchestrator applies.
func TestFeedFixtures_Decode(t *testing.T) {
	targets := map[string]any{
		statsapi.PathSeasonStats:       &statsapi.SeasonStats{},
		statsapi.PathPitchArsenal:      &statsapi.Arsenal{},
		statsapi.PathHeadToHead:        &statsapi.HeadToHead{},
		statsapi.PathAtBatTimeline:     &statsapi.Timeline{},
		statsapi.PathOutcomeSimulator:  &statsapi.Outcomes{},
		statsapi.PathPitchMovement:     &statsapi.Movements{},
		statsapi.PathLeagueAvgMovement: &statsapi.LeagueMovement{},
		statsapi.PathTrajectory:        &statsapi.PitchRecords{},
		statsapi.PathPitchStrategy:     &statsapi.Strategy{},
	}
	for path, body := range FeedRoutes() {
		if err := statsapi.Decode([]byte(body), targets[path]); err != nil {
			t.Errorf("%s: %v", path, err)
		}
	}
}

func TestNewFeedMock_ServesRoutes(t *testing.T) {
	m := NewFeedMock()
	resp, err := httputil.GetContext(context.Background(), m, "http://feed.local"+statsapi.PathTrajectory+"?pitcher=x")
	AssertNoError(t, err)
	defer resp.Body.Close()
	AssertStatusCode(t, resp.StatusCode, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	if string(body) != TrajectoryBody {
		t.Errorf("unexpected body %q", body)
	}
}

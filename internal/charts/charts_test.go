package charts

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pitchview/internal/orchestrator"
	"github.com/banshee-data/pitchview/internal/statsapi"
	"github.com/banshee-data/pitchview/internal/trajectory"
)

type fixedSource struct{ snap *orchestrator.Snapshot }

func (f fixedSource) Current() *orchestrator.Snapshot { return f.snap }

func sampleResult() *orchestrator.AnalysisResult {
	return &orchestrator.AnalysisResult{
		Pitcher: "Shohei Ohtani",
		Batter:  "Aaron Judge",
		Pitches: statsapi.PitchRecords{
			{PitchType: "FF", ReleaseSpeed: 97, PlateX: 0.1, PlateZ: 2.4, SzTop: 3.4, SzBot: 1.6},
			{PitchType: "ST", ReleaseSpeed: 85, PlateX: -0.8, PlateZ: 1.9, SzTop: 3.4, SzBot: 1.6},
			{PitchType: "FF", ReleaseSpeed: 98, PlateX: 0.4, PlateZ: 3.0, SzTop: 3.4, SzBot: 1.6},
		},
		Movement: statsapi.Movements{
			{PitchName: "Sweeper", MovementVector: statsapi.MovementVector{PfxXIn: 15, PfxZIn: 1}},
			{PitchName: "Forkball", MovementVector: statsapi.MovementVector{PfxXIn: -3, PfxZIn: 2}},
		},
		LeagueMovement: statsapi.LeagueMovement{"Sweeper": {PfxXIn: 13.8, PfxZIn: 0.9}},
		Outcomes:       statsapi.Outcomes{{Outcome: "strikeout", Probability: 30.0}},
	}
}

func TestPlateLocations_SeriesPerPitchType(t *testing.T) {
	scatter := PlateLocations(sampleResult(), trajectory.StrikeZone{Top: 3.4, Bottom: 1.6})
	require.Len(t, scatter.MultiSeries, 2)
	assert.Equal(t, "FF", scatter.MultiSeries[0].Name)
	assert.Equal(t, "ST", scatter.MultiSeries[1].Name)

	var buf bytes.Buffer
	require.NoError(t, scatter.Render(&buf))
	assert.Contains(t, buf.String(), "#ff4d4d")
	assert.Contains(t, buf.String(), "Shohei Ohtani vs Aaron Judge")
}

func TestMovementComparison_OnlyMatchedLeaguePoints(t *testing.T) {
	scatter := MovementComparison(sampleResult())
	require.Len(t, scatter.MultiSeries, 2)
	league, ok := scatter.MultiSeries[0].Data.([]opts.ScatterData)
	require.True(t, ok)
	assert.Len(t, league, 1)
}

func TestHandler_NoSnapshot(t *testing.T) {
	h := NewHandler(fixedSource{})
	w := httptest.NewRecorder()
	h.ServePlate(w, httptest.NewRequest(http.MethodGet, "/debug/charts/plate", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_RendersHTML(t *testing.T) {
	h := NewHandler(fixedSource{snap: &orchestrator.Snapshot{Result: sampleResult()}})

	for name, serve := range map[string]http.HandlerFunc{
		"plate":    h.ServePlate,
		"movement": h.ServeMovement,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			serve(w, httptest.NewRequest(http.MethodGet, "/debug/charts/"+name, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
			assert.Contains(t, w.Body.String(), "echarts")
		})
	}
}

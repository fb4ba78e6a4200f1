// Package charts renders debug HTML charts of the committed analysis with
// go-echarts.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/pitchview/internal/httputil"
	"github.com/banshee-data/pitchview/internal/orchestrator"
	"github.com/banshee-data/pitchview/internal/trajectory"
)

// SnapshotSource yields the committed analysis, or nil.
type SnapshotSource interface {
	Current() *orchestrator.Snapshot
}

// PlateLocations plots where each pitch crossed the plate, one series per
// pitch type, coloured like the 3D scene.
func PlateLocations(res *orchestrator.AnalysisResult, zone trajectory.StrikeZone) *charts.Scatter {
	byType := map[string][]opts.ScatterData{}
	for _, p := range res.Pitches {
		byType[p.PitchType] = append(byType[p.PitchType], opts.ScatterData{
			Value:  []interface{}{p.PlateX, p.PlateZ, p.ReleaseSpeed},
			Symbol: "circle",
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Plate Locations", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s vs %s", res.Pitcher, res.Batter),
			Subtitle: fmt.Sprintf("pitches=%d zone=%.2f-%.2f ft", len(res.Pitches), zone.Bottom, zone.Top),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -2.5, Max: 2.5, Name: "plate_x (ft)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 5, Name: "plate_z (ft)", NameLocation: "middle", NameGap: 30}),
	)
	for _, code := range sortedKeys(byType) {
		scatter.AddSeries(code, byType[code],
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: trajectory.ColorFor(code)}),
		)
	}
	return scatter
}

// MovementComparison plots each pitch's average break against the league
// average for the same pitch name.
func MovementComparison(res *orchestrator.AnalysisResult) *charts.Scatter {
	pitcher := make([]opts.ScatterData, 0, len(res.Movement))
	league := make([]opts.ScatterData, 0, len(res.Movement))
	for _, m := range res.Movement {
		pitcher = append(pitcher, opts.ScatterData{Name: m.PitchName, Value: []interface{}{m.PfxXIn, m.PfxZIn}})
		if avg, ok := res.LeagueMovement[m.PitchName]; ok {
			league = append(league, opts.ScatterData{Name: m.PitchName, Value: []interface{}{avg.PfxXIn, avg.PfxZIn}})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Pitch Movement", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Pitch Movement", Subtitle: fmt.Sprintf("%s vs league average", res.Pitcher)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -25, Max: 25, Name: "Horizontal break (in)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -25, Max: 25, Name: "Induced vertical break (in)", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("league", league,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#9e9e9e"}),
	)
	scatter.AddSeries(res.Pitcher, pitcher,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 14}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right", Formatter: "{b}"}),
	)
	return scatter
}

// OutcomeProbabilities draws the simulated plate-appearance outcomes.
func OutcomeProbabilities(res *orchestrator.AnalysisResult) *charts.Bar {
	x := make([]string, 0, len(res.Outcomes))
	y := make([]opts.BarData, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		x = append(x, o.Outcome)
		y = append(y, opts.BarData{Value: o.Probability})
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Outcome Probabilities", Subtitle: fmt.Sprintf("%s vs %s", res.Pitcher, res.Batter)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("probability %", y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar
}

// Handler serves the debug charts of the committed snapshot.
type Handler struct {
	source SnapshotSource
}

// NewHandler returns a Handler reading from source.
func NewHandler(source SnapshotSource) *Handler {
	return &Handler{source: source}
}

// ServePlate renders the plate location scatter.
func (h *Handler) ServePlate(w http.ResponseWriter, r *http.Request) {
	snap := h.current(w)
	if snap == nil {
		return
	}
	zone := trajectory.AggregateZone(snap.Result.Pitches, trajectory.DefaultOptions().DefaultZone)
	if snap.Scene != nil && snap.Scene.StrikeZone != nil {
		zone = snap.Scene.StrikeZone.Zone
	}
	renderChart(w, PlateLocations(snap.Result, zone))
}

// ServeMovement renders the movement comparison and outcome charts on one
// page.
func (h *Handler) ServeMovement(w http.ResponseWriter, r *http.Request) {
	snap := h.current(w)
	if snap == nil {
		return
	}
	page := components.NewPage()
	page.PageTitle = "Movement & Outcomes"
	page.AddCharts(MovementComparison(snap.Result), OutcomeProbabilities(snap.Result))

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
		return
	}
	writeHTML(w, buf.Bytes())
}

func (h *Handler) current(w http.ResponseWriter) *orchestrator.Snapshot {
	snap := h.source.Current()
	if snap == nil || snap.Result == nil {
		httputil.NotFound(w, "no analysis available")
		return nil
	}
	return snap
}

type renderer interface {
	Render(w io.Writer) error
}

func renderChart(w http.ResponseWriter, c renderer) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	writeHTML(w, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(b)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package trajectory turns raw pitch records into 3D curve descriptors and an
// aggregated strike zone. Everything here is pure: no I/O and no state.
//
// The scene frame is x horizontal (catcher's view), y height and z depth
// toward the mound, all in feet. Home plate sits at z = 0.
package trajectory

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/pitchview/internal/config"
	"github.com/banshee-data/pitchview/internal/statsapi"
)

// Options tunes curve shape and the zone fallback.
type Options struct {
	// ArcHeight lifts the control point above the mean endpoint height.
	ArcHeight float64
	// MinArcHeight and MinArcLength keep degenerate curves drawable.
	MinArcHeight float64
	MinArcLength float64
	DefaultZone  StrikeZone
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return OptionsFromConfig(config.EmptyConfig())
}

// OptionsFromConfig reads curve tunables from cfg, falling back to defaults
// for unset fields.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ArcHeight:    cfg.GetArcHeightFt(),
		MinArcHeight: cfg.GetMinArcHeightFt(),
		MinArcLength: cfg.GetMinArcLengthFt(),
		DefaultZone: StrikeZone{
			Top:    cfg.GetDefaultZoneTopFt(),
			Bottom: cfg.GetDefaultZoneBottomFt(),
		},
	}
}

// StrikeZone is the vertical band, in feet above ground, of a called strike.
type StrikeZone struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Height is Top minus Bottom.
func (z StrikeZone) Height() float64 { return z.Top - z.Bottom }

// Curve is the quadratic Bézier path of one pitch from release to the plate.
type Curve struct {
	ID         string
	Index      int
	PitchType  string
	SpeedMPH   float64
	Color      string
	Start      r3.Vec
	Control    r3.Vec
	End        r3.Vec
	Degenerate bool
}

// Point evaluates the curve at t in [0, 1]. Point(0) is Start and Point(1)
// is End exactly.
func (c Curve) Point(t float64) r3.Vec {
	switch {
	case t <= 0:
		return c.Start
	case t >= 1:
		return c.End
	}
	u := 1 - t
	p := r3.Scale(u*u, c.Start)
	p = r3.Add(p, r3.Scale(2*u*t, c.Control))
	return r3.Add(p, r3.Scale(t*t, c.End))
}

// Sample returns n+1 evenly spaced points along the curve.
func (c Curve) Sample(n int) []r3.Vec {
	if n < 1 {
		n = 1
	}
	pts := make([]r3.Vec, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = c.Point(float64(i) / float64(n))
	}
	return pts
}

// Length approximates the arc length with n chords.
func (c Curve) Length(n int) float64 {
	pts := c.Sample(n)
	var total float64
	for i := 1; i < len(pts); i++ {
		total += r3.Norm(r3.Sub(pts[i], pts[i-1]))
	}
	return total
}

// Result holds one curve per input record, in input order, and the zone.
type Result struct {
	Curves []Curve
	Zone   StrikeZone
}

// CurveID returns the stable object ID of the pitch at index.
func CurveID(index int) string {
	return fmt.Sprintf("pitch-%d", index)
}

// ReleasePoint maps a record's release position into the scene frame.
func ReleasePoint(p statsapi.PitchRecord) r3.Vec {
	return r3.Vec{X: p.ReleasePosX, Y: p.ReleasePosZ, Z: p.ReleasePosY}
}

// PlatePoint maps a record's plate crossing into the scene frame.
func PlatePoint(p statsapi.PitchRecord) r3.Vec {
	return r3.Vec{X: p.PlateX, Y: p.PlateZ, Z: 0}
}

// Reconstruct builds the curve of every record and the mean strike zone.
// An empty input yields no curves and opts.DefaultZone.
func Reconstruct(records []statsapi.PitchRecord, opts Options) Result {
	res := Result{
		Curves: make([]Curve, 0, len(records)),
		Zone:   AggregateZone(records, opts.DefaultZone),
	}
	for i, p := range records {
		res.Curves = append(res.Curves, buildCurve(i, p, opts))
	}
	return res
}

func buildCurve(index int, p statsapi.PitchRecord, opts Options) Curve {
	start := ReleasePoint(p)
	end := PlatePoint(p)
	c := Curve{
		ID:        CurveID(index),
		Index:     index,
		PitchType: p.PitchType,
		SpeedMPH:  p.ReleaseSpeed,
		Color:     ColorFor(p.PitchType),
		Start:     start,
		End:       end,
	}

	mid := r3.Scale(0.5, r3.Add(start, end))
	if start == end {
		// Release and crossing coincide: nudge the end along depth.
		c.Degenerate = true
		c.End = r3.Vec{X: end.X, Y: end.Y, Z: end.Z - opts.MinArcLength}
		mid = r3.Scale(0.5, r3.Add(start, c.End))
		mid.Y = (start.Y+c.End.Y)/2 + opts.MinArcHeight
		c.Control = mid
		return c
	}
	mid.Y = (start.Y+end.Y)/2 + opts.ArcHeight
	c.Control = mid
	return c
}

// AggregateZone averages sz_top and sz_bot across records, or returns def
// when there are none.
func AggregateZone(records []statsapi.PitchRecord, def StrikeZone) StrikeZone {
	if len(records) == 0 {
		return def
	}
	tops := make([]float64, len(records))
	bots := make([]float64, len(records))
	for i, p := range records {
		tops[i] = p.SzTop
		bots[i] = p.SzBot
	}
	return StrikeZone{Top: stat.Mean(tops, nil), Bottom: stat.Mean(bots, nil)}
}

package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/pitchview/internal/security"
	"github.com/banshee-data/pitchview/internal/trajectory"
)

// View selects which two scene axes a plot shows. Depth is always on X.
type View int

const (
	SideView View = iota // depth vs height
	TopView              // depth vs horizontal offset
)

func (v View) String() string {
	if v == TopView {
		return "top"
	}
	return "side"
}

func (v View) project(p r3.Vec) plotter.XY {
	if v == TopView {
		return plotter.XY{X: p.Z, Y: p.X}
	}
	return plotter.XY{X: p.Z, Y: p.Y}
}

// parseHexColor converts "#rrggbb" into a colour, falling back to white.
func parseHexColor(s string) color.Color {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return white
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return white
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}
}

// newPlot draws every curve of res projected onto view. White curves are
// drawn grey so they stay visible on the white background.
func newPlot(res trajectory.Result, view View, title string, segments int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s view)", title, view)
	p.X.Label.Text = "Depth from plate (ft)"
	if view == TopView {
		p.Y.Label.Text = "Horizontal (ft)"
	} else {
		p.Y.Label.Text = "Height (ft)"
	}

	legend := map[string]bool{}
	for _, c := range res.Curves {
		samples := c.Sample(segments)
		pts := make(plotter.XYs, len(samples))
		for i, s := range samples {
			pts[i] = view.project(s)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.ID, err)
		}
		line.Color = parseHexColor(c.Color)
		if c.Color == trajectory.DefaultColor {
			line.Color = color.Gray{Y: 128}
		}
		line.Width = vg.Points(1)
		p.Add(line)
		if !legend[c.PitchType] {
			legend[c.PitchType] = true
			p.Legend.Add(c.PitchType, line)
		}
	}

	if view == SideView {
		zone, err := plotter.NewLine(plotter.XYs{{X: 0, Y: res.Zone.Bottom}, {X: 0, Y: res.Zone.Top}})
		if err != nil {
			return nil, err
		}
		zone.Width = vg.Points(4)
		zone.Color = color.Gray{Y: 64}
		p.Add(zone)
		p.Legend.Add("strike zone", zone)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// savePlots writes the side and top views into dir and returns their paths.
func savePlots(res trajectory.Result, dir, title string, segments int) ([]string, error) {
	var out []string
	for _, view := range []View{SideView, TopView} {
		p, err := newPlot(res, view, title, segments)
		if err != nil {
			return out, err
		}
		file := filepath.Join(dir, fmt.Sprintf("%s_%s.png", security.SanitizeFilename(title), view))
		if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
			return out, fmt.Errorf("failed to save %s: %w", file, err)
		}
		out = append(out, file)
	}
	return out, nil
}

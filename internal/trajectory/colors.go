package trajectory

// DefaultColor is used for pitch types missing from the table.
const DefaultColor = "#ffffff"

// LegendEntry describes one pitch type code in the colour legend.
type LegendEntry struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// legend is ordered for display. Several codes share a colour family.
var legend = []LegendEntry{
	{Code: "FF", Name: "Four-seam fastball", Color: "#ff4d4d"},
	{Code: "FA", Name: "Fastball", Color: "#ff4d4d"},
	{Code: "SL", Name: "Slider", Color: "#4da6ff"},
	{Code: "ST", Name: "Sweeper", Color: "#4da6ff"},
	{Code: "SV", Name: "Slurve", Color: "#4da6ff"},
	{Code: "CU", Name: "Curveball", Color: "#ffff66"},
	{Code: "KC", Name: "Knuckle curve", Color: "#ffff66"},
	{Code: "CH", Name: "Changeup", Color: "#33cc33"},
	{Code: "SI", Name: "Sinker", Color: "#ff8c1a"},
	{Code: "FT", Name: "Two-seam fastball", Color: "#ff8c1a"},
	{Code: "FC", Name: "Cutter", Color: "#9966ff"},
	{Code: "FS", Name: "Splitter", Color: "#ff66b3"},
}

var colorByCode = func() map[string]string {
	m := make(map[string]string, len(legend))
	for _, e := range legend {
		m[e.Code] = e.Color
	}
	return m
}()

// ColorFor resolves a pitch type code to its display colour. It never fails.
func ColorFor(code string) string {
	if c, ok := colorByCode[code]; ok {
		return c
	}
	return DefaultColor
}

// Legend returns a copy of the pitch colour legend in display order.
func Legend() []LegendEntry {
	out := make([]LegendEntry, len(legend))
	copy(out, legend)
	return out
}

package scene

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/pitchview/internal/statsapi"
	"github.com/banshee-data/pitchview/internal/trajectory"
)

func sampleRecords() []statsapi.PitchRecord {
	return []statsapi.PitchRecord{
		{
			PitchType: "FF", ReleaseSpeed: 97.2,
			ReleasePosX: -1.8, ReleasePosY: 54.2, ReleasePosZ: 6.1,
			PlateX: 0.2, PlateZ: 2.5, SzTop: 3.4, SzBot: 1.6,
		},
		{
			PitchType: "ST", ReleaseSpeed: 84.9,
			ReleasePosX: -2.0, ReleasePosY: 54.0, ReleasePosZ: 5.9,
			PlateX: -0.6, PlateZ: 1.9, SzTop: 3.6, SzBot: 1.7,
		},
	}
}

func compose(records []statsapi.PitchRecord, pitcher, batter string) *Scene {
	return Compose(records, trajectory.Reconstruct(records, trajectory.DefaultOptions()), pitcher, batter)
}

func TestCompose_Matchup(t *testing.T) {
	recs := sampleRecords()
	s := compose(recs, "Shohei Ohtani", "Aaron Judge")

	assert.Empty(t, s.Placeholder)
	require.Len(t, s.Trajectories, 2)
	require.Len(t, s.Static, 5)

	p := s.Actor(RolePitcher)
	require.NotNil(t, p)
	assert.Equal(t, Point{X: -1.8, Y: 0, Z: 54.2}, p.Position)
	assert.Equal(t, "OHTANI", p.Label)
	assert.Equal(t, 0.0, p.Yaw)

	b := s.Actor(RoleBatter)
	require.NotNil(t, b)
	assert.Equal(t, Point{X: -1.5, Y: 0, Z: 0.5}, b.Position)
	assert.Equal(t, "JUDGE", b.Label)
	assert.Equal(t, 0.2, b.Yaw)

	z := s.StrikeZone
	assert.InDelta(t, 3.5, z.Zone.Top, 1e-9)
	assert.InDelta(t, 1.65, z.Zone.Bottom, 1e-9)
	assert.InDelta(t, 1.65+(3.5-1.65)/2, z.Center.Y, 1e-9)
	assert.Equal(t, 1.42, z.Width)
	assert.Equal(t, 0.1, z.Depth)
	assert.Equal(t, 0.15, z.Opacity)

	tr := s.Trajectories[1]
	assert.Equal(t, "pitch-1", tr.ID)
	assert.Equal(t, "#4da6ff", tr.Color)
	assert.Equal(t, Point{X: -0.6, Y: 1.9, Z: 0}, tr.Marker.Position)
	assert.Equal(t, 0.08, tr.Marker.Radius)
	assert.Len(t, tr.Path, TubeSegments+1)
	assert.Equal(t, tr.Start, tr.Path[0])
	assert.Equal(t, tr.End, tr.Path[len(tr.Path)-1])

	assert.Equal(t, DefaultCamera(), s.Camera)
}

func TestCompose_EmptyIsPlaceholder(t *testing.T) {
	s := compose(nil, "Shohei Ohtani", "Aaron Judge")
	assert.Equal(t, PlaceholderLabel, s.Placeholder)
	assert.Empty(t, s.Trajectories)
	assert.Equal(t, trajectory.StrikeZone{Top: 3.5, Bottom: 1.5}, s.StrikeZone.Zone)
	assert.Equal(t, Point{X: 0, Y: 0, Z: 60.5}, s.Actor(RolePitcher).Position)
	assert.Equal(t, Point{X: -1.5, Y: 0, Z: 0.5}, s.Actor(RoleBatter).Position)

	ph := Placeholder(trajectory.DefaultOptions())
	assert.Equal(t, PlaceholderLabel, ph.Placeholder)
	assert.Equal(t, "", ph.Actor(RolePitcher).Label)
}

func TestCompose_Deterministic(t *testing.T) {
	a := compose(sampleRecords(), "Shohei Ohtani", "Aaron Judge")
	b := compose(sampleRecords(), "Shohei Ohtani", "Aaron Judge")
	if diff := cmp.Diff(a, b, cmpopts.IgnoreUnexported(Scene{}, Trajectory{})); diff != "" {
		t.Errorf("scenes differ (-a +b):\n%s", diff)
	}

	other := sampleRecords()
	other[0].PlateX = 0.3
	c := compose(other, "Shohei Ohtani", "Aaron Judge")
	assert.NotEqual(t, a.ID, c.ID)
	assert.NotEqual(t, a.ID, compose(sampleRecords(), "Shohei Ohtani", "Juan Soto").ID)
}

func TestScene_LookupAndObjects(t *testing.T) {
	s := compose(sampleRecords(), "A B", "C D")

	objs := s.Objects()
	assert.Len(t, objs, 5+2+1+2)

	obj, ok := s.Lookup("pitch-0")
	require.True(t, ok)
	assert.Equal(t, KindTrajectory, obj.Kind())

	_, ok = s.Trajectory(IDMound)
	assert.False(t, ok)
	_, ok = s.Lookup("nope")
	assert.False(t, ok)

	tr, ok := s.Trajectory("pitch-0")
	require.True(t, ok)
	assert.Equal(t, r3.Vec{X: 0.2, Y: 2.5, Z: 0}, tr.Curve().End)

	seen := map[string]bool{}
	for _, o := range objs {
		assert.False(t, seen[o.ObjectID()], "duplicate id %s", o.ObjectID())
		seen[o.ObjectID()] = true
	}
}

func TestScene_JSON(t *testing.T) {
	s := compose(sampleRecords()[:1], "Shohei Ohtani", "Aaron Judge")
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	trs := decoded["trajectories"].([]any)
	first := trs[0].(map[string]any)
	assert.Equal(t, "trajectory", first["kind"])
	assert.Equal(t, "pitch-0", first["id"])
	assert.Equal(t, "strike_zone", decoded["strike_zone"].(map[string]any)["kind"])
	_, hasPlaceholder := decoded["placeholder"]
	assert.False(t, hasPlaceholder)
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"Shohei Ohtani":          "OHTANI",
		"Vladimir Guerrero Jr.": "JR.",
		"  Judge  ":              "JUDGE",
		"":                       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Label(in), "input %q", in)
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "static", KindStatic.String())
	assert.Equal(t, "actor", KindActor.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestKind_TextRoundTrip(t *testing.T) {
	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("strike_zone")))
	assert.Equal(t, KindStrikeZone, k)
	assert.Error(t, k.UnmarshalText([]byte("cube")))
}

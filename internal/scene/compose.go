package scene

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/pitchview/internal/statsapi"
	"github.com/banshee-data/pitchview/internal/trajectory"
)

// sceneNamespace roots the name-based scene IDs.
var sceneNamespace = uuid.MustParse("9b0c3f1e-52a4-4c8e-a7d6-1f3e8b2c6d40")

// Hat colours of the two actor markers.
const (
	pitcherHatColor = "#dc2626"
	batterHatColor  = "#1e3a8a"
)

// Label returns the last whitespace-separated token of name, upper-cased.
func Label(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[len(fields)-1])
}

// NewActor places a player marker. Orientation depends only on the role.
func NewActor(role Role, name string, pos r3.Vec) *Actor {
	a := &Actor{
		ID:         string(role),
		ObjectKind: KindActor,
		Role:       role,
		Name:       name,
		Label:      Label(name),
		Position:   PointOf(pos),
		HatColor:   batterHatColor,
	}
	if role == RolePitcher {
		a.HatColor = pitcherHatColor
	} else {
		a.Yaw = BatterYaw
	}
	return a
}

// PitcherPosition stands the pitcher at the first release point projected
// onto the ground, or on the mound when there are no pitches.
func PitcherPosition(records []statsapi.PitchRecord) r3.Vec {
	if len(records) == 0 {
		return r3.Vec{X: 0, Y: 0, Z: MoundDepth}
	}
	first := records[0]
	return r3.Vec{X: first.ReleasePosX, Y: 0, Z: first.ReleasePosY}
}

// BatterPosition is fixed beside the plate.
func BatterPosition() r3.Vec {
	return r3.Vec{X: BatterX, Y: 0, Z: BatterDepth}
}

// NewStrikeZoneVolume builds the translucent zone box over the plate.
func NewStrikeZoneVolume(zone trajectory.StrikeZone) *StrikeZoneVolume {
	h := zone.Height()
	return &StrikeZoneVolume{
		ID:         IDStrikeZone,
		ObjectKind: KindStrikeZone,
		Zone:       zone,
		Center:     Point{X: 0, Y: zone.Bottom + h/2, Z: 0},
		Width:      StrikeZoneWidth,
		Height:     h,
		Depth:      StrikeZoneDepth,
		Color:      "#ffffff",
		Emissive:   "#00aaff",
		Opacity:    StrikeZoneAlpha,
	}
}

// NewTrajectory wraps a reconstructed curve as a scene object. The landing
// marker sits at the plate crossing.
func NewTrajectory(c trajectory.Curve, landing r3.Vec) *Trajectory {
	path := make([]Point, 0, TubeSegments+1)
	for _, p := range c.Sample(TubeSegments) {
		path = append(path, PointOf(p))
	}
	return &Trajectory{
		ID:         c.ID,
		ObjectKind: KindTrajectory,
		PitchType:  c.PitchType,
		SpeedMPH:   c.SpeedMPH,
		Color:      c.Color,
		Start:      PointOf(c.Start),
		Control:    PointOf(c.Control),
		End:        PointOf(c.End),
		Path:       path,
		TubeRadius: TubeRadius,
		Degenerate: c.Degenerate,
		Marker:     LandingMarker{Position: PointOf(landing), Radius: MarkerRadius},
		curve:      c,
	}
}

// Compose assembles the scene for one matchup from the pitch records and
// their reconstruction. The result depends only on its inputs.
func Compose(records []statsapi.PitchRecord, recon trajectory.Result, pitcherName, batterName string) *Scene {
	s := &Scene{
		ID:      SceneID(records, pitcherName, batterName),
		Pitcher: pitcherName,
		Batter:  batterName,
		Static:  fieldElements(),
		Actors: []*Actor{
			NewActor(RolePitcher, pitcherName, PitcherPosition(records)),
			NewActor(RoleBatter, batterName, BatterPosition()),
		},
		StrikeZone:   NewStrikeZoneVolume(recon.Zone),
		Trajectories: make([]*Trajectory, 0, len(recon.Curves)),
		Camera:       DefaultCamera(),
	}
	for _, c := range recon.Curves {
		landing := c.End
		if c.Index >= 0 && c.Index < len(records) {
			landing = trajectory.PlatePoint(records[c.Index])
		}
		s.Trajectories = append(s.Trajectories, NewTrajectory(c, landing))
	}
	if len(records) == 0 {
		s.Placeholder = PlaceholderLabel
	}
	s.buildIndex()
	return s
}

// Placeholder returns the scene shown before any analysis: field geometry,
// default actors and the default zone.
func Placeholder(opts trajectory.Options) *Scene {
	return Compose(nil, trajectory.Reconstruct(nil, opts), "", "")
}

// SceneID derives a name-based UUID from the matchup and its pitch records,
// so equal inputs always produce the same ID.
func SceneID(records []statsapi.PitchRecord, pitcherName, batterName string) string {
	h := sha256.New()
	h.Write([]byte(pitcherName))
	h.Write([]byte{0})
	h.Write([]byte(batterName))
	h.Write([]byte{0})
	var buf [8]byte
	for _, p := range records {
		h.Write([]byte(p.PitchType))
		h.Write([]byte{0})
		for _, v := range []float64{
			p.ReleaseSpeed, p.ReleasePosX, p.ReleasePosY, p.ReleasePosZ,
			p.PlateX, p.PlateZ, p.SzTop, p.SzBot,
		} {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return uuid.NewSHA1(sceneNamespace, h.Sum(nil)).String()
}

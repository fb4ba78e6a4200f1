// Package scene composes the 3D scene graph of a matchup: static field
// geometry, player markers, the strike-zone volume and one trajectory per
// pitch. The scene is a plain value; renderers consume its JSON form.
package scene

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/pitchview/internal/trajectory"
)

// Kind tags the concrete type behind an Object.
type Kind int

const (
	KindStatic     Kind = 0
	KindActor      Kind = 1
	KindStrikeZone Kind = 2
	KindTrajectory Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindActor:
		return "actor"
	case KindStrikeZone:
		return "strike_zone"
	case KindTrajectory:
		return "trajectory"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for _, c := range []Kind{KindStatic, KindActor, KindStrikeZone, KindTrajectory} {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown scene object kind %q", text)
}

// Object is any addressable element of the scene graph.
type Object interface {
	ObjectID() string
	Kind() Kind
}

// Point is a scene-frame position in feet.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PointOf converts a gonum vector.
func PointOf(v r3.Vec) Point { return Point{X: v.X, Y: v.Y, Z: v.Z} }

// Vec converts back to a gonum vector.
func (p Point) Vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

// Shape names the primitive of a static element.
type Shape string

const (
	ShapePlane     Shape = "plane"
	ShapeCylinder  Shape = "cylinder"
	ShapeExtrusion Shape = "extrusion"
	ShapeOutline   Shape = "outline"
)

// StaticElement is fixed field geometry, identical in every scene.
type StaticElement struct {
	ID         string  `json:"id"`
	ObjectKind Kind    `json:"kind"`
	Shape      Shape   `json:"shape"`
	Position   Point   `json:"position"`
	Width      float64 `json:"width,omitempty"`
	Depth      float64 `json:"depth,omitempty"`
	Radius     float64 `json:"radius,omitempty"`
	Height     float64 `json:"height,omitempty"`
	// Vertices is the ground footprint of extrusions, relative to Position.
	Vertices []Point `json:"vertices,omitempty"`
	Color    string  `json:"color"`
}

func (e *StaticElement) ObjectID() string { return e.ID }
func (e *StaticElement) Kind() Kind       { return KindStatic }

// Role distinguishes the two actors.
type Role string

const (
	RolePitcher Role = "pitcher"
	RoleBatter  Role = "batter"
)

// Actor is a player marker.
type Actor struct {
	ID         string `json:"id"`
	ObjectKind Kind   `json:"kind"`
	Role       Role   `json:"role"`
	Name       string `json:"name"`
	Label      string `json:"label"`
	Position   Point  `json:"position"`
	// Yaw is rotation about the vertical axis in radians.
	Yaw      float64 `json:"yaw"`
	HatColor string  `json:"hat_color"`
}

func (a *Actor) ObjectID() string { return a.ID }
func (a *Actor) Kind() Kind       { return KindActor }

// StrikeZoneVolume is the translucent box drawn over the plate.
type StrikeZoneVolume struct {
	ID         string                `json:"id"`
	ObjectKind Kind                  `json:"kind"`
	Zone       trajectory.StrikeZone `json:"zone"`
	Center     Point                 `json:"center"`
	Width      float64               `json:"width"`
	Height     float64               `json:"height"`
	Depth      float64               `json:"depth"`
	Color      string                `json:"color"`
	Emissive   string                `json:"emissive"`
	Opacity    float64               `json:"opacity"`
}

func (z *StrikeZoneVolume) ObjectID() string { return z.ID }
func (z *StrikeZoneVolume) Kind() Kind       { return KindStrikeZone }

// LandingMarker is the sphere drawn where a pitch crosses the plate.
type LandingMarker struct {
	Position Point   `json:"position"`
	Radius   float64 `json:"radius"`
}

// Trajectory is the scene object of one pitch curve.
type Trajectory struct {
	ID           string        `json:"id"`
	ObjectKind   Kind          `json:"kind"`
	PitchType    string        `json:"pitch_type"`
	SpeedMPH     float64       `json:"speed_mph"`
	Color        string        `json:"color"`
	Start        Point         `json:"start"`
	Control      Point         `json:"control"`
	End          Point         `json:"end"`
	Path         []Point       `json:"path"`
	TubeRadius   float64       `json:"tube_radius"`
	Degenerate   bool          `json:"degenerate,omitempty"`
	Marker       LandingMarker `json:"marker"`
	curve        trajectory.Curve
}

func (t *Trajectory) ObjectID() string { return t.ID }
func (t *Trajectory) Kind() Kind       { return KindTrajectory }

// Curve returns the underlying Bézier descriptor.
func (t *Trajectory) Curve() trajectory.Curve { return t.curve }

// Camera is the initial viewpoint hint for renderers.
type Camera struct {
	Position    Point   `json:"position"`
	Target      Point   `json:"target"`
	FOV         float64 `json:"fov"`
	MinDistance float64 `json:"min_distance"`
	MaxDistance float64 `json:"max_distance"`
}

// Scene is one composed scene graph. It is never mutated after Compose.
type Scene struct {
	ID           string            `json:"id"`
	Pitcher      string            `json:"pitcher"`
	Batter       string            `json:"batter"`
	Static       []*StaticElement  `json:"static"`
	Actors       []*Actor          `json:"actors"`
	StrikeZone   *StrikeZoneVolume `json:"strike_zone"`
	Trajectories []*Trajectory     `json:"trajectories"`
	Camera       Camera            `json:"camera"`
	Placeholder  string            `json:"placeholder,omitempty"`

	index map[string]Object
}

// Objects returns every object in draw order.
func (s *Scene) Objects() []Object {
	out := make([]Object, 0, len(s.Static)+len(s.Actors)+1+len(s.Trajectories))
	for _, e := range s.Static {
		out = append(out, e)
	}
	for _, a := range s.Actors {
		out = append(out, a)
	}
	if s.StrikeZone != nil {
		out = append(out, s.StrikeZone)
	}
	for _, tr := range s.Trajectories {
		out = append(out, tr)
	}
	return out
}

// Lookup finds an object by ID.
func (s *Scene) Lookup(id string) (Object, bool) {
	if s == nil {
		return nil, false
	}
	if s.index == nil {
		s.buildIndex()
	}
	obj, ok := s.index[id]
	return obj, ok
}

// Trajectory finds a trajectory object by ID.
func (s *Scene) Trajectory(id string) (*Trajectory, bool) {
	obj, ok := s.Lookup(id)
	if !ok {
		return nil, false
	}
	tr, ok := obj.(*Trajectory)
	return tr, ok
}

// Actor returns the actor with the given role.
func (s *Scene) Actor(role Role) *Actor {
	for _, a := range s.Actors {
		if a.Role == role {
			return a
		}
	}
	return nil
}

func (s *Scene) buildIndex() {
	s.index = make(map[string]Object)
	for _, obj := range s.Objects() {
		s.index[obj.ObjectID()] = obj
	}
}

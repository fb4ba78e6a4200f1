// Package interaction tracks pointer hover state over the trajectories of a
// committed scene and produces tooltip content for hovered pitches.
package interaction

import (
	"errors"
	"sort"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/pitchview/internal/scene"
	"github.com/banshee-data/pitchview/internal/units"
)

// ErrUnknownObject is returned for IDs that are not hoverable trajectories
// of the current scene.
var ErrUnknownObject = errors.New("unknown scene object")

// TooltipLift raises the tooltip above the landing marker, in feet.
const TooltipLift = 0.3

// State is the hover state of one object.
type State int

const (
	Idle    State = 0
	Hovered State = 1
)

func (s State) String() string {
	if s == Hovered {
		return "hovered"
	}
	return "idle"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Tooltip is the transient label shown for a hovered pitch.
type Tooltip struct {
	ObjectID string      `json:"object_id"`
	Text     string      `json:"text"`
	Anchor   scene.Point `json:"anchor"`
	Color    string      `json:"color"`
}

// Controller holds per-object hover state for one scene. Several objects may
// be hovered at once. It is safe for concurrent use.
type Controller struct {
	mu         sync.Mutex
	scene      *scene.Scene
	generation uint64
	units      string
	tooltips   map[string]Tooltip
}

// NewController starts with every object idle.
func NewController(s *scene.Scene, speedUnits string) *Controller {
	if !units.IsValid(speedUnits) {
		speedUnits = units.MPH
	}
	return &Controller{
		scene:    s,
		units:    speedUnits,
		tooltips: make(map[string]Tooltip),
	}
}

// Enter moves id to Hovered and returns its tooltip. Entering an object
// that is already hovered changes nothing and reports changed=false.
func (c *Controller) Enter(id string) (Tooltip, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tr, ok := c.scene.Trajectory(id)
	if !ok {
		return Tooltip{}, false, ErrUnknownObject
	}
	if tip, hovered := c.tooltips[id]; hovered {
		return tip, false, nil
	}
	anchor := r3.Add(tr.Marker.Position.Vec(), r3.Vec{Y: TooltipLift})
	tip := Tooltip{
		ObjectID: id,
		Text:     units.FormatSpeed(tr.SpeedMPH, c.units),
		Anchor:   scene.PointOf(anchor),
		Color:    tr.Color,
	}
	c.tooltips[id] = tip
	return tip, true, nil
}

// Leave returns id to Idle. Leaving an idle object is a no-op that reports
// changed=false.
func (c *Controller) Leave(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.scene.Trajectory(id); !ok {
		return false, ErrUnknownObject
	}
	if _, hovered := c.tooltips[id]; !hovered {
		return false, nil
	}
	delete(c.tooltips, id)
	return true, nil
}

// State reports the hover state of id. Unknown IDs are Idle.
func (c *Controller) State(id string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tooltips[id]; ok {
		return Hovered
	}
	return Idle
}

// Tooltips lists every active tooltip ordered by object ID.
func (c *Controller) Tooltips() []Tooltip {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Tooltip, 0, len(c.tooltips))
	for _, tip := range c.tooltips {
		out = append(out, tip)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ObjectID < out[j].ObjectID })
	return out
}

// Reset discards all hover state and binds the controller to s, the scene
// of analysis generation gen. A generation older than the one already bound
// is ignored and reports false.
func (c *Controller) Reset(gen uint64, s *scene.Scene) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen < c.generation {
		return false
	}
	c.generation = gen
	c.scene = s
	c.tooltips = make(map[string]Tooltip)
	return true
}

// Generation returns the analysis generation of the bound scene.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Scene returns the scene the controller currently tracks.
func (c *Controller) Scene() *scene.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene
}

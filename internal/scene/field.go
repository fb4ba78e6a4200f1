package scene

// Field dimensions in feet.
const (
	GroundSize       = 100.0
	MoundRadius      = 9.0
	MoundHeight      = 0.5
	MoundDepth       = 60.5
	PlateHalfWidth   = 0.708
	PlateThickness   = 0.1
	BatterBoxWidth   = 4.0
	BatterBoxDepth   = 6.0
	BatterBoxOffset  = 0.5
	StrikeZoneWidth  = 1.42
	StrikeZoneDepth  = 0.1
	StrikeZoneAlpha  = 0.15
	MarkerRadius     = 0.08
	TubeRadius       = 0.015
	TubeSegments     = 20
	BatterX          = -1.5
	BatterDepth      = 0.5
	BatterYaw        = 0.2
	PlaceholderLabel = "no data available"
)

// Static element IDs.
const (
	IDGround         = "ground"
	IDMound          = "mound"
	IDHomePlate      = "home-plate"
	IDBatterBoxLeft  = "batter-box-left"
	IDBatterBoxRight = "batter-box-right"
	IDStrikeZone     = "strike-zone"
	IDPitcher        = "pitcher"
	IDBatter         = "batter"
)

// plateCentreDepth is the depth of the plate's midpoint; the point of the
// pentagon faces the catcher.
const plateCentreDepth = -PlateHalfWidth / 4

// homePlateFootprint is the pentagon outline in ground coordinates (x, depth),
// relative to the plate element position.
func homePlateFootprint() []Point {
	h := PlateHalfWidth
	return []Point{
		{X: 0, Z: -h},
		{X: h, Z: 0},
		{X: h, Z: h / 2},
		{X: -h, Z: h / 2},
		{X: -h, Z: 0},
	}
}

// fieldElements returns fresh copies of the fixed field geometry.
func fieldElements() []*StaticElement {
	boxX := PlateHalfWidth + BatterBoxOffset + BatterBoxWidth/2
	return []*StaticElement{
		{
			ID: IDGround, ObjectKind: KindStatic, Shape: ShapePlane,
			Width: GroundSize, Depth: GroundSize, Color: "#052e16",
		},
		{
			ID: IDMound, ObjectKind: KindStatic, Shape: ShapeCylinder,
			Position: Point{Y: MoundHeight / 2, Z: MoundDepth},
			Radius:   MoundRadius, Height: MoundHeight, Color: "#b45309",
		},
		{
			ID: IDHomePlate, ObjectKind: KindStatic, Shape: ShapeExtrusion,
			Position: Point{Y: PlateThickness / 2, Z: 0},
			Height:   PlateThickness, Vertices: homePlateFootprint(), Color: "#ffffff",
		},
		{
			ID: IDBatterBoxLeft, ObjectKind: KindStatic, Shape: ShapeOutline,
			Position: Point{X: -boxX, Z: plateCentreDepth},
			Width:    BatterBoxWidth, Depth: BatterBoxDepth, Color: "#ffffff",
		},
		{
			ID: IDBatterBoxRight, ObjectKind: KindStatic, Shape: ShapeOutline,
			Position: Point{X: boxX, Z: plateCentreDepth},
			Width:    BatterBoxWidth, Depth: BatterBoxDepth, Color: "#ffffff",
		},
	}
}

// DefaultCamera is the initial orbit viewpoint behind home plate.
func DefaultCamera() Camera {
	return Camera{
		Position:    Point{X: 0, Y: 6, Z: 35},
		Target:      Point{X: 0, Y: 2, Z: 0},
		FOV:         45,
		MinDistance: 5,
		MaxDistance: 80,
	}
}

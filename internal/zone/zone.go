package zone

import "image"

// Sheet dimensions. The editor canvas is taller than the garment template so
// the limb zones are fully visible; the two sizes are declared independently.
const (
	CanvasWidth  = 585
	CanvasHeight = 600

	TemplateWidth  = 585
	TemplateHeight = 559
)

// Zone is a labeled guide rectangle drawn on a layer canvas.
type Zone struct {
	ID           string
	X, Y, W, H   int
	Color        string // #RRGGBB
	Label        string
	LabelOffsetY int
}

// Rect returns the zone rectangle in sheet pixel space.
func (z Zone) Rect() image.Rectangle {
	return image.Rect(z.X, z.Y, z.X+z.W, z.Y+z.H)
}

// Region is a pixel rectangle on a texture sheet.
type Region struct {
	X, Y, W, H int
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Drop zones rendered as guides on both canvases.
var DropZones = []Zone{
	{ID: "torso_front", X: 128, Y: 128, W: 128, H: 128, Color: "#4CAF50", Label: "FRONT", LabelOffsetY: -20},
	{ID: "torso_back", X: 327, Y: 128, W: 128, H: 128, Color: "#4CAF50", Label: "BACK", LabelOffsetY: -20},
	{ID: "right_arm", X: 0, Y: 323, W: 192, H: 236, Color: "#2196F3", Label: "R. ARM/LEG", LabelOffsetY: -20},
	{ID: "left_arm", X: 393, Y: 323, W: 192, H: 236, Color: "#FF9800", Label: "L. ARM/LEG", LabelOffsetY: -20},
}

// Fit zone ids.
const (
	FitFront = "front"
	FitBack  = "back"
	FitRArm  = "r_arm"
	FitLArm  = "l_arm"
)

// FitZones are the rectangles a selected layer can be snapped to.
var FitZones = map[string]Region{
	FitFront: {X: 128, Y: 128, W: 128, H: 128},
	FitBack:  {X: 327, Y: 128, W: 128, H: 128},
	FitRArm:  {X: 64, Y: 388, W: 64, H: 128},
	FitLArm:  {X: 455, Y: 388, W: 64, H: 128},
}

// FitZone looks up a fit zone by id.
func FitZone(id string) (Region, bool) {
	r, ok := FitZones[id]
	return r, ok
}

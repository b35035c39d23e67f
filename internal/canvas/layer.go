package canvas

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// Transform places a layer image on the canvas. Left/Top is where the
// image's top-left corner lands; rotation (degrees, clockwise on the y-down
// canvas) pivots around that corner.
type Transform struct {
	Left, Top      float64
	ScaleX, ScaleY float64
	Rotation       float64
}

// Delta is an incremental direct-manipulation gesture. Moves and rotation
// add; scales multiply, with zero meaning unchanged.
type Delta struct {
	DX, DY         float64
	ScaleX, ScaleY float64
	Rotate         float64
}

// Apply returns t changed by d.
func (t Transform) Apply(d Delta) Transform {
	t.Left += d.DX
	t.Top += d.DY
	if d.ScaleX != 0 {
		t.ScaleX *= d.ScaleX
	}
	if d.ScaleY != 0 {
		t.ScaleY *= d.ScaleY
	}
	t.Rotation = math.Mod(t.Rotation+d.Rotate, 360)
	return t
}

// Layer is a user-placed image owned by exactly one Canvas.
type Layer struct {
	id    int
	img   *image.NRGBA
	t     Transform
	guide bool
}

// ID is unique within the owning canvas.
func (l *Layer) ID() int { return l.id }

// Image returns the layer's natural-size pixels.
func (l *Layer) Image() *image.NRGBA { return l.img }

// Width and Height are the natural image size.
func (l *Layer) Width() int  { return l.img.Bounds().Dx() }
func (l *Layer) Height() int { return l.img.Bounds().Dy() }

// Transform returns the current placement.
func (l *Layer) Transform() Transform { return l.t }

// IsGuide reports whether the layer is a non-interactive guide object.
func (l *Layer) IsGuide() bool { return l.guide }

// matrix maps natural image coordinates to canvas coordinates.
func (l *Layer) matrix() f64.Aff3 {
	sin, cos := math.Sincos(l.t.Rotation * math.Pi / 180)
	return f64.Aff3{
		l.t.ScaleX * cos, -l.t.ScaleY * sin, l.t.Left,
		l.t.ScaleX * sin, l.t.ScaleY * cos, l.t.Top,
	}
}

// Contains reports whether canvas point (x, y) falls on the layer.
func (l *Layer) Contains(x, y float64) bool {
	if l.t.ScaleX == 0 || l.t.ScaleY == 0 {
		return false
	}
	sin, cos := math.Sincos(l.t.Rotation * math.Pi / 180)
	dx, dy := x-l.t.Left, y-l.t.Top
	u := (cos*dx + sin*dy) / l.t.ScaleX
	v := (-sin*dx + cos*dy) / l.t.ScaleY
	return u >= 0 && v >= 0 && u < float64(l.Width()) && v < float64(l.Height())
}

// Corners returns the transformed corners clockwise from the origin corner.
func (l *Layer) Corners() [4][2]float64 {
	m := l.matrix()
	w, h := float64(l.Width()), float64(l.Height())
	pt := func(u, v float64) [2]float64 {
		return [2]float64{m[0]*u + m[1]*v + m[2], m[3]*u + m[4]*v + m[5]}
	}
	return [4][2]float64{pt(0, 0), pt(w, 0), pt(w, h), pt(0, h)}
}

// Bounds is the axis-aligned box enclosing the transformed layer.
func (l *Layer) Bounds() image.Rectangle {
	c := l.Corners()
	minX, minY := c[0][0], c[0][1]
	maxX, maxY := minX, minY
	for _, p := range c[1:] {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

package canvas

import (
	"image"

	"garment-texture-studio/internal/logging"
	"garment-texture-studio/internal/zone"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	guideLineWidth = 2
	guideDash      = 5

	selectionColor  = "#6699ff"
	selectionHandle = 8
)

// renderGuides draws the dashed zone outlines and their labels into a
// transparent overlay. Guides never change, so this runs once per canvas.
func renderGuides(w, h int, zones []zone.Zone) *image.RGBA {
	overlay := image.NewRGBA(image.Rect(0, 0, w, h))

	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()
	dc.SetLineWidth(guideLineWidth)
	dc.SetDash(guideDash, guideDash)
	for _, z := range zones {
		dc.SetHexColor(z.Color)
		dc.DrawRectangle(float64(z.X), float64(z.Y), float64(z.W), float64(z.H))
		if err := dc.Stroke(); err != nil {
			logging.Logger().Warn("guide stroke failed", "zone", z.ID, "err", err)
		}
	}
	draw.Draw(overlay, overlay.Bounds(), dc.Image(), image.Point{}, draw.Over)

	face := basicfont.Face7x13
	ascent := face.Metrics().Ascent.Ceil()
	for _, z := range zones {
		d := &font.Drawer{
			Dst:  overlay,
			Src:  image.NewUniform(gg.Hex(z.Color).Color()),
			Face: face,
		}
		width := d.MeasureString(z.Label).Ceil()
		x := z.X + z.W/2 - width/2
		y := z.Y + z.LabelOffsetY + ascent
		d.Dot = fixed.P(x, y)
		d.DrawString(z.Label)
	}
	return overlay
}

// renderSelection draws the selection border and corner handles of l.
func renderSelection(w, h int, l *Layer) image.Image {
	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()

	corners := l.Corners()
	dc.SetHexColor(selectionColor)
	dc.SetLineWidth(1)
	dc.MoveTo(corners[0][0], corners[0][1])
	for _, p := range corners[1:] {
		dc.LineTo(p[0], p[1])
	}
	dc.ClosePath()
	if err := dc.Stroke(); err != nil {
		logging.Logger().Warn("selection stroke failed", "err", err)
		return nil
	}
	for _, p := range corners {
		dc.DrawRectangle(p[0]-selectionHandle/2, p[1]-selectionHandle/2, selectionHandle, selectionHandle)
	}
	if err := dc.Fill(); err != nil {
		logging.Logger().Warn("selection handles failed", "err", err)
		return nil
	}
	return dc.Image()
}

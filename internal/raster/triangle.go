package raster

import (
	"image"
	"image/color"
	"math"
)

// Vertex is a projected vertex: screen position, 1/w for perspective-correct
// interpolation and depth, and texture coordinates.
type Vertex struct {
	X, Y float64
	InvW float64
	U, V float64
}

// RasterizeTriangle fills a screen-space triangle with z-buffering.
// With tex nil the triangle is filled with base. Back-facing triangles
// (clockwise on screen, y down) are culled.
//
// This is the HOT PATH; the pixel loop does not allocate.
func RasterizeTriangle(fb *FrameBuffer, vs [3]Vertex, tex *image.NRGBA, base color.NRGBA, shade float64, lc *LightConfig) {
	x0, y0 := vs[0].X, vs[0].Y
	x1, y1 := vs[1].X, vs[1].Y
	x2, y2 := vs[2].X, vs[2].Y

	area := (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
	if area <= 1e-8 {
		return
	}

	// Bounding box
	minX := max(int(math.Floor(min(x0, x1, x2))), 0)
	maxX := min(int(math.Ceil(max(x0, x1, x2))), fb.Width-1)
	minY := max(int(math.Floor(min(y0, y1, y2))), 0)
	maxY := min(int(math.Ceil(max(y0, y1, y2))), fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	invDet := 1.0 / det
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	// Attributes divided by w interpolate linearly in screen space.
	q0, q1, q2 := vs[0].InvW, vs[1].InvW, vs[2].InvW
	u0, u1, u2 := vs[0].U*q0, vs[1].U*q1, vs[2].U*q2
	v0, v1, v2 := vs[0].V*q0, vs[1].V*q1, vs[2].V*q2

	var baseR, baseG, baseB uint8
	if tex == nil {
		baseR = lc.shadeChannel(base.R, shade)
		baseG = lc.shadeChannel(base.G, shade)
		baseB = lc.shadeChannel(base.B, shade)
	}

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			q := w0*q0 + w1*q1 + w2*q2
			zIdx := rowOff + sx
			if q <= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = q

			pxIdx := zIdx * 4
			if tex == nil {
				fb.Color[pxIdx] = baseR
				fb.Color[pxIdx+1] = baseG
				fb.Color[pxIdx+2] = baseB
				fb.Color[pxIdx+3] = 255
				continue
			}
			u := (w0*u0 + w1*u1 + w2*u2) / q
			v := (w0*v0 + w1*v1 + w2*v2) / q
			cr, cg, cb, _ := SampleTexture(tex, u, v)
			fb.Color[pxIdx] = lc.shadeChannel(cr, shade)
			fb.Color[pxIdx+1] = lc.shadeChannel(cg, shade)
			fb.Color[pxIdx+2] = lc.shadeChannel(cb, shade)
			fb.Color[pxIdx+3] = 255
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

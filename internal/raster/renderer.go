package raster

import (
	"image"
	"image/color"

	"garment-texture-studio/internal/mathutil"
	"garment-texture-studio/internal/postprocess"
	"garment-texture-studio/internal/rig"
	"garment-texture-studio/internal/zone"

	"github.com/go-gl/mathgl/mgl64"
)

// Scene describes one frame of the rig.
type Scene struct {
	View mgl64.Mat4
	Proj mgl64.Mat4
	// Model rotates the rig about the origin before viewing.
	Model mathutil.Mat3

	Width, Height int
	Supersample   int
	Background    color.NRGBA
	Lights        LightConfig
}

// quad corner UVs: TL, TR, BR, BL.
var quadUV = [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// minW drops faces with a corner at or behind the near plane.
const minW = 1e-3

// RenderRig draws every part of r into an image of the scene size. Face
// textures are read under their read locks, so rendering can run alongside
// texture sync.
func RenderRig(r *rig.Rig, sc Scene) *image.NRGBA {
	ss := max(sc.Supersample, 1)
	w, h := sc.Width*ss, sc.Height*ss

	fb := NewFrameBuffer(w, h, sc.Background)
	pv := sc.Proj.Mul4(sc.View)
	lc := sc.Lights

	for _, p := range r.Parts() {
		for _, f := range zone.FaceOrder {
			q := p.Faces[f]
			var vs [4]Vertex
			visible := true
			for i, c := range q.Corners {
				wp := sc.Model.MulVec3(c)
				clip := pv.Mul4x1(mgl64.Vec4{wp[0], wp[1], wp[2], 1})
				if clip[3] < minW {
					visible = false
					break
				}
				invW := 1 / clip[3]
				vs[i] = Vertex{
					X:    (clip[0]*invW + 1) / 2 * float64(w),
					Y:    (1 - clip[1]*invW) / 2 * float64(h),
					InvW: invW,
					U:    quadUV[i][0],
					V:    quadUV[i][1],
				}
			}
			if !visible {
				continue
			}

			shade := lc.ComputeShade(sc.Model.MulVec3(q.Normal))
			mat := p.Materials[f]
			fill := func(tex *image.NRGBA) {
				RasterizeTriangle(fb, [3]Vertex{vs[0], vs[1], vs[2]}, tex, mat.Color, shade, &lc)
				RasterizeTriangle(fb, [3]Vertex{vs[0], vs[2], vs[3]}, tex, mat.Color, shade, &lc)
			}
			if mat.Kind == rig.Textured && mat.Texture != nil {
				mat.Texture.View(fill)
			} else {
				fill(nil)
			}
		}
	}

	img := fb.Image()
	if ss > 1 {
		img = postprocess.Downsample(img, sc.Width, sc.Height)
	}
	return img
}

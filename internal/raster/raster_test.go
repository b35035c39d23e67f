package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"garment-texture-studio/internal/mathutil"
	"garment-texture-studio/internal/rig"
	"garment-texture-studio/internal/texture"
	"garment-texture-studio/internal/zone"

	"github.com/go-gl/mathgl/mgl64"
)

var bg = color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 255}

func frontScene(w, h int) Scene {
	return Scene{
		View:        mgl64.LookAtV(mgl64.Vec3{0, 0, 8}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}),
		Proj:        mgl64.Perspective(mgl64.DegToRad(40), float64(w)/float64(h), 0.1, 100),
		Model:       mathutil.Mat3Identity(),
		Width:       w,
		Height:      h,
		Supersample: 1,
		Background:  bg,
		Lights:      DefaultLightConfig(),
	}
}

func TestComputeShade(t *testing.T) {
	lc := DefaultLightConfig()
	front := lc.ComputeShade(mathutil.Vec3{0, 0, 1})
	want := 0.7 + 0.6*5/math.Sqrt(50)
	if math.Abs(front-want) > 1e-9 {
		t.Errorf("front shade = %v, want %v", front, want)
	}
	if got := lc.ComputeShade(mathutil.Vec3{0, -1, 0}); got != lc.Ambient {
		t.Errorf("unlit bottom shade = %v, want ambient %v", got, lc.Ambient)
	}
}

func TestRasterizeTriangleCullsBackFaces(t *testing.T) {
	lc := DefaultLightConfig()
	fb := NewFrameBuffer(16, 16, bg)
	red := color.NRGBA{R: 255, A: 255}

	cw := [3]Vertex{{X: 0, Y: 0, InvW: 1}, {X: 16, Y: 16, InvW: 1}, {X: 16, Y: 0, InvW: 1}}
	RasterizeTriangle(fb, cw, nil, red, 1, &lc)
	if got := fb.Image().NRGBAAt(12, 4); got != bg {
		t.Errorf("back face drew %v", got)
	}

	ccw := [3]Vertex{cw[0], cw[2], cw[1]}
	RasterizeTriangle(fb, ccw, nil, red, 1, &lc)
	if got := fb.Image().NRGBAAt(12, 4); got != red {
		t.Errorf("front face pixel = %v, want %v", got, red)
	}
}

func TestRasterizeTriangleDepth(t *testing.T) {
	lc := DefaultLightConfig()
	fb := NewFrameBuffer(8, 8, bg)
	near := color.NRGBA{G: 255, A: 255}
	far := color.NRGBA{B: 255, A: 255}
	tri := func(q float64) [3]Vertex {
		return [3]Vertex{{X: 0, Y: 0, InvW: q}, {X: 8, Y: 0, InvW: q}, {X: 0, Y: 8, InvW: q}}
	}
	RasterizeTriangle(fb, tri(0.5), nil, near, 1, &lc)
	RasterizeTriangle(fb, tri(0.1), nil, far, 1, &lc)
	if got := fb.Image().NRGBAAt(1, 1); got != near {
		t.Errorf("pixel = %v, want nearer %v", got, near)
	}
}

func TestSampleTextureClampsAndFilters(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	tex.SetNRGBA(0, 0, color.NRGBA{R: 0, A: 255})
	tex.SetNRGBA(1, 0, color.NRGBA{R: 200, A: 255})

	if r, _, _, _ := SampleTexture(tex, -3, 0); r != 0 {
		t.Errorf("u<0 r = %d, want 0", r)
	}
	if r, _, _, _ := SampleTexture(tex, 7, 0); r != 200 {
		t.Errorf("u>1 r = %d, want 200", r)
	}
	if r, _, _, _ := SampleTexture(tex, 0.5, 0); r != 100 {
		t.Errorf("midpoint r = %d, want 100", r)
	}
}

func TestRenderRigShowsFrontTexture(t *testing.T) {
	box := zone.BodyPart{
		Name:   zone.Torso,
		Size:   [3]float64{2, 2, 1},
		Source: zone.SourceShirt,
		Faces:  [6]*zone.Region{zone.Front: {X: 128, Y: 128, W: 128, H: 128}},
	}
	r := rig.NewFromParts([]zone.BodyPart{box})
	p, _ := r.Part(zone.Torso)
	p.Textures[zone.Front].Update(func(img *image.NRGBA) {
		texture.Fill(img, color.NRGBA{R: 255, A: 255})
	})

	img := RenderRig(r, frontScene(100, 130))
	if got := img.NRGBAAt(50, 65); got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("center = %v, want lit red", got)
	}
	if got := img.NRGBAAt(1, 1); got != bg {
		t.Errorf("corner = %v, want background", got)
	}
}

func TestRenderRigSkinHead(t *testing.T) {
	r := rig.NewFromParts([]zone.BodyPart{{Name: zone.Head, Size: [3]float64{2, 2, 2}}})
	img := RenderRig(r, frontScene(64, 64))
	got := img.NRGBAAt(32, 32)
	if got == bg {
		t.Fatal("head not drawn")
	}
	// Lit skin is brighter than the unlit base but keeps its hue ordering.
	if !(got.R > got.G && got.G > got.B) || got.R < rig.SkinColor.R {
		t.Errorf("head pixel = %v, want lit skin", got)
	}
}

func TestRenderRigSupersampleSize(t *testing.T) {
	sc := frontScene(40, 52)
	sc.Supersample = 2
	img := RenderRig(rig.New(), sc)
	if img.Bounds().Size() != image.Pt(40, 52) {
		t.Errorf("size = %v, want 40x52", img.Bounds().Size())
	}
}

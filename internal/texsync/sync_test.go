package texsync

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"garment-texture-studio/internal/canvas"
	"garment-texture-studio/internal/rig"
	"garment-texture-studio/internal/texture"
	"garment-texture-studio/internal/zone"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	texture.Fill(img, c)
	return img
}

func setup() (*canvas.Canvas, *canvas.Canvas, *rig.Rig, *Synchronizer) {
	shirt, pants := canvas.New(canvas.Shirt), canvas.New(canvas.Pants)
	r := rig.New()
	return shirt, pants, r, New(shirt, pants, r)
}

func part(t *testing.T, r *rig.Rig, name string) *rig.Part {
	t.Helper()
	p, ok := r.Part(name)
	if !ok {
		t.Fatalf("part %s missing", name)
	}
	return p
}

func TestStartupNeutralFills(t *testing.T) {
	_, _, r, s := setup()
	if s.Passes() != 0 {
		t.Fatalf("passes before any change = %d", s.Passes())
	}
	torso := part(t, r, zone.Torso).Textures[zone.Front].Snapshot()
	if got := torso.NRGBAAt(5, 5); got != texture.White {
		t.Errorf("torso front = %v, want white", got)
	}
	leg := part(t, r, zone.RightLeg).Textures[zone.Front].Snapshot()
	if got := leg.NRGBAAt(5, 5); got != texture.Denim {
		t.Errorf("leg front = %v, want denim", got)
	}
}

func TestFittedFrontMatchesSheetExactly(t *testing.T) {
	shirt, _, r, s := setup()
	// A gradient so resampling mistakes would show.
	src := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 90, A: 255})
		}
	}
	if _, err := shirt.Add(src); err != nil {
		t.Fatal(err)
	}
	if err := shirt.FitToZone(zone.FitFront); err != nil {
		t.Fatal(err)
	}
	if s.Passes() != 2 {
		t.Errorf("passes = %d, want 2 (add + fit)", s.Passes())
	}

	sheet := shirt.Rasterize(canvas.RasterOptions{HideGuides: true})
	want := image.NewNRGBA(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			want.SetNRGBA(x, y, sheet.NRGBAAt(128+x, 128+y))
		}
	}
	got := part(t, r, zone.Torso).Textures[zone.Front].Snapshot()
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Error("torso front texture differs from the sheet region")
	}
}

func TestSyncAllIdempotent(t *testing.T) {
	shirt, pants, r, s := setup()
	shirt.Add(solid(30, 50, color.NRGBA{R: 200, A: 255}))
	pants.Add(solid(10, 10, color.NRGBA{G: 200, A: 255}))

	capture := func() [][]byte {
		var out [][]byte
		for _, p := range r.Parts() {
			for _, tex := range p.Textures {
				if tex != nil {
					out = append(out, tex.Snapshot().Pix)
				}
			}
		}
		return out
	}
	s.SyncAll()
	first := capture()
	s.SyncAll()
	second := capture()
	for i := range first {
		if !bytes.Equal(first[i], second[i]) {
			t.Fatalf("texture %d changed between identical passes", i)
		}
	}
}

func TestSyncClearsToWhiteAndSkipsHead(t *testing.T) {
	_, pants, r, s := setup()
	l, _ := pants.Add(solid(8, 8, color.NRGBA{B: 255, A: 255}))
	if err := pants.Select(l); err != nil {
		t.Fatal(err)
	}
	if err := pants.DeleteSelected(); err != nil {
		t.Fatal(err)
	}
	if s.Passes() != 2 {
		t.Errorf("passes = %d, want 2", s.Passes())
	}
	leg := part(t, r, zone.LeftLeg).Textures[zone.Front].Snapshot()
	if got := leg.NRGBAAt(64, 64); got != texture.White {
		t.Errorf("leg after empty sync = %v, want white", got)
	}
	head := part(t, r, zone.Head)
	for _, f := range zone.FaceOrder {
		if head.Textures[f] != nil {
			t.Errorf("head %s has a texture", f)
		}
	}
}

func TestCopyRegionScalesAndClips(t *testing.T) {
	sheet := solid(585, 600, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	dst := image.NewNRGBA(image.Rect(0, 0, 128, 128))

	CopyRegion(dst, sheet, zone.Region{X: 64, Y: 388, W: 64, H: 128})
	if got := dst.NRGBAAt(127, 127); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("scaled corner = %v", got)
	}

	CopyRegion(dst, sheet, zone.Region{X: 700, Y: 700, W: 10, H: 10})
	if got := dst.NRGBAAt(0, 0); got != texture.White {
		t.Errorf("out-of-sheet region = %v, want white", got)
	}
}

func TestAtlasLayout(t *testing.T) {
	shirt, _, _, s := setup()
	shirt.Add(solid(10, 10, color.NRGBA{R: 255, A: 255}))
	shirt.FitToZone(zone.FitFront)

	atlas := s.Atlas()
	// Five textured parts, six faces each.
	if got := atlas.Bounds().Size(); got != image.Pt(6*texture.FaceSize, 5*texture.FaceSize) {
		t.Fatalf("atlas size = %v", got)
	}
	// Torso is row 0, front is column 4.
	if got := atlas.NRGBAAt(4*texture.FaceSize+64, 64); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("torso front cell = %v, want red", got)
	}
}

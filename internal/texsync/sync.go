package texsync

import (
	"image"
	"time"

	"garment-texture-studio/internal/canvas"
	"garment-texture-studio/internal/logging"
	"garment-texture-studio/internal/rig"
	"garment-texture-studio/internal/texture"
	"garment-texture-studio/internal/zone"

	"golang.org/x/image/draw"
)

// Synchronizer re-rasterizes both canvases after every mutation and copies
// each mapped face region into the rig's face textures.
//
// A pass is always full: both sheets and every mapped face, whatever changed.
type Synchronizer struct {
	shirt *canvas.Canvas
	pants *canvas.Canvas
	rig   *rig.Rig

	passes int
}

// New builds a synchronizer and subscribes it to both canvases.
func New(shirt, pants *canvas.Canvas, r *rig.Rig) *Synchronizer {
	s := &Synchronizer{shirt: shirt, pants: pants, rig: r}
	shirt.OnChange(s.onChange)
	pants.OnChange(s.onChange)
	return s
}

func (s *Synchronizer) onChange(canvas.Event) {
	s.SyncAll()
}

// Passes returns the number of completed sync passes.
func (s *Synchronizer) Passes() int { return s.passes }

// SyncAll rasterizes both sheets with guides hidden and refreshes every
// mapped face texture. Parts sourced from neither sheet are skipped.
func (s *Synchronizer) SyncAll() {
	start := time.Now()
	sheets := map[zone.Source]*image.NRGBA{
		zone.SourceShirt: s.shirt.Rasterize(canvas.RasterOptions{HideGuides: true}),
		zone.SourcePants: s.pants.Rasterize(canvas.RasterOptions{HideGuides: true}),
	}

	faces := 0
	for _, p := range s.rig.Parts() {
		sheet, ok := sheets[p.Spec.Source]
		if !ok {
			continue
		}
		for _, f := range zone.FaceOrder {
			region, mapped := p.Spec.Region(f)
			tex := p.Textures[f]
			if !mapped || tex == nil {
				continue
			}
			tex.Update(func(dst *image.NRGBA) {
				CopyRegion(dst, sheet, region)
			})
			faces++
		}
	}
	s.passes++
	logging.Logger().Debug("texture sync", "faces", faces, "elapsed", time.Since(start))
}

// CopyRegion clears dst to opaque white and draws the region of sheet into
// it, resampled to fill dst. Same-size regions are copied pixel for pixel.
func CopyRegion(dst *image.NRGBA, sheet image.Image, region zone.Region) {
	texture.Fill(dst, texture.White)
	sr := region.Rect().Intersect(sheet.Bounds())
	if sr.Empty() {
		return
	}
	if sr.Size() == dst.Bounds().Size() {
		draw.Copy(dst, dst.Bounds().Min, sheet, sr, draw.Over, nil)
		return
	}
	draw.BiLinear.Scale(dst, dst.Bounds(), sheet, sr, draw.Over, nil)
}

package texsync

import (
	"image"

	"garment-texture-studio/internal/texture"
	"garment-texture-studio/internal/zone"

	"golang.org/x/image/draw"
)

// Atlas lays every textured part out as one row of face cells in face
// order. Unmapped cells stay transparent.
func (s *Synchronizer) Atlas() *image.NRGBA {
	parts := s.rig.Parts()
	rows := 0
	for _, p := range parts {
		if p.Spec.Source != zone.SourceNone {
			rows++
		}
	}
	cell := texture.FaceSize
	atlas := image.NewNRGBA(image.Rect(0, 0, cell*len(zone.FaceOrder), cell*rows))

	row := 0
	for _, p := range parts {
		if p.Spec.Source == zone.SourceNone {
			continue
		}
		for col, f := range zone.FaceOrder {
			tex := p.Textures[f]
			if tex == nil {
				continue
			}
			r := image.Rect(col*cell, row*cell, (col+1)*cell, (row+1)*cell)
			tex.View(func(src *image.NRGBA) {
				draw.Draw(atlas, r, src, image.Point{}, draw.Src)
			})
		}
		row++
	}
	return atlas
}

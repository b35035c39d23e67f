package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"garment-texture-studio/internal/logging"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// RasterOptions controls what a raster includes.
type RasterOptions struct {
	// HideGuides drops zone outlines, labels, the ghost template and the
	// selection decoration. Texture sync and export always set it.
	HideGuides bool
}

// Rasterize flattens the canvas at its full resolution.
func (c *Canvas) Rasterize(opts RasterOptions) *image.NRGBA {
	if opts.HideGuides {
		sel := c.selected
		c.selected = nil
		defer func() { c.selected = sel }()
	}

	dst := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)

	if !opts.HideGuides && c.ghostImg != nil {
		mask := image.NewUniform(color.Alpha{A: uint8(GhostOpacity*255 + 0.5)})
		draw.DrawMask(dst, c.ghostImg.Bounds(), c.ghostImg, image.Point{}, mask, image.Point{}, draw.Over)
	}

	for _, l := range c.layers {
		draw.BiLinear.Transform(dst, l.matrix(), l.img, l.img.Bounds(), draw.Over, nil)
	}

	if !opts.HideGuides {
		draw.Draw(dst, dst.Bounds(), c.overlay, image.Point{}, draw.Over)
		if c.selected != nil {
			if deco := renderSelection(c.width, c.height, c.selected); deco != nil {
				draw.Draw(dst, dst.Bounds(), deco, image.Point{}, draw.Over)
			}
		}
	}

	out := image.NewNRGBA(dst.Bounds())
	draw.Draw(out, out.Bounds(), dst, image.Point{}, draw.Src)
	return out
}

// ExportPNG writes the guide-free raster as PNG.
func (c *Canvas) ExportPNG(w io.Writer) error {
	img := c.Rasterize(RasterOptions{HideGuides: true})
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("canvas: encode %s png: %w", c.channel, err)
	}
	logging.Logger().Info("canvas exported", "channel", c.channel, "format", "png")
	return nil
}

// ExportWebP writes the guide-free raster as lossless WebP.
func (c *Canvas) ExportWebP(w io.Writer) error {
	img := c.Rasterize(RasterOptions{HideGuides: true})
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("canvas: encode %s webp: %w", c.channel, err)
	}
	logging.Logger().Info("canvas exported", "channel", c.channel, "format", "webp")
	return nil
}

// Package garment builds complete clothing sheets from a single generated
// image: either one logo on a matching background or a tiled pattern, with
// the template overlay composited on top.
package garment

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"garment-texture-studio/internal/logging"
	"garment-texture-studio/internal/zone"

	"golang.org/x/image/draw"
)

// Placement constants on the sheet.
const (
	LogoX    = 231
	LogoY    = 74
	LogoSize = 128

	PatternSize = 150
)

// Mode selects how the source image is laid out.
type Mode int

const (
	Logo Mode = iota
	Pattern
)

func (m Mode) String() string {
	if m == Pattern {
		return "pattern"
	}
	return "logo"
}

// ParseMode accepts "logo" or "pattern", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "logo":
		return Logo, nil
	case "pattern":
		return Pattern, nil
	}
	return Logo, fmt.Errorf("garment: unknown mode %q", s)
}

func sheetRect() image.Rectangle {
	return image.Rect(0, 0, zone.TemplateWidth, zone.TemplateHeight)
}

func resize(src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// AverageColor returns the per-channel mean of img's color channels,
// truncated, with alpha ignored. The result is opaque.
func AverageColor(img image.Image) color.NRGBA {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return color.NRGBA{A: 255}
	}
	var sr, sg, sb uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			sr += uint64(c.R)
			sg += uint64(c.G)
			sb += uint64(c.B)
		}
	}
	d := uint64(n)
	return color.NRGBA{R: uint8(sr / d), G: uint8(sg / d), B: uint8(sb / d), A: 255}
}

// LogoMode shrinks src to the logo size, fills the sheet with the logo's
// average color and pastes the logo over it at the chest position.
func LogoMode(src image.Image) *image.NRGBA {
	logo := resize(src, LogoSize, LogoSize)
	base := image.NewNRGBA(sheetRect())
	draw.Draw(base, base.Bounds(), image.NewUniform(AverageColor(logo)), image.Point{}, draw.Src)
	at := image.Rect(LogoX, LogoY, LogoX+LogoSize, LogoY+LogoSize)
	draw.Draw(base, at, logo, image.Point{}, draw.Over)
	return base
}

// PatternMode tiles src, shrunk to PatternSize, across the sheet from the
// top-left. Edge tiles are cut off.
func PatternMode(src image.Image) *image.NRGBA {
	tile := resize(src, PatternSize, PatternSize)
	base := image.NewNRGBA(sheetRect())
	for y := 0; y < zone.TemplateHeight; y += PatternSize {
		for x := 0; x < zone.TemplateWidth; x += PatternSize {
			r := image.Rect(x, y, x+PatternSize, y+PatternSize).Intersect(base.Bounds())
			draw.Draw(base, r, tile, image.Point{}, draw.Src)
		}
	}
	return base
}

// ApplyOverlay composites overlay on top of base. An overlay of another size
// is resized to the sheet first. A nil overlay leaves base unchanged.
func ApplyOverlay(base *image.NRGBA, overlay image.Image) *image.NRGBA {
	out := image.NewNRGBA(base.Bounds())
	copy(out.Pix, base.Pix)
	if overlay == nil {
		logging.Logger().Warn("template overlay unavailable, skipping")
		return out
	}
	if overlay.Bounds().Size() != base.Bounds().Size() {
		overlay = resize(overlay, base.Bounds().Dx(), base.Bounds().Dy())
	}
	draw.Draw(out, out.Bounds(), overlay, overlay.Bounds().Min, draw.Over)
	return out
}

// Compose lays src out in mode and applies overlay.
func Compose(src image.Image, mode Mode, overlay image.Image) *image.NRGBA {
	var base *image.NRGBA
	switch mode {
	case Pattern:
		base = PatternMode(src)
	default:
		base = LogoMode(src)
	}
	return ApplyOverlay(base, overlay)
}

// Placeholder is the fully transparent overlay used when the template cannot
// be fetched.
func Placeholder() *image.NRGBA {
	return image.NewNRGBA(sheetRect())
}

package garment

import (
	"image"
	"image/color"
	"testing"

	"garment-texture-studio/internal/zone"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestAverageColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 0, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 21, G: 100, B: 0, A: 255})
	want := color.NRGBA{R: 15, G: 50, B: 127, A: 255}
	if got := AverageColor(img); got != want {
		t.Errorf("AverageColor = %v, want %v", got, want)
	}
}

func TestLogoMode(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 512, 512))
	// Left half red, right half blue: the background averages to purple.
	for y := 0; y < 512; y++ {
		for x := 0; x < 512; x++ {
			c := color.NRGBA{R: 255, A: 255}
			if x >= 256 {
				c = color.NRGBA{B: 255, A: 255}
			}
			src.SetNRGBA(x, y, c)
		}
	}
	sheet := LogoMode(src)
	if got := sheet.Bounds().Size(); got != image.Pt(zone.TemplateWidth, zone.TemplateHeight) {
		t.Fatalf("size = %v", got)
	}
	bg := sheet.NRGBAAt(5, 5)
	if bg.A != 255 || bg.R < 120 || bg.R > 135 || bg.B < 120 || bg.B > 135 {
		t.Errorf("background = %v, want average purple", bg)
	}
	if got := sheet.NRGBAAt(LogoX+10, LogoY+64); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("logo left = %v, want red", got)
	}
	if got := sheet.NRGBAAt(LogoX+LogoSize-10, LogoY+64); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("logo right = %v, want blue", got)
	}
}

func TestPatternModeTiles(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			c := color.NRGBA{G: 200, A: 255}
			if x < 15 && y < 15 {
				c = color.NRGBA{R: 200, A: 255}
			}
			src.SetNRGBA(x, y, c)
		}
	}
	sheet := PatternMode(src)
	red := color.NRGBA{R: 200, A: 255}
	for _, p := range []image.Point{{10, 10}, {PatternSize + 10, 10}, {3*PatternSize + 10, 3*PatternSize + 10}} {
		if got := sheet.NRGBAAt(p.X, p.Y); got != red {
			t.Errorf("tile origin %v = %v, want %v", p, got, red)
		}
	}
	if got := sheet.NRGBAAt(PatternSize-10, PatternSize-10); got != (color.NRGBA{G: 200, A: 255}) {
		t.Errorf("tile corner = %v, want green", got)
	}
}

func TestApplyOverlay(t *testing.T) {
	base := solid(zone.TemplateWidth, zone.TemplateHeight, color.NRGBA{R: 255, A: 255})

	if got := ApplyOverlay(base, nil); got.NRGBAAt(1, 1) != base.NRGBAAt(1, 1) {
		t.Error("nil overlay changed the sheet")
	}
	if got := ApplyOverlay(base, Placeholder()); got.NRGBAAt(300, 300) != base.NRGBAAt(300, 300) {
		t.Error("transparent placeholder changed the sheet")
	}

	small := solid(10, 10, color.NRGBA{B: 255, A: 255})
	out := ApplyOverlay(base, small)
	if got := out.NRGBAAt(500, 500); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("resized overlay pixel = %v, want blue", got)
	}
	if base.NRGBAAt(500, 500) != (color.NRGBA{R: 255, A: 255}) {
		t.Error("ApplyOverlay mutated its input")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"logo", Logo, false},
		{" Pattern ", Pattern, false},
		{"stripes", Logo, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
}

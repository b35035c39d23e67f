package texture

import (
	"image"
	"image/color"
	"sync"
)

// FaceSize is the edge length of every face texture.
const FaceSize = 128

// Neutral fills for freshly allocated face textures.
var (
	White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Denim = color.NRGBA{R: 0x3d, G: 0x5a, B: 0x80, A: 0xff}
)

// FaceTexture is the pixel buffer behind one textured box face. The buffer is
// allocated once and rewritten in place; writers and the renderer share it
// under an RWMutex.
type FaceTexture struct {
	mu      sync.RWMutex
	img     *image.NRGBA
	fill    color.NRGBA
	dirty   bool
	version uint64
}

// NewFaceTexture allocates a FaceSize×FaceSize buffer filled with fill.
func NewFaceTexture(fill color.NRGBA) *FaceTexture {
	t := &FaceTexture{
		img:  image.NewNRGBA(image.Rect(0, 0, FaceSize, FaceSize)),
		fill: fill,
	}
	Fill(t.img, fill)
	return t
}

// Fill paints every pixel of img with c.
func Fill(img *image.NRGBA, c color.NRGBA) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// InitialFill returns the neutral color the texture was allocated with.
func (t *FaceTexture) InitialFill() color.NRGBA { return t.fill }

// Update runs fn with exclusive access to the buffer and marks it dirty.
func (t *FaceTexture) Update(fn func(dst *image.NRGBA)) {
	t.mu.Lock()
	fn(t.img)
	t.dirty = true
	t.version++
	t.mu.Unlock()
}

// View runs fn with shared read access to the buffer. fn must not retain it.
func (t *FaceTexture) View(fn func(src *image.NRGBA)) {
	t.mu.RLock()
	fn(t.img)
	t.mu.RUnlock()
}

// Snapshot returns a copy of the current pixels.
func (t *FaceTexture) Snapshot() *image.NRGBA {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cp := image.NewNRGBA(t.img.Rect)
	copy(cp.Pix, t.img.Pix)
	return cp
}

// Upload clears the dirty flag and reports whether it was set, mirroring a
// GPU re-upload request.
func (t *FaceTexture) Upload() bool {
	t.mu.Lock()
	d := t.dirty
	t.dirty = false
	t.mu.Unlock()
	return d
}

// Dirty reports whether pixels changed since the last Upload.
func (t *FaceTexture) Dirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dirty
}

// Version counts Update calls.
func (t *FaceTexture) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

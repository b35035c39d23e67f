package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"garment-texture-studio/internal/logging"
	"garment-texture-studio/internal/texture"
	"garment-texture-studio/internal/zone"

	"golang.org/x/image/draw"
)

// Editor-surface errors.
var (
	ErrNoSelection   = errors.New("canvas: no layer selected")
	ErrGuardedObject = errors.New("canvas: guide objects cannot be modified")
	ErrUnknownZone   = errors.New("canvas: unknown fit zone")
	ErrForeignLayer  = errors.New("canvas: layer belongs to another canvas")
)

// Channel names a garment editing context.
type Channel string

const (
	Shirt Channel = "shirt"
	Pants Channel = "pants"
)

// Placement of freshly added layers.
const (
	DefaultLeft  = 128
	DefaultTop   = 128
	DefaultWidth = 128

	GhostOpacity = 0.3
)

// EventKind classifies a change notification.
type EventKind int

const (
	LayerAdded EventKind = iota
	LayerModified
	LayerRemoved
	BackgroundChanged
)

func (k EventKind) String() string {
	switch k {
	case LayerAdded:
		return "added"
	case LayerModified:
		return "modified"
	case LayerRemoved:
		return "removed"
	case BackgroundChanged:
		return "background"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event describes one mutation. Layer is nil for BackgroundChanged.
type Event struct {
	Kind   EventKind
	Canvas *Canvas
	Layer  *Layer
}

// Listener receives change notifications synchronously, in subscription order.
type Listener func(Event)

// Canvas is one channel's editing surface: an ordered layer stack over a
// white background, a low-opacity ghost template and fixed zone guides.
//
// Canvas is not safe for concurrent use; the editor controller serializes
// every call.
type Canvas struct {
	channel       Channel
	width, height int
	background    color.NRGBA

	guides  []zone.Zone
	overlay *image.RGBA

	ghost    *Layer
	ghostImg *image.NRGBA

	layers   []*Layer // bottom → top
	selected *Layer
	nextID   int

	listeners []Listener
}

// New creates a canvas at the editor resolution with the standard drop-zone guides.
func New(ch Channel) *Canvas {
	return NewWithGuides(ch, zone.CanvasWidth, zone.CanvasHeight, zone.DropZones)
}

// NewWithGuides creates a canvas of the given size with a custom guide set.
func NewWithGuides(ch Channel, w, h int, guides []zone.Zone) *Canvas {
	c := &Canvas{
		channel:    ch,
		width:      w,
		height:     h,
		background: texture.White,
		guides:     append([]zone.Zone(nil), guides...),
		nextID:     1,
	}
	c.overlay = renderGuides(w, h, c.guides)
	return c
}

// Channel returns the channel this canvas edits.
func (c *Canvas) Channel() Channel { return c.channel }

// Size returns the declared resolution.
func (c *Canvas) Size() (int, int) { return c.width, c.height }

// Guides returns the zone guides drawn on this canvas.
func (c *Canvas) Guides() []zone.Zone { return append([]zone.Zone(nil), c.guides...) }

// Layers returns the stack bottom to top. The slice is a copy.
func (c *Canvas) Layers() []*Layer { return append([]*Layer(nil), c.layers...) }

// Len returns the number of user layers.
func (c *Canvas) Len() int { return len(c.layers) }

// Selected returns the current selection or nil.
func (c *Canvas) Selected() *Layer { return c.selected }

// OnChange subscribes fn to every mutation.
func (c *Canvas) OnChange(fn Listener) {
	c.listeners = append(c.listeners, fn)
}

func (c *Canvas) notify(kind EventKind, l *Layer) {
	logging.Logger().Debug("canvas changed", "channel", c.channel, "kind", kind)
	ev := Event{Kind: kind, Canvas: c, Layer: l}
	for _, fn := range c.listeners {
		fn(ev)
	}
}

// Add places img on top of the stack at the default position, scaled to the
// default width with aspect kept, and selects it.
func (c *Canvas) Add(img image.Image) (*Layer, error) {
	if img == nil {
		return nil, fmt.Errorf("canvas: add: %w: nil image", texture.ErrDecode)
	}
	src := texture.ToNRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("canvas: add: %w: empty image", texture.ErrDecode)
	}

	s := float64(DefaultWidth) / float64(w)
	l := &Layer{
		id:  c.nextID,
		img: src,
		t:   Transform{Left: DefaultLeft, Top: DefaultTop, ScaleX: s, ScaleY: s},
	}
	c.nextID++
	c.layers = append(c.layers, l)
	c.selected = l
	c.notify(LayerAdded, l)
	return l, nil
}

func (c *Canvas) indexOf(l *Layer) int {
	for i, x := range c.layers {
		if x == l {
			return i
		}
	}
	return -1
}

// Select makes l the selection. Passing nil clears it.
func (c *Canvas) Select(l *Layer) error {
	if l == nil {
		c.selected = nil
		return nil
	}
	if l.guide {
		return ErrGuardedObject
	}
	if c.indexOf(l) < 0 {
		return ErrForeignLayer
	}
	c.selected = l
	return nil
}

// SelectAt hit-tests top-down and selects the first layer under the point.
// A miss clears the selection. Guides never take part.
func (c *Canvas) SelectAt(x, y float64) *Layer {
	for i := len(c.layers) - 1; i >= 0; i-- {
		if l := c.layers[i]; l.Contains(x, y) {
			c.selected = l
			return l
		}
	}
	c.selected = nil
	return nil
}

// Move applies a gesture delta to l.
func (c *Canvas) Move(l *Layer, d Delta) error {
	if err := c.check(l); err != nil {
		return err
	}
	l.t = l.t.Apply(d)
	c.notify(LayerModified, l)
	return nil
}

// SetTransform overwrites l's placement.
func (c *Canvas) SetTransform(l *Layer, t Transform) error {
	if err := c.check(l); err != nil {
		return err
	}
	l.t = t
	c.notify(LayerModified, l)
	return nil
}

func (c *Canvas) check(l *Layer) error {
	if l == nil {
		return ErrNoSelection
	}
	if l.guide {
		return ErrGuardedObject
	}
	if c.indexOf(l) < 0 {
		return ErrForeignLayer
	}
	return nil
}

// BringToFront moves l to the top of the stack.
func (c *Canvas) BringToFront(l *Layer) error {
	if err := c.check(l); err != nil {
		return err
	}
	c.raise(l)
	c.notify(LayerModified, l)
	return nil
}

func (c *Canvas) raise(l *Layer) {
	i := c.indexOf(l)
	if i < 0 || i == len(c.layers)-1 {
		return
	}
	copy(c.layers[i:], c.layers[i+1:])
	c.layers[len(c.layers)-1] = l
}

// FitToZone snaps the selection onto the named fit zone.
func (c *Canvas) FitToZone(id string) error {
	if c.selected == nil {
		return fmt.Errorf("canvas: fit %s: %w", id, ErrNoSelection)
	}
	r, ok := zone.FitZone(id)
	if !ok {
		return fmt.Errorf("canvas: fit %q: %w", id, ErrUnknownZone)
	}
	return c.FitToRegion(r)
}

// FitToRegion stretches the selection to cover r exactly, with independent
// X/Y scale, no rotation, and brings it to the top.
func (c *Canvas) FitToRegion(r zone.Region) error {
	l := c.selected
	if l == nil {
		return ErrNoSelection
	}
	if l.guide {
		return ErrGuardedObject
	}
	l.t = Transform{
		Left:   float64(r.X),
		Top:    float64(r.Y),
		ScaleX: float64(r.W) / float64(l.Width()),
		ScaleY: float64(r.H) / float64(l.Height()),
	}
	c.raise(l)
	c.notify(LayerModified, l)
	return nil
}

// DeleteSelected removes the selected layer.
func (c *Canvas) DeleteSelected() error {
	l := c.selected
	if l == nil {
		return fmt.Errorf("canvas: delete: %w", ErrNoSelection)
	}
	if l.guide {
		return fmt.Errorf("canvas: delete: %w", ErrGuardedObject)
	}
	i := c.indexOf(l)
	if i < 0 {
		return fmt.Errorf("canvas: delete: %w", ErrForeignLayer)
	}
	c.layers = append(c.layers[:i], c.layers[i+1:]...)
	c.selected = nil
	c.notify(LayerRemoved, l)
	return nil
}

// SetTemplate installs the ghost template, scaled to the canvas width with
// its aspect kept. A nil image removes it.
func (c *Canvas) SetTemplate(img image.Image) {
	if img == nil {
		c.ghost, c.ghostImg = nil, nil
		c.notify(BackgroundChanged, nil)
		return
	}
	src := texture.ToNRGBA(img)
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	if sw == 0 || sh == 0 {
		return
	}
	h := int(float64(sh)*float64(c.width)/float64(sw) + 0.5)
	scaled := image.NewNRGBA(image.Rect(0, 0, c.width, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)

	c.ghostImg = scaled
	c.ghost = &Layer{
		img:   src,
		t:     Transform{ScaleX: float64(c.width) / float64(sw), ScaleY: float64(c.width) / float64(sw)},
		guide: true,
	}
	c.notify(BackgroundChanged, nil)
}

// Template returns the ghost template guide object, or nil before it loads.
func (c *Canvas) Template() *Layer { return c.ghost }

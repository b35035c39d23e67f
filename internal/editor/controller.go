package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"garment-texture-studio/internal/canvas"
	"garment-texture-studio/internal/logging"
	"garment-texture-studio/internal/texture"
	"garment-texture-studio/internal/zone"
)

// ErrUnavailableZone is returned for a fit shortcut the active channel does not offer.
var ErrUnavailableZone = errors.New("editor: fit zone not available on this channel")

// State is the process-wide editor state.
type State struct {
	Active canvas.Channel
}

// Controller routes user actions to the active canvas. Every exported method
// runs under one mutex, standing in for the single UI thread; canvas change
// notifications (and the texture sync they trigger) complete before it returns.
type Controller struct {
	mu sync.Mutex

	state *State
	shirt *canvas.Canvas
	pants *canvas.Canvas

	notifier Notifier
	prompter Prompter
	saver    Saver
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets where user-visible notices go.
func WithNotifier(n Notifier) Option { return func(c *Controller) { c.notifier = n } }

// WithPrompter sets the filename prompt used by Download.
func WithPrompter(p Prompter) Option { return func(c *Controller) { c.prompter = p } }

// WithSaver sets the sink for downloaded files.
func WithSaver(s Saver) Option { return func(c *Controller) { c.saver = s } }

// NewController wires the two canvases to a shared state. An empty active
// channel starts on the shirt.
func NewController(state *State, shirt, pants *canvas.Canvas, opts ...Option) *Controller {
	if state.Active == "" {
		state.Active = canvas.Shirt
	}
	c := &Controller{
		state:    state,
		shirt:    shirt,
		pants:    pants,
		notifier: NotifierFunc(func(Notice) {}),
		prompter: DefaultPrompter{},
		saver:    DirSaver{Dir: "."},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do runs fn with the controller lock held. Used by timers and async
// callbacks that touch canvases.
func (c *Controller) Do(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

// After schedules fn under the controller lock once d elapses.
func (c *Controller) After(d time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(d, func() { c.Do(fn) })
}

// ActiveChannel returns the channel receiving input.
func (c *Controller) ActiveChannel() canvas.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Active
}

// Canvas returns the canvas for ch.
func (c *Controller) Canvas(ch canvas.Channel) *canvas.Canvas {
	if ch == canvas.Pants {
		return c.pants
	}
	return c.shirt
}

func (c *Controller) active() *canvas.Canvas {
	return c.Canvas(c.state.Active)
}

// SwitchChannel makes next interactive. Layer data on both canvases is left
// untouched and no texture sync runs. Reports whether the channel changed.
func (c *Controller) SwitchChannel(next canvas.Channel) (bool, error) {
	if next != canvas.Shirt && next != canvas.Pants {
		return false, fmt.Errorf("editor: unknown channel %q", next)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if next == c.state.Active {
		return false, nil
	}
	c.state.Active = next
	logging.Logger().Debug("channel switched", "channel", next)
	return true, nil
}

// Affordances describes the channel-specific controls to show.
func (c *Controller) Affordances() Affordances {
	c.mu.Lock()
	defer c.mu.Unlock()
	return AffordancesFor(c.state.Active)
}

// Upload decodes data and adds it to the active canvas. Undecodable input
// adds nothing.
func (c *Controller) Upload(data []byte) (*canvas.Layer, error) {
	img, format, err := texture.Decode(data)
	if err != nil {
		logging.Logger().Warn("upload skipped", "err", err)
		return nil, fmt.Errorf("editor: upload: %w", err)
	}
	logging.Logger().Debug("upload decoded", "format", format, "size", img.Bounds().Size())
	return c.AddImage(img)
}

// UploadFile reads path and uploads its contents.
func (c *Controller) UploadFile(path string) (*canvas.Layer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("editor: read %s: %w", path, err)
	}
	return c.Upload(raw)
}

// AddImage adds an already decoded image to the active canvas.
func (c *Controller) AddImage(img image.Image) (*canvas.Layer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active().Add(img)
}

// SelectAt hit-tests the active canvas.
func (c *Controller) SelectAt(x, y float64) *canvas.Layer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active().SelectAt(x, y)
}

// Transform applies a gesture to the active selection.
func (c *Controller) Transform(d canvas.Delta) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cv := c.active()
	sel := cv.Selected()
	if sel == nil {
		return c.report(fmt.Errorf("editor: transform: %w", canvas.ErrNoSelection))
	}
	return c.report(cv.Move(sel, d))
}

// FitToZone snaps the active selection onto a fit zone offered by the channel.
func (c *Controller) FitToZone(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !AffordancesFor(c.state.Active).Offers(id) {
		if _, known := zone.FitZone(id); !known {
			return c.report(fmt.Errorf("editor: fit %q: %w", id, canvas.ErrUnknownZone))
		}
		return c.report(fmt.Errorf("editor: fit %q on %s: %w", id, c.state.Active, ErrUnavailableZone))
	}
	return c.report(c.active().FitToZone(id))
}

// Delete removes the active selection.
func (c *Controller) Delete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report(c.active().DeleteSelected())
}

// View renders the active canvas as displayed, guides included.
func (c *Controller) View() *image.NRGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active().Rasterize(canvas.RasterOptions{})
}

// Download exports ch as an image file named through the prompter. The
// returned name is empty when the user cancels; nothing is saved then.
func (c *Controller) Download(ch canvas.Channel, f Format) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	def := DefaultFilename(ch)
	input, ok := c.prompter.Prompt("Enter filename:", def)
	name, ok := ResolveFilename(input, ok, def, f)
	if !ok {
		return "", nil
	}

	var buf bytes.Buffer
	cv := c.Canvas(ch)
	var err error
	switch f {
	case WebP:
		err = cv.ExportWebP(&buf)
	default:
		err = cv.ExportPNG(&buf)
	}
	if err != nil {
		return "", c.report(err)
	}
	if err := c.saver.Save(name, buf.Bytes()); err != nil {
		return "", c.report(fmt.Errorf("editor: save %s: %w", name, err))
	}
	return name, nil
}

// LoadTemplate fetches the ghost template in the background and installs it
// on both canvases when it arrives. A failed fetch leaves vector guides only.
func (c *Controller) LoadTemplate(ctx context.Context, cache *texture.Cache, url string, done func(error)) {
	cache.ResolveAsync(ctx, url, func(img *image.NRGBA, err error) {
		c.Do(func() {
			if err != nil {
				c.notifier.Notify(Notice{Level: Warning, Message: "Template unavailable; showing guides only.", Err: err})
			} else {
				c.shirt.SetTemplate(img)
				c.pants.SetTemplate(img)
			}
		})
		if done != nil {
			done(err)
		}
	})
}

// report turns err into a user notice and returns it unchanged.
func (c *Controller) report(err error) error {
	if err == nil {
		return nil
	}
	c.notifier.Notify(NoticeFor(err))
	return err
}

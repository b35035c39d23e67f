package preview

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"garment-texture-studio/internal/logging"
	"garment-texture-studio/internal/mathutil"
	"garment-texture-studio/internal/raster"
	"garment-texture-studio/internal/rig"
)

// Background is the preview clear color.
var Background = color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}

// Options sizes the preview.
type Options struct {
	Width, Height int
	Supersample   int
	FPS           int
}

// DefaultOptions is the 400×520 viewport.
func DefaultOptions() Options {
	return Options{Width: 400, Height: 520, Supersample: 2, FPS: 60}
}

// DefaultEye is where the camera starts.
var DefaultEye = mathutil.Vec3{0, 0, 8}

// Preview renders the rig from an orbiting camera.
type Preview struct {
	rig      *rig.Rig
	camera   Camera
	controls *Controls
	lights   raster.LightConfig
	opts     Options
}

// New builds a preview of r looking at the origin from DefaultEye.
func New(r *rig.Rig, opts Options) *Preview {
	def := DefaultOptions()
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	if opts.FPS <= 0 {
		opts.FPS = def.FPS
	}
	return &Preview{
		rig:      r,
		camera:   DefaultCamera(opts.Width, opts.Height),
		controls: NewControls(DefaultEye, mathutil.Vec3{}),
		lights:   raster.DefaultLightConfig(),
		opts:     opts,
	}
}

// Controls returns the orbit controls for input handlers.
func (p *Preview) Controls() *Controls { return p.controls }

// Scene returns the raster scene for the current camera, with the rig turned
// by yaw radians.
func (p *Preview) Scene(yaw float64) raster.Scene {
	return raster.Scene{
		View:        p.controls.View(),
		Proj:        p.camera.Projection(),
		Model:       mathutil.RotY(yaw),
		Width:       p.opts.Width,
		Height:      p.opts.Height,
		Supersample: p.opts.Supersample,
		Background:  Background,
		Lights:      p.lights,
	}
}

// Frame advances the controls by one step, picks up re-synced textures and
// renders.
func (p *Preview) Frame() *image.NRGBA {
	p.controls.Update()
	if n := p.rig.Upload(); n > 0 {
		logging.Logger().Debug("preview textures refreshed", "count", n)
	}
	return raster.RenderRig(p.rig, p.Scene(0))
}

// Run renders at the configured frame rate and hands each frame to sink
// until ctx ends or sink fails.
func (p *Preview) Run(ctx context.Context, sink func(*image.NRGBA) error) error {
	ticker := time.NewTicker(time.Second / time.Duration(p.opts.FPS))
	defer ticker.Stop()

	logging.Logger().Info("preview started", "width", p.opts.Width, "height", p.opts.Height, "fps", p.opts.FPS)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := sink(p.Frame()); err != nil {
				return fmt.Errorf("preview: sink: %w", err)
			}
		}
	}
}

// Package studio assembles a full editing session: both canvases, the rig,
// texture sync, the preview and the editor controller.
package studio

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"garment-texture-studio/internal/batch"
	"garment-texture-studio/internal/canvas"
	"garment-texture-studio/internal/config"
	"garment-texture-studio/internal/editor"
	"garment-texture-studio/internal/logging"
	"garment-texture-studio/internal/preview"
	"garment-texture-studio/internal/rig"
	"garment-texture-studio/internal/texsync"
	"garment-texture-studio/internal/texture"

	"github.com/HugoSmits86/nativewebp"
)

// Session is one running editor.
type Session struct {
	Config     config.Config
	State      *editor.State
	Shirt      *canvas.Canvas
	Pants      *canvas.Canvas
	Rig        *rig.Rig
	Sync       *texsync.Synchronizer
	Controller *editor.Controller
	Preview    *preview.Preview
	Assets     *texture.Cache

	warmup *time.Timer
}

// New wires a session. cfg should already be resolved.
func New(cfg config.Config, opts ...editor.Option) *Session {
	s := &Session{
		Config: cfg,
		State:  &editor.State{Active: canvas.Shirt},
		Shirt:  canvas.New(canvas.Shirt),
		Pants:  canvas.New(canvas.Pants),
		Rig:    rig.New(),
		Assets: texture.NewCache(cfg.CacheDir),
	}
	s.Sync = texsync.New(s.Shirt, s.Pants, s.Rig)
	s.Controller = editor.NewController(s.State, s.Shirt, s.Pants, opts...)
	s.Preview = preview.New(s.Rig, preview.Options{
		Width:       cfg.PreviewWidth,
		Height:      cfg.PreviewHeight,
		Supersample: cfg.Supersample,
		FPS:         cfg.FPS,
	})
	return s
}

// Start begins the template fetch and schedules the warm-up re-sync. done,
// if set, receives the template result.
func (s *Session) Start(ctx context.Context, done func(error)) {
	if s.Config.TemplateURL != "" {
		s.Controller.LoadTemplate(ctx, s.Assets, s.Config.TemplateURL, done)
	}
	s.warmup = s.Controller.After(s.Config.Warmup(), func() {
		logging.Logger().Debug("warm-up sync")
		s.Sync.SyncAll()
	})
}

// Stop cancels a pending warm-up.
func (s *Session) Stop() {
	if s.warmup != nil {
		s.warmup.Stop()
	}
}

// SyncNow runs a full texture sync under the controller lock.
func (s *Session) SyncNow() {
	s.Controller.Do(s.Sync.SyncAll)
}

// Atlas returns the face atlas, read under the controller lock.
func (s *Session) Atlas() *image.NRGBA {
	var img *image.NRGBA
	s.Controller.Do(func() { img = s.Sync.Atlas() })
	return img
}

// WriteWebP encodes img to path, creating parent directories.
func WriteWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("studio: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("studio: create %s: %w", path, err)
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("studio: encode %s: %w", path, err)
	}
	return nil
}

// Turntable renders the configured number of frames into outDir and writes
// the manifest next to them.
func (s *Session) Turntable(outDir string) ([]batch.Result, error) {
	results := batch.Run(batch.Config{
		Rig:       s.Rig,
		Scene:     s.Preview.Scene,
		OutputDir: outDir,
		Frames:    s.Config.TurntableFrames,
		Workers:   s.Config.Workers,
		Progress:  os.Stdout,
	})
	if err := batch.WriteManifest(filepath.Join(outDir, "manifest.json"), results); err != nil {
		return results, fmt.Errorf("studio: write manifest: %w", err)
	}
	return results, nil
}

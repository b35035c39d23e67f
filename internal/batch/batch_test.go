package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"garment-texture-studio/internal/preview"
	"garment-texture-studio/internal/rig"

	"golang.org/x/image/webp"
)

func TestRunWritesFramesAndManifest(t *testing.T) {
	dir := t.TempDir()
	r := rig.New()
	p := preview.New(r, preview.Options{Width: 20, Height: 26, Supersample: 1})

	results := Run(Config{Rig: r, Scene: p.Scene, OutputDir: dir, Frames: 4, Workers: 3})
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
	for i, res := range results {
		if !res.Success {
			t.Fatalf("frame %d failed: %s", i, res.Error)
		}
		if res.AngleDeg != float64(i)*90 {
			t.Errorf("frame %d angle = %v, want %v", i, res.AngleDeg, float64(i)*90)
		}
		f, err := os.Open(filepath.Join(dir, res.Image))
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := webp.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if cfg.Width != 20 || cfg.Height != 26 {
			t.Errorf("frame %d size = %dx%d", i, cfg.Width, cfg.Height)
		}
	}

	path := filepath.Join(dir, "manifest.json")
	results[2].Success = false
	if err := WriteManifest(path, results); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[2].Frame != 3 || entries[2].Image != FrameName(3) {
		t.Errorf("manifest = %+v", entries)
	}
}

func TestRunNoFrames(t *testing.T) {
	if got := Run(Config{Frames: 0}); got != nil {
		t.Errorf("Run with no frames = %v", got)
	}
}

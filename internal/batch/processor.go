// Package batch renders turntables of the rig: evenly spaced yaw angles
// rendered by a worker pool and written as WebP frames.
package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"garment-texture-studio/internal/mathutil"
	"garment-texture-studio/internal/raster"
	"garment-texture-studio/internal/rig"

	"github.com/HugoSmits86/nativewebp"
)

// SceneFunc returns the scene for the rig turned by yaw radians.
type SceneFunc func(yaw float64) raster.Scene

// Config holds all shared resources for a batch run.
type Config struct {
	Rig       *rig.Rig
	Scene     SceneFunc
	OutputDir string
	Frames    int
	Workers   int
	// Progress receives periodic progress lines; nil is silent.
	Progress io.Writer
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame    int
	AngleDeg float64
	Image    string
	Success  bool
	Error    string
}

// FrameName is the frame's path relative to the output directory.
func FrameName(i int) string {
	return fmt.Sprintf("turntable/%03d.webp", i)
}

// Angle returns the yaw of frame i out of n, in degrees.
func Angle(i, n int) float64 {
	return 360 * float64(i) / float64(n)
}

// Run renders all frames using a worker pool.
func Run(cfg Config) []Result {
	total := cfg.Frames
	if total <= 0 {
		return nil
	}
	workers := max(cfg.Workers, 1)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f frames/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				results[idx] = renderFrame(cfg, idx)
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := 0; i < total; i++ {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func renderFrame(cfg Config, i int) Result {
	res := Result{Frame: i, AngleDeg: Angle(i, cfg.Frames), Image: FrameName(i)}

	img := raster.RenderRig(cfg.Rig, cfg.Scene(mathutil.Deg2Rad(res.AngleDeg)))

	outPath := filepath.Join(cfg.OutputDir, res.Image)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}

	res.Success = true
	return res
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// DefaultTemplateURL is the ghost template shown under both canvases.
const DefaultTemplateURL = "https://raw.githubusercontent.com/Antosser/Roblox-Shirt-Template/master/template.png"

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	TemplateURL string `json:"template_url"`
	CacheDir    string `json:"cache_dir"`
	OutputDir   string `json:"output_dir"`

	// Preview
	PreviewWidth  int `json:"preview_width"`
	PreviewHeight int `json:"preview_height"`
	Supersample   int `json:"supersample"`
	FPS           int `json:"fps"`
	// WarmupMillis delays the startup re-sync.
	WarmupMillis int `json:"warmup_ms"`

	// Batch output
	TurntableFrames int `json:"turntable_frames"`
	Workers         int `json:"workers"`

	// Generation
	GenerateEndpoint string `json:"generate_endpoint"`
	GenerateModel    string `json:"generate_model"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	TemplateURL string
	CacheDir    string
	OutputDir   string
	Frames      int
	Workers     int
	Supersample int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.TemplateURL != "" {
		c.TemplateURL = flags.TemplateURL
	}
	if flags.CacheDir != "" {
		c.CacheDir = flags.CacheDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Frames > 0 {
		c.TurntableFrames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}

	if c.TemplateURL == "" {
		c.TemplateURL = DefaultTemplateURL
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir()
	}
	if c.OutputDir == "" {
		c.OutputDir = "out"
	}

	if c.PreviewWidth <= 0 || c.PreviewHeight <= 0 {
		c.PreviewWidth, c.PreviewHeight = 400, 520
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.FPS <= 0 {
		c.FPS = 60
	}
	if c.WarmupMillis <= 0 {
		c.WarmupMillis = 1000
	}
	if c.TurntableFrames <= 0 {
		c.TurntableFrames = 8
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Warmup returns the startup re-sync delay.
func (c Config) Warmup() time.Duration {
	return time.Duration(c.WarmupMillis) * time.Millisecond
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "garment-texture-studio")
	}
	return filepath.Join(os.TempDir(), "garment-texture-studio")
}

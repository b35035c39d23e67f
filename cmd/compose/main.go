package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"garment-texture-studio/internal/config"
	"garment-texture-studio/internal/editor"
	"garment-texture-studio/internal/garment"
	"garment-texture-studio/internal/generate"
	"garment-texture-studio/internal/logging"
	"garment-texture-studio/internal/studio"
	"garment-texture-studio/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	imagePath := flag.String("image", "", "Use a local image instead of generating one")
	prompt := flag.String("prompt", "", "Design description for the image generator")
	modeName := flag.String("mode", "logo", "Layout mode: logo or pattern")
	kind := flag.String("kind", "shirt", "Garment kind, used for the default file name: shirt or pants")
	name := flag.String("name", "", "Output file name (default: roblox_<kind>)")
	outputDir := flag.String("output", "", "Output directory (default: out)")
	cacheDir := flag.String("cache", "", "Template cache directory")
	templateURL := flag.String("template", "", "Template overlay URL")
	webp := flag.Bool("webp", false, "Also write a WebP copy")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{TemplateURL: *templateURL, CacheDir: *cacheDir, OutputDir: *outputDir})

	mode, err := garment.ParseMode(*modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var gen generate.Generator
	if *imagePath != "" {
		gen = generate.File{Path: *imagePath}
	} else {
		if strings.TrimSpace(*prompt) == "" {
			fmt.Fprintln(os.Stderr, "Please enter a design description (-prompt) or pass -image.")
			os.Exit(1)
		}
		client := generate.NewClient(os.Getenv("OPENAI_API_KEY"))
		if cfg.GenerateEndpoint != "" {
			client.Endpoint = cfg.GenerateEndpoint
		}
		if cfg.GenerateModel != "" {
			client.Model = cfg.GenerateModel
		}
		gen = client
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	fmt.Printf("Mode: %s\n", mode)
	start := time.Now()
	src, err := gen.Generate(ctx, *prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Image generation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Source image: %v (%.1fs)\n", src.Bounds().Size(), time.Since(start).Seconds())

	var overlay image.Image
	if tpl, err := texture.NewCache(cfg.CacheDir).Resolve(ctx, cfg.TemplateURL); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load template, using a transparent placeholder: %v\n", err)
		overlay = garment.Placeholder()
	} else {
		overlay = tpl
	}

	sheet := garment.Compose(src, mode, overlay)

	def := "roblox_shirt"
	if strings.EqualFold(*kind, "pants") {
		def = "roblox_pants"
	}
	file, _ := editor.ResolveFilename(*name, true, def, editor.PNG)

	saver := editor.DirSaver{Dir: cfg.OutputDir}
	var buf bytes.Buffer
	if err := encodePNG(&buf, sheet); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := saver.Save(file, buf.Bytes()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved: %s\n", filepath.Join(cfg.OutputDir, file))

	if *webp {
		out := filepath.Join(cfg.OutputDir, strings.TrimSuffix(file, filepath.Ext(file))+".webp")
		if err := studio.WriteWebP(out, sheet); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved: %s\n", out)
	}
}

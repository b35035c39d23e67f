package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"garment-texture-studio/internal/config"
	"garment-texture-studio/internal/editor"
	"garment-texture-studio/internal/layout"
	"garment-texture-studio/internal/logging"
	"garment-texture-studio/internal/studio"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	scriptFile := flag.String("script", "", "Replay a layout script instead of reading commands from stdin")
	outputDir := flag.String("output", "", "Output directory (default: out)")
	cacheDir := flag.String("cache", "", "Template cache directory")
	templateURL := flag.String("template", "", "Ghost template URL")
	noTemplate := flag.Bool("no-template", false, "Skip the template download")
	frames := flag.Int("frames", 0, "Turntable frame count (default: 8)")
	turntable := flag.Bool("turntable", false, "Render a turntable after the session")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	supersample := flag.Int("ss", 0, "Preview supersampling factor (default: 2)")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		TemplateURL: *templateURL,
		CacheDir:    *cacheDir,
		OutputDir:   *outputDir,
		Frames:      *frames,
		Workers:     *workers,
		Supersample: *supersample,
	})
	if *noTemplate {
		cfg.TemplateURL = ""
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	notify := editor.NotifierFunc(func(n editor.Notice) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Level, n.Message)
	})

	in := bufio.NewReader(os.Stdin)
	var runner *layout.Runner
	prompter := editor.Prompter(editor.LinePrompter{In: in, Out: os.Stdout})
	if *scriptFile != "" {
		runner = &layout.Runner{BaseDir: filepath.Dir(*scriptFile)}
		prompter = runner
	}

	sess := studio.New(cfg,
		editor.WithNotifier(notify),
		editor.WithPrompter(prompter),
		editor.WithSaver(editor.DirSaver{Dir: cfg.OutputDir}),
	)
	defer sess.Stop()

	fmt.Println("Garment Texture Studio")
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	templateDone := make(chan error, 1)
	sess.Start(ctx, func(err error) { templateDone <- err })
	if cfg.TemplateURL != "" {
		select {
		case err := <-templateDone:
			if err == nil {
				fmt.Println("Template loaded")
			}
		case <-time.After(20 * time.Second):
			fmt.Fprintln(os.Stderr, "Warning: template still loading, continuing without it")
		}
	}

	if runner != nil {
		script, err := layout.Load(*scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading script: %v\n", err)
			os.Exit(1)
		}
		rep := runner.Run(sess.Controller, script)
		fmt.Printf("Steps applied: %d/%d\n", rep.Applied, len(script.Steps))
		for _, f := range rep.Failures {
			fmt.Printf("  step %d (%s): %v\n", f.Step, f.Op, f.Err)
		}
		for _, name := range rep.Saved {
			fmt.Printf("  saved %s\n", filepath.Join(cfg.OutputDir, name))
		}
	} else {
		if err := repl(ctx, sess, in, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Final outputs
	sess.SyncNow()
	atlasPath := filepath.Join(cfg.OutputDir, "atlas.webp")
	if err := studio.WriteWebP(atlasPath, sess.Atlas()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Atlas: %s\n", atlasPath)

	previewPath := filepath.Join(cfg.OutputDir, "preview.webp")
	if err := studio.WriteWebP(previewPath, sess.Preview.Frame()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Preview: %s\n", previewPath)

	if *turntable {
		start := time.Now()
		results, err := sess.Turntable(cfg.OutputDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		ok := 0
		for _, r := range results {
			if r.Success {
				ok++
			} else {
				fmt.Printf("  frame %d: %s\n", r.Frame, r.Error)
			}
		}
		fmt.Printf("Turntable: %d/%d frames in %.1fs\n", ok, len(results), time.Since(start).Seconds())
	}
}

package editor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"garment-texture-studio/internal/canvas"
)

// Format is an export encoding.
type Format int

const (
	PNG Format = iota
	WebP
)

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == WebP {
		return ".webp"
	}
	return ".png"
}

// DefaultFilename is the suggested export name for ch.
func DefaultFilename(ch canvas.Channel) string {
	if ch == canvas.Pants {
		return "roblox_pants_design"
	}
	return "roblox_shirt_design"
}

// ResolveFilename trims input, falls back to def when blank and appends the
// format's extension if missing. ok=false (a canceled prompt) passes through.
func ResolveFilename(input string, ok bool, def string, f Format) (string, bool) {
	if !ok {
		return "", false
	}
	name := strings.TrimSpace(input)
	if name == "" {
		name = def
	}
	if !strings.HasSuffix(strings.ToLower(name), f.Ext()) {
		name += f.Ext()
	}
	return name, true
}

// Prompter asks the user for a value. ok=false means canceled.
type Prompter interface {
	Prompt(message, def string) (value string, ok bool)
}

// DefaultPrompter accepts the suggested value without asking.
type DefaultPrompter struct{}

func (DefaultPrompter) Prompt(_, def string) (string, bool) { return def, true }

// LinePrompter reads one line per prompt; EOF cancels.
type LinePrompter struct {
	In  *bufio.Reader
	Out io.Writer
}

func (p LinePrompter) Prompt(message, def string) (string, bool) {
	fmt.Fprintf(p.Out, "%s [%s] ", message, def)
	line, err := p.In.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return line, true
}

// Saver stores an exported file.
type Saver interface {
	Save(name string, data []byte) error
}

// DirSaver writes files into Dir.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.Dir, filepath.Base(name)), data, 0644)
}

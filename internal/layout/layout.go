// Package layout replays scripted editor sessions: a JSON list of channel
// switches, uploads, fits, transforms, selections, deletes and downloads.
package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"garment-texture-studio/internal/canvas"
	"garment-texture-studio/internal/editor"
	"garment-texture-studio/internal/logging"
)

// Step ops.
const (
	OpSwitch   = "switch"
	OpUpload   = "upload"
	OpFit      = "fit"
	OpMove     = "move"
	OpSelect   = "select"
	OpDelete   = "delete"
	OpDownload = "download"
)

// ErrBadStep marks a malformed script step.
var ErrBadStep = errors.New("layout: bad step")

// Step is one scripted user action. Only the fields of its op are read.
type Step struct {
	Op string `json:"op"`

	Channel string `json:"channel,omitempty"` // switch, download
	Path    string `json:"path,omitempty"`    // upload
	Zone    string `json:"zone,omitempty"`    // fit

	// move
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	ScaleX float64 `json:"scale_x,omitempty"`
	ScaleY float64 `json:"scale_y,omitempty"`
	Rotate float64 `json:"rotate,omitempty"`

	// select
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// download
	Name   string `json:"name,omitempty"`
	Format string `json:"format,omitempty"`
	Cancel bool   `json:"cancel,omitempty"`
}

// Script is a whole session.
type Script struct {
	Steps []Step `json:"steps"`
}

// Parse decodes and validates a script.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("layout: parse: %w", err)
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return Script{}, fmt.Errorf("layout: step %d: %w", i, err)
		}
	}
	return s, nil
}

// Load reads and parses a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("layout: read %s: %w", path, err)
	}
	return Parse(data)
}

func (st Step) validate() error {
	switch st.Op {
	case OpSwitch:
		if _, err := channel(st.Channel); err != nil {
			return err
		}
	case OpDownload:
		if st.Channel != "" {
			if _, err := channel(st.Channel); err != nil {
				return err
			}
		}
		if _, err := format(st.Format); err != nil {
			return err
		}
	case OpUpload:
		if st.Path == "" {
			return fmt.Errorf("%w: upload without path", ErrBadStep)
		}
	case OpFit:
		if st.Zone == "" {
			return fmt.Errorf("%w: fit without zone", ErrBadStep)
		}
	case OpMove, OpSelect, OpDelete:
	default:
		return fmt.Errorf("%w: unknown op %q", ErrBadStep, st.Op)
	}
	return nil
}

func channel(s string) (canvas.Channel, error) {
	switch canvas.Channel(strings.ToLower(s)) {
	case canvas.Shirt:
		return canvas.Shirt, nil
	case canvas.Pants:
		return canvas.Pants, nil
	}
	return "", fmt.Errorf("%w: unknown channel %q", ErrBadStep, s)
}

func format(s string) (editor.Format, error) {
	switch strings.ToLower(s) {
	case "", "png":
		return editor.PNG, nil
	case "webp":
		return editor.WebP, nil
	}
	return editor.PNG, fmt.Errorf("%w: unknown format %q", ErrBadStep, s)
}

// Failure records a step the editor refused.
type Failure struct {
	Step int
	Op   string
	Err  error
}

// Report summarizes a replay.
type Report struct {
	Applied  int
	Failures []Failure
	// Saved lists downloaded file names in order.
	Saved []string
}

// Runner replays scripts. It doubles as the controller's filename prompter,
// answering with the name of the download step being replayed.
type Runner struct {
	// BaseDir resolves relative upload paths.
	BaseDir string

	pending *Step
}

// Prompt implements editor.Prompter.
func (r *Runner) Prompt(_, def string) (string, bool) {
	if r.pending == nil {
		return def, true
	}
	if r.pending.Cancel {
		return "", false
	}
	return r.pending.Name, true
}

// Run applies every step in order. Refused steps are recorded and replay
// continues, as the interactive editor would after showing a notice.
func (r *Runner) Run(ctrl *editor.Controller, s Script) Report {
	var rep Report
	for i, st := range s.Steps {
		err := r.apply(ctrl, st, &rep)
		if err != nil {
			logging.Logger().Warn("layout step refused", "step", i, "op", st.Op, "err", err)
			rep.Failures = append(rep.Failures, Failure{Step: i, Op: st.Op, Err: err})
			continue
		}
		rep.Applied++
	}
	return rep
}

func (r *Runner) apply(ctrl *editor.Controller, st Step, rep *Report) error {
	switch st.Op {
	case OpSwitch:
		ch, err := channel(st.Channel)
		if err != nil {
			return err
		}
		_, err = ctrl.SwitchChannel(ch)
		return err
	case OpUpload:
		path := st.Path
		if !filepath.IsAbs(path) && r.BaseDir != "" {
			path = filepath.Join(r.BaseDir, path)
		}
		_, err := ctrl.UploadFile(path)
		return err
	case OpFit:
		return ctrl.FitToZone(st.Zone)
	case OpMove:
		return ctrl.Transform(canvas.Delta{DX: st.DX, DY: st.DY, ScaleX: st.ScaleX, ScaleY: st.ScaleY, Rotate: st.Rotate})
	case OpSelect:
		if ctrl.SelectAt(st.X, st.Y) == nil {
			return fmt.Errorf("layout: nothing at (%v,%v)", st.X, st.Y)
		}
		return nil
	case OpDelete:
		return ctrl.Delete()
	case OpDownload:
		ch := ctrl.ActiveChannel()
		if st.Channel != "" {
			var err error
			if ch, err = channel(st.Channel); err != nil {
				return err
			}
		}
		f, err := format(st.Format)
		if err != nil {
			return err
		}
		r.pending = &st
		defer func() { r.pending = nil }()
		name, err := ctrl.Download(ch, f)
		if err != nil {
			return err
		}
		if name != "" {
			rep.Saved = append(rep.Saved, name)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown op %q", ErrBadStep, st.Op)
}

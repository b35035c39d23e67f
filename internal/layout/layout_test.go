package layout

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"garment-texture-studio/internal/canvas"
	"garment-texture-studio/internal/editor"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 255, 255
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestParseRejectsBadSteps(t *testing.T) {
	tests := map[string]string{
		"unknown op":     `{"steps":[{"op":"paint"}]}`,
		"bad channel":    `{"steps":[{"op":"switch","channel":"hat"}]}`,
		"upload no path": `{"steps":[{"op":"upload"}]}`,
		"fit no zone":    `{"steps":[{"op":"fit"}]}`,
		"bad format":     `{"steps":[{"op":"download","format":"gif"}]}`,
		"malformed json": `{"steps":[`,
	}
	for name, doc := range tests {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: Parse = nil error", name)
		}
	}
	if _, err := Parse([]byte(`{"steps":[{"op":"paint"}]}`)); !errors.Is(err, ErrBadStep) {
		t.Errorf("unknown op err = %v, want ErrBadStep", err)
	}
}

func TestRunReplaysSession(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logo.png"))
	out := t.TempDir()

	script, err := Parse([]byte(`{"steps":[
		{"op":"upload","path":"logo.png"},
		{"op":"fit","zone":"front"},
		{"op":"move","dx":4,"rotate":10},
		{"op":"switch","channel":"pants"},
		{"op":"fit","zone":"front"},
		{"op":"upload","path":"logo.png"},
		{"op":"fit","zone":"l_arm"},
		{"op":"download","channel":"shirt","name":"  tee "},
		{"op":"download","format":"webp"},
		{"op":"download","cancel":true},
		{"op":"select","x":2,"y":2},
		{"op":"delete"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	runner := &Runner{BaseDir: dir}
	state := &editor.State{}
	shirt, pants := canvas.New(canvas.Shirt), canvas.New(canvas.Pants)
	ctrl := editor.NewController(state, shirt, pants,
		editor.WithPrompter(runner),
		editor.WithSaver(editor.DirSaver{Dir: out}),
	)

	rep := runner.Run(ctrl, script)

	// Refused: fit front on pants, select on empty space, delete without selection.
	wantFailed := []int{4, 10, 11}
	if len(rep.Failures) != len(wantFailed) {
		t.Fatalf("failures = %+v", rep.Failures)
	}
	for i, f := range rep.Failures {
		if f.Step != wantFailed[i] {
			t.Errorf("failure %d at step %d, want %d", i, f.Step, wantFailed[i])
		}
	}
	if rep.Applied != len(script.Steps)-len(wantFailed) {
		t.Errorf("applied = %d", rep.Applied)
	}

	if shirt.Len() != 1 || pants.Len() != 1 {
		t.Errorf("layers shirt=%d pants=%d, want 1/1", shirt.Len(), pants.Len())
	}
	wantSaved := []string{"tee.png", "roblox_pants_design.webp"}
	if len(rep.Saved) != len(wantSaved) {
		t.Fatalf("saved = %v, want %v", rep.Saved, wantSaved)
	}
	for i, name := range wantSaved {
		if rep.Saved[i] != name {
			t.Errorf("saved[%d] = %q, want %q", i, rep.Saved[i], name)
		}
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestPromptWithoutPendingStep(t *testing.T) {
	r := &Runner{}
	if v, ok := r.Prompt("Enter filename:", "def"); v != "def" || !ok {
		t.Errorf("Prompt = %q, %v", v, ok)
	}
}

var _ editor.Prompter = (*Runner)(nil)

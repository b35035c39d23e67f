package editor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"garment-texture-studio/internal/canvas"
	"garment-texture-studio/internal/texture"
	"garment-texture-studio/internal/zone"
)

type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) all() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

type memSaver map[string][]byte

func (m memSaver) Save(name string, data []byte) error {
	m[name] = data
	return nil
}

type cancelPrompter struct{}

func (cancelPrompter) Prompt(string, string) (string, bool) { return "", false }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	texture.Fill(img, color.NRGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newController(opts ...Option) (*Controller, *recorder) {
	rec := &recorder{}
	opts = append([]Option{WithNotifier(rec)}, opts...)
	return NewController(&State{}, canvas.New(canvas.Shirt), canvas.New(canvas.Pants), opts...), rec
}

func TestSwitchChannelKeepsLayers(t *testing.T) {
	c, _ := newController()
	if c.ActiveChannel() != canvas.Shirt {
		t.Fatalf("initial channel = %s, want shirt", c.ActiveChannel())
	}
	l, err := c.Upload(pngBytes(t, 32, 32))
	if err != nil {
		t.Fatal(err)
	}
	before := l.Transform()

	events := 0
	c.Canvas(canvas.Shirt).OnChange(func(canvas.Event) { events++ })
	c.Canvas(canvas.Pants).OnChange(func(canvas.Event) { events++ })

	if changed, err := c.SwitchChannel(canvas.Pants); err != nil || !changed {
		t.Fatalf("SwitchChannel(pants) = %v, %v", changed, err)
	}
	if changed, _ := c.SwitchChannel(canvas.Pants); changed {
		t.Error("switching to the active channel should be a no-op")
	}
	if _, err := c.SwitchChannel(canvas.Shirt); err != nil {
		t.Fatal(err)
	}
	if events != 0 {
		t.Errorf("switching fired %d canvas events", events)
	}
	layers := c.Canvas(canvas.Shirt).Layers()
	if len(layers) != 1 || layers[0] != l || l.Transform() != before {
		t.Error("shirt layers changed across a channel round trip")
	}
	if _, err := c.SwitchChannel("hat"); err == nil {
		t.Error("unknown channel accepted")
	}
}

func TestUploadGoesToActiveCanvas(t *testing.T) {
	c, rec := newController()
	c.SwitchChannel(canvas.Pants)
	if _, err := c.Upload(pngBytes(t, 10, 20)); err != nil {
		t.Fatal(err)
	}
	if c.Canvas(canvas.Pants).Len() != 1 || c.Canvas(canvas.Shirt).Len() != 0 {
		t.Error("upload landed on the wrong canvas")
	}

	if _, err := c.Upload([]byte("not an image")); !errors.Is(err, texture.ErrDecode) {
		t.Errorf("garbage upload err = %v, want ErrDecode", err)
	}
	if c.Canvas(canvas.Pants).Len() != 1 {
		t.Error("failed upload added a layer")
	}
	if n := len(rec.all()); n != 0 {
		t.Errorf("failed upload produced %d notices", n)
	}
}

func TestFitTorsoOnPantsRejected(t *testing.T) {
	c, rec := newController()
	c.SwitchChannel(canvas.Pants)
	l, _ := c.Upload(pngBytes(t, 16, 16))
	before := l.Transform()

	if err := c.FitToZone(zone.FitFront); !errors.Is(err, ErrUnavailableZone) {
		t.Errorf("fit front on pants = %v, want ErrUnavailableZone", err)
	}
	if l.Transform() != before {
		t.Error("rejected fit moved the layer")
	}
	if err := c.FitToZone("hood"); !errors.Is(err, canvas.ErrUnknownZone) {
		t.Errorf("fit hood = %v, want ErrUnknownZone", err)
	}
	if err := c.FitToZone(zone.FitLArm); err != nil {
		t.Errorf("fit l_arm on pants: %v", err)
	}
	if got := l.Transform(); got.Left != 455 || got.Top != 388 {
		t.Errorf("l_arm origin = (%v,%v)", got.Left, got.Top)
	}

	ns := rec.all()
	if len(ns) != 2 {
		t.Fatalf("notices = %+v, want 2", ns)
	}
	if ns[1].Message != "Unknown fit zone." {
		t.Errorf("unknown zone message = %q", ns[1].Message)
	}
}

func TestDeleteAndTransformWithoutSelection(t *testing.T) {
	c, rec := newController()
	if err := c.Delete(); !errors.Is(err, canvas.ErrNoSelection) {
		t.Errorf("Delete = %v, want ErrNoSelection", err)
	}
	if err := c.Transform(canvas.Delta{DX: 3}); !errors.Is(err, canvas.ErrNoSelection) {
		t.Errorf("Transform = %v, want ErrNoSelection", err)
	}
	ns := rec.all()
	if len(ns) != 2 || ns[0].Message != "Select an image first!" {
		t.Errorf("notices = %+v", ns)
	}

	c.Upload(pngBytes(t, 8, 8))
	if c.SelectAt(1, 1) != nil {
		t.Error("SelectAt on empty area should clear the selection")
	}
	if c.SelectAt(130, 130) == nil {
		t.Fatal("SelectAt on the layer missed")
	}
	if err := c.Delete(); err != nil {
		t.Fatal(err)
	}
	if c.Canvas(canvas.Shirt).Len() != 0 {
		t.Error("layer not deleted")
	}
}

func TestDownloadNamingAndCancel(t *testing.T) {
	saved := memSaver{}
	c, _ := newController(WithSaver(saved))

	name, err := c.Download(canvas.Pants, PNG)
	if err != nil {
		t.Fatal(err)
	}
	if name != "roblox_pants_design.png" {
		t.Errorf("name = %q", name)
	}
	img, err := png.Decode(bytes.NewReader(saved[name]))
	if err != nil {
		t.Fatalf("saved file: %v", err)
	}
	if img.Bounds().Size() != image.Pt(zone.CanvasWidth, zone.CanvasHeight) {
		t.Errorf("saved size = %v", img.Bounds().Size())
	}

	c2, _ := newController(WithSaver(saved), WithPrompter(cancelPrompter{}))
	before := len(saved)
	if name, err := c2.Download(canvas.Shirt, WebP); name != "" || err != nil {
		t.Errorf("canceled Download = %q, %v", name, err)
	}
	if len(saved) != before {
		t.Error("canceled download saved a file")
	}
}

func TestResolveFilename(t *testing.T) {
	tests := []struct {
		input  string
		ok     bool
		format Format
		want   string
		wantOK bool
	}{
		{"  my shirt  ", true, PNG, "my shirt.png", true},
		{"", true, PNG, "roblox_shirt_design.png", true},
		{"   ", true, WebP, "roblox_shirt_design.webp", true},
		{"done.PNG", true, PNG, "done.PNG", true},
		{"art.png", true, WebP, "art.png.webp", true},
		{"ignored", false, PNG, "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveFilename(tt.input, tt.ok, "roblox_shirt_design", tt.format)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ResolveFilename(%q, %v) = %q, %v; want %q, %v", tt.input, tt.ok, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := LinePrompter{In: bufio.NewReader(strings.NewReader("cool\n")), Out: &out}
	v, ok := p.Prompt("Enter filename:", "x")
	if !ok || strings.TrimSpace(v) != "cool" {
		t.Errorf("Prompt = %q, %v", v, ok)
	}
	if !strings.Contains(out.String(), "Enter filename:") {
		t.Errorf("prompt text = %q", out.String())
	}
	if _, ok := p.Prompt("Enter filename:", "x"); ok {
		t.Error("EOF should cancel")
	}
}

func TestAffordances(t *testing.T) {
	c, _ := newController()
	a := c.Affordances()
	if !a.Offers(zone.FitFront) || len(a.Legend) != 3 {
		t.Errorf("shirt affordances = %+v", a)
	}
	c.SwitchChannel(canvas.Pants)
	a = c.Affordances()
	if a.Offers(zone.FitFront) || a.Offers(zone.FitBack) || !a.Offers(zone.FitRArm) || len(a.Legend) != 2 {
		t.Errorf("pants affordances = %+v", a)
	}
	if a.ModeLabel != "Currently editing: PANTS (Legs)" {
		t.Errorf("mode label = %q", a.ModeLabel)
	}
}

func TestLoadTemplate(t *testing.T) {
	tpl := pngBytes(t, zone.TemplateWidth, zone.TemplateHeight)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/template.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(tpl)
	}))
	defer srv.Close()

	c, rec := newController()
	cache := texture.NewCache(t.TempDir())

	errs := make(chan error, 1)
	c.LoadTemplate(context.Background(), cache, srv.URL+"/template.png", func(err error) { errs <- err })
	if err := <-errs; err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	c.Do(func() {
		if c.Canvas(canvas.Shirt).Template() == nil || c.Canvas(canvas.Pants).Template() == nil {
			t.Error("template not installed on both canvases")
		}
	})

	c.LoadTemplate(context.Background(), cache, srv.URL+"/missing.png", func(err error) { errs <- err })
	if err := <-errs; !errors.Is(err, texture.ErrAssetFetch) {
		t.Errorf("missing template err = %v, want ErrAssetFetch", err)
	}
	ns := rec.all()
	if len(ns) != 1 || ns[0].Level != Warning {
		t.Errorf("notices = %+v, want one warning", ns)
	}
}

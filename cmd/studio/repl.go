package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"garment-texture-studio/internal/canvas"
	"garment-texture-studio/internal/editor"
	"garment-texture-studio/internal/mathutil"
	"garment-texture-studio/internal/studio"
)

const help = `commands:
  switch shirt|pants        change the active canvas
  upload <path>             add an image layer
  fit front|back|r_arm|l_arm
  move dx dy [sx sy rot]    transform the selection
  select x y                select the top layer at a point
  delete                    delete the selection
  download [png|webp]       export a canvas (prompts for a name)
  orbit dtheta dphi         rotate the preview camera (degrees)
  zoom factor               dolly the preview camera
  preview <path.webp>       save the latest preview frame
  view <path.webp>          save the active canvas with guides
  status                    show the active channel and layers
  quit`

// repl reads editor commands until EOF or quit. The preview renders in the
// background the whole time.
func repl(ctx context.Context, sess *studio.Session, in *bufio.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var latest atomic.Pointer[image.NRGBA]
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- sess.Preview.Run(ctx, func(img *image.NRGBA) error {
			latest.Store(img)
			return nil
		})
	}()

	fmt.Fprintln(out, help)
	for {
		fmt.Fprintf(out, "%s> ", sess.Controller.ActiveChannel())
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			break
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			break
		}
		if err := command(sess, args, &latest, out); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}

	cancel()
	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func floats(args []string, n int) ([]float64, error) {
	if len(args) < n {
		return nil, fmt.Errorf("need %d numbers", n)
	}
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", a)
		}
		out[i] = v
	}
	return out, nil
}

func command(sess *studio.Session, args []string, latest *atomic.Pointer[image.NRGBA], out io.Writer) error {
	ctrl := sess.Controller
	rest := args[1:]
	switch args[0] {
	case "help":
		fmt.Fprintln(out, help)
	case "switch":
		if len(rest) != 1 {
			return errors.New("usage: switch shirt|pants")
		}
		if _, err := ctrl.SwitchChannel(canvas.Channel(rest[0])); err != nil {
			return err
		}
		fmt.Fprintln(out, ctrl.Affordances().ModeLabel)
	case "upload":
		if len(rest) != 1 {
			return errors.New("usage: upload <path>")
		}
		// Undecodable uploads are skipped without a notice.
		if _, err := ctrl.UploadFile(rest[0]); err != nil {
			return err
		}
	case "fit":
		if len(rest) != 1 {
			return errors.New("usage: fit <zone>")
		}
		// Refusals already surfaced as notices.
		_ = ctrl.FitToZone(rest[0])
	case "move":
		v, err := floats(rest, 2)
		if err != nil {
			return err
		}
		d := canvas.Delta{DX: v[0], DY: v[1]}
		if len(v) >= 4 {
			d.ScaleX, d.ScaleY = v[2], v[3]
		}
		if len(v) >= 5 {
			d.Rotate = v[4]
		}
		_ = ctrl.Transform(d)
	case "select":
		v, err := floats(rest, 2)
		if err != nil {
			return err
		}
		if l := ctrl.SelectAt(v[0], v[1]); l != nil {
			fmt.Fprintf(out, "selected layer %d\n", l.ID())
		} else {
			fmt.Fprintln(out, "selection cleared")
		}
	case "delete":
		_ = ctrl.Delete()
	case "download":
		f := editor.PNG
		if len(rest) == 1 && strings.EqualFold(rest[0], "webp") {
			f = editor.WebP
		}
		name, err := ctrl.Download(ctrl.ActiveChannel(), f)
		if err != nil {
			return err
		}
		if name == "" {
			fmt.Fprintln(out, "canceled")
		} else {
			fmt.Fprintf(out, "saved %s\n", name)
		}
	case "orbit":
		v, err := floats(rest, 2)
		if err != nil {
			return err
		}
		sess.Preview.Controls().Rotate(mathutil.Deg2Rad(v[0]), mathutil.Deg2Rad(v[1]))
	case "zoom":
		v, err := floats(rest, 1)
		if err != nil {
			return err
		}
		sess.Preview.Controls().Zoom(v[0])
	case "preview":
		if len(rest) != 1 {
			return errors.New("usage: preview <path.webp>")
		}
		img := latest.Load()
		if img == nil {
			img = sess.Preview.Frame()
		}
		return studio.WriteWebP(rest[0], img)
	case "view":
		if len(rest) != 1 {
			return errors.New("usage: view <path.webp>")
		}
		return studio.WriteWebP(rest[0], ctrl.View())
	case "status":
		a := ctrl.Affordances()
		fmt.Fprintln(out, a.ModeLabel)
		for _, e := range a.Legend {
			fmt.Fprintf(out, "  %s %s\n", e.Color, e.Label)
		}
		fmt.Fprintf(out, "  fits: %s\n", strings.Join(a.Fits, ", "))
		ctrl.Do(func() {
			fmt.Fprintf(out, "  layers: shirt %d, pants %d, sync passes %d\n",
				sess.Shirt.Len(), sess.Pants.Len(), sess.Sync.Passes())
		})
	default:
		return fmt.Errorf("unknown command %q (try help)", args[0])
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/phong/pkg/config"
	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/render"
	"github.com/taigrr/phong/pkg/shading"
)

const (
	torqueStrength = 3.0
	zoomStep       = 1.0
	minDistance    = 5.0
	maxDistance    = 200.0
)

func newViewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Interactive terminal viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd.Context(), opts)
		},
	}
}

// viewer is the interactive state. Input events only touch the viewer;
// the frame is built from it afterwards.
type viewer struct {
	rotation *RotationState
	torque   struct{ pitch, yaw, roll float64 }

	mode      shading.Mode
	wireframe bool
	showHUD   bool
	distance  float64
	home      float64

	mouseDown    bool
	lastX, lastY int

	// Set by a resize event and consumed by the frame loop.
	resized       bool
	width, height int

	quit bool
}

func newViewer(cfg *config.Config, width, height int) *viewer {
	return &viewer{
		rotation: NewRotationState(cfg.Render.FPS),
		mode:     initialMode(cfg),
		distance: cfg.Scene.Distance,
		home:     cfg.Scene.Distance,
		width:    width,
		height:   height,
	}
}

func (v *viewer) zoom(delta float64) {
	v.distance = min(max(v.distance+delta, minDistance), maxDistance)
}

// handle applies one terminal event.
func (v *viewer) handle(ev uv.Event) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.width, v.height = ev.Width, ev.Height
		v.resized = true

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			v.quit = true
		case ev.MatchString("w", "up"):
			v.torque.pitch = -torqueStrength
		case ev.MatchString("s", "down"):
			v.torque.pitch = torqueStrength
		case ev.MatchString("a", "left"):
			v.torque.yaw = -torqueStrength
		case ev.MatchString("d", "right"):
			v.torque.yaw = torqueStrength
		case ev.MatchString("q"):
			v.torque.roll = -torqueStrength
		case ev.MatchString("e"):
			v.torque.roll = torqueStrength
		case ev.MatchString("space"):
			v.rotation.ApplyImpulse(
				(rand.Float64()-0.5)*1.5,
				(rand.Float64()-0.5)*1.5,
				(rand.Float64()-0.5)*1.5,
			)
		case ev.MatchString("r"):
			v.rotation.Reset()
			v.distance = v.home
		case ev.MatchString("+", "="):
			v.zoom(-zoomStep)
		case ev.MatchString("-", "_"):
			v.zoom(zoomStep)
		case ev.MatchString("m"):
			v.mode = v.mode.Toggle()
		case ev.MatchString("x"):
			v.wireframe = !v.wireframe
		case ev.MatchString("?", "shift+/"):
			v.showHUD = !v.showHUD
		}

	case uv.KeyReleaseEvent:
		switch {
		case ev.MatchString("w", "up", "s", "down"):
			v.torque.pitch = 0
		case ev.MatchString("a", "left", "d", "right"):
			v.torque.yaw = 0
		case ev.MatchString("q", "e"):
			v.torque.roll = 0
		}

	case uv.MouseClickEvent:
		v.mouseDown = true
		v.lastX, v.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.mouseDown = false

	case uv.MouseMotionEvent:
		if v.mouseDown {
			dx, dy := ev.X-v.lastX, ev.Y-v.lastY
			v.rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03, 0)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.zoom(-zoomStep)
		case uv.MouseWheelDown:
			v.zoom(zoomStep)
		}
	}
}

// step advances the spin by dt seconds. Key release events are not
// reported by every terminal, so held torque also fades on its own.
func (v *viewer) step(dt float64) {
	v.rotation.ApplyImpulse(v.torque.pitch*dt, v.torque.yaw*dt, v.torque.roll*dt)
	v.torque.pitch *= 0.9
	v.torque.yaw *= 0.9
	v.torque.roll *= 0.9
	v.rotation.Update()
}

// frame snapshots the viewer for drawing with cfg.
func (v *viewer) frame(cfg *config.Config) frame {
	return frame{
		cfg: cfg,
		rotation: math3d.V3(
			v.rotation.Pitch.Position,
			v.rotation.Yaw.Position,
			v.rotation.Roll.Position,
		),
		distance:  v.distance,
		mode:      v.mode,
		wireframe: v.wireframe,
	}
}

// configSource yields the config for the next frame.
type configSource func() (*config.Config, error)

func (o *options) configSource(ctx context.Context, log *slog.Logger) (configSource, func(), error) {
	if o.configPath == "" {
		cfg, err := o.loadConfig()
		if err != nil {
			return nil, nil, err
		}
		return func() (*config.Config, error) { return cfg, nil }, func() {}, nil
	}

	w, err := config.NewWatcher(o.configPath, log)
	if err != nil {
		return nil, nil, err
	}
	go func() {
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("config watcher stopped", "err", err)
		}
	}()
	src := func() (*config.Config, error) { return o.apply(w.Current()) }
	return src, func() { w.Close() }, nil
}

func runView(ctx context.Context, opts *options) error {
	log, closeLog, err := opts.logger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	next, stopWatch, err := opts.configSource(ctx, log)
	if err != nil {
		return err
	}
	defer stopWatch()

	cfg, err := next()
	if err != nil {
		return err
	}
	mesh, err := loadMesh(cfg, opts.modelPath)
	if err != nil {
		return err
	}
	name := "torus"
	if opts.modelPath != "" {
		name = filepath.Base(opts.modelPath)
	}
	log.Info("loaded", "model", name, "vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Any-event mouse tracking with SGR coordinates.
	fmt.Fprint(os.Stdout, "\x1b[?1003h\x1b[?1006h")
	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	screen := render.NewTerminalRenderer(term, width, height)
	fb := render.NewFramebuffer(screen.FramebufferSize())
	r := render.NewRasterizer(fb)
	cam := render.NewCamera()
	hud := NewHUD(name, mesh.TriangleCount())
	v := newViewer(cfg, width, height)

	events := term.Events()
	lastFrame := time.Now()
	for {
		// Apply every pending event before the frame is built.
		for drained := false; !drained; {
			select {
			case ev := <-events:
				v.handle(ev)
			default:
				drained = true
			}
		}
		if v.quit || ctx.Err() != nil {
			return nil
		}
		if v.resized {
			v.resized = false
			term.Erase()
			term.Resize(v.width, v.height)
			screen = render.NewTerminalRenderer(term, v.width, v.height)
			fb = render.NewFramebuffer(screen.FramebufferSize())
			r.SetFramebuffer(fb)
		}

		if c, err := next(); err != nil {
			log.Warn("config override rejected, keeping previous", "err", err)
		} else {
			cfg = c
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now
		v.step(dt)

		if err := drawFrame(ctx, r, fb, cam, mesh, v.frame(cfg)); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("draw: %w", err)
		}
		screen.Render(fb)
		hud.UpdateFPS(now)
		if v.showHUD {
			hud.Draw(term, v.width, v.height, v)
		}
		if err := screen.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		target := time.Second / time.Duration(cfg.Render.FPS)
		if elapsed := time.Since(now); elapsed < target {
			select {
			case <-ctx.Done():
			case <-time.After(target - elapsed):
			}
		}
	}
}

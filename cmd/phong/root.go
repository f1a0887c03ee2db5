package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taigrr/phong/pkg/config"
	"github.com/taigrr/phong/pkg/models"
	"github.com/taigrr/phong/pkg/shading"
)

// options holds the flags shared by every subcommand. Zero values leave
// the config file (or the defaults) alone.
type options struct {
	configPath string
	modelPath  string
	mode       string
	workers    int
	fps        int
	logFile    string

	debug, verbose, quiet bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "phong",
		Short: "Phong-lit 3D models in your terminal",
		Long: "phong draws a torus, or a glTF mesh, with the Phong illumination model.\n" +
			"Shading runs per fragment by default; per-vertex (Gouraud) shading is one key away.",
		SilenceUsage: true,
	}

	f := root.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "TOML or YAML config file")
	f.StringVarP(&opts.modelPath, "model", "m", "", "glTF/GLB model to draw instead of the torus")
	f.StringVar(&opts.mode, "mode", "", "shading mode: per-fragment or per-vertex")
	f.IntVar(&opts.workers, "workers", 0, "rasterizer goroutines (0 = GOMAXPROCS)")
	f.IntVar(&opts.fps, "fps", 0, "target frames per second")
	f.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	f.BoolVar(&opts.debug, "debug", false, "log debug messages")
	f.BoolVar(&opts.verbose, "verbose", false, "log informational messages")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "log errors only")

	root.AddCommand(newViewCmd(opts), newRenderCmd(opts))
	return root
}

// LevelFromFlags maps the verbosity flags to a log level. Earlier flags
// win: debug over verbose over quiet.
func LevelFromFlags(debug, verbose, quiet bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	case quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// logger builds the command logger. fallback is used when no log file is
// set; the viewer passes io.Discard since stderr shares the screen.
func (o *options) logger(fallback io.Writer) (*slog.Logger, func() error, error) {
	w, closeFn := fallback, func() error { return nil }
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, f.Close
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LevelFromFlags(o.debug, o.verbose, o.quiet),
	})
	return slog.New(h), closeFn, nil
}

// loadConfig reads the config file, if any, on top of the defaults.
func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		return o.apply(config.Default())
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	return o.apply(cfg)
}

// apply returns a copy of cfg with the flag overrides applied. cfg itself
// is left untouched so a watcher's shared Config stays read-only.
func (o *options) apply(cfg *config.Config) (*config.Config, error) {
	c := *cfg
	if o.mode != "" {
		c.Shading.Mode = o.mode
	}
	if o.workers > 0 {
		c.Render.Workers = o.workers
	}
	if o.fps > 0 {
		c.Render.FPS = o.fps
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// loadMesh returns the glTF model when one was given and the configured
// torus otherwise. Loaded models are fitted to the torus size so the
// default camera frames both.
func loadMesh(cfg *config.Config, modelPath string) (*models.Mesh, error) {
	s := cfg.Scene
	if modelPath == "" {
		return models.NewTorus(s.TorusRadius, s.TorusTube, s.RadialSegments, s.TubularSegments)
	}
	mesh, err := models.LoadGLB(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	mesh.Fit(2 * (s.TorusRadius + s.TorusTube))
	return mesh, nil
}

// initialMode parses the configured shading mode. Config.Validate has
// already checked it.
func initialMode(cfg *config.Config) shading.Mode {
	m, _ := cfg.Mode()
	return m
}

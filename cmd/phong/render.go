package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/render"
)

// Headless image size when neither flags nor config set one.
const (
	defaultImageWidth  = 800
	defaultImageHeight = 600
)

type renderOptions struct {
	out              string
	width, height    int
	pitch, yaw, roll float64 // degrees
	wireframe        bool
}

func newRenderCmd(opts *options) *cobra.Command {
	ro := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts, ro)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&ro.out, "out", "o", "phong.png", "output PNG path")
	f.IntVar(&ro.width, "width", 0, "image width in pixels")
	f.IntVar(&ro.height, "height", 0, "image height in pixels")
	f.Float64Var(&ro.pitch, "pitch", 0, "model rotation around X in degrees")
	f.Float64Var(&ro.yaw, "yaw", 0, "model rotation around Y in degrees")
	f.Float64Var(&ro.roll, "roll", 0, "model rotation around Z in degrees")
	f.BoolVar(&ro.wireframe, "wireframe", false, "draw edges only")
	return cmd
}

func runRender(cmd *cobra.Command, opts *options, ro *renderOptions) error {
	log, closeLog, err := opts.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	mesh, err := loadMesh(cfg, opts.modelPath)
	if err != nil {
		return err
	}

	w, h := imageSize(ro.width, cfg.Render.Width, defaultImageWidth), imageSize(ro.height, cfg.Render.Height, defaultImageHeight)
	fb := render.NewFramebuffer(w, h)
	r := render.NewRasterizer(fb)
	f := frame{
		cfg:       cfg,
		rotation:  math3d.V3(ro.pitch, ro.yaw, ro.roll).Scale(math.Pi / 180),
		distance:  cfg.Scene.Distance,
		mode:      initialMode(cfg),
		wireframe: ro.wireframe,
	}
	if err := drawFrame(cmd.Context(), r, fb, render.NewCamera(), mesh, f); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	if err := fb.SavePNG(ro.out); err != nil {
		return err
	}

	log.Info("rendered", "out", ro.out, "width", w, "height", h,
		"mode", f.mode, "triangles", mesh.TriangleCount())
	return nil
}

// imageSize picks the first positive value.
func imageSize(flag, cfg, fallback int) int {
	switch {
	case flag > 0:
		return flag
	case cfg > 0:
		return cfg
	}
	return fallback
}

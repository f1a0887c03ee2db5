// Package config loads viewer settings from TOML or YAML files.
//
// A file only needs the keys it wants to change; everything else keeps the
// value from Default.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/shading"
)

// ErrUnknownFormat is returned when a file extension maps to no decoder.
var ErrUnknownFormat = errors.New("unknown config format")

// Format names a file encoding.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Vec3 is a three-element array, used for both colors and positions.
type Vec3 [3]float64

// RGB converts v to a shading color.
func (v Vec3) RGB() shading.RGB {
	return shading.RGB{R: v[0], G: v[1], B: v[2]}
}

// Point converts v to a position.
func (v Vec3) Point() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// Config is the full viewer configuration.
type Config struct {
	Uniforms UniformsConfig `toml:"uniforms" yaml:"uniforms"`
	Shading  ShadingConfig  `toml:"shading" yaml:"shading"`
	Scene    SceneConfig    `toml:"scene" yaml:"scene"`
	Render   RenderConfig   `toml:"render" yaml:"render"`
}

// UniformsConfig is the uniform block as a key/value record.
type UniformsConfig struct {
	AmbientIntensity  Vec3 `toml:"ambient_intensity" yaml:"ambient_intensity"`
	LightPosition     Vec3 `toml:"light_position" yaml:"light_position"`
	LightDiffuseColor Vec3 `toml:"light_diffuse_color" yaml:"light_diffuse_color"`
	KAmbient          Vec3 `toml:"k_ambient" yaml:"k_ambient"`
	KDiffuse          Vec3 `toml:"k_diffuse" yaml:"k_diffuse"`
	KSpecular         Vec3 `toml:"k_specular" yaml:"k_specular"`
}

// ShadingConfig selects the shading mode and exponents.
type ShadingConfig struct {
	// Mode is "per-fragment" or "per-vertex".
	Mode            string  `toml:"mode" yaml:"mode"`
	Shininess       float64 `toml:"shininess" yaml:"shininess"`
	VertexShininess float64 `toml:"vertex_shininess" yaml:"vertex_shininess"`
}

// SceneConfig describes the torus and the camera.
type SceneConfig struct {
	TorusRadius     float64 `toml:"torus_radius" yaml:"torus_radius"`
	TorusTube       float64 `toml:"torus_tube" yaml:"torus_tube"`
	RadialSegments  int     `toml:"radial_segments" yaml:"radial_segments"`
	TubularSegments int     `toml:"tubular_segments" yaml:"tubular_segments"`

	// FOV is the vertical field of view in degrees.
	FOV      float64 `toml:"fov" yaml:"fov"`
	Distance float64 `toml:"distance" yaml:"distance"`
	Near     float64 `toml:"near" yaml:"near"`
	Far      float64 `toml:"far" yaml:"far"`
}

// RenderConfig holds output settings. A zero Width or Height means the
// terminal size in the viewer.
type RenderConfig struct {
	Width      int    `toml:"width" yaml:"width"`
	Height     int    `toml:"height" yaml:"height"`
	FPS        int    `toml:"fps" yaml:"fps"`
	Background string `toml:"background" yaml:"background"`
	Workers    int    `toml:"workers" yaml:"workers"`
}

// Default returns the settings of the reference scene: a blue torus lit
// from the upper left, seen from 25 units away.
func Default() *Config {
	u := shading.DefaultUniforms()
	return &Config{
		Uniforms: UniformsConfig{
			AmbientIntensity:  fromRGB(u.AmbientIntensity),
			LightPosition:     Vec3{u.LightPosition.X, u.LightPosition.Y, u.LightPosition.Z},
			LightDiffuseColor: fromRGB(u.LightDiffuseColor),
			KAmbient:          fromRGB(u.KAmbient),
			KDiffuse:          fromRGB(u.KDiffuse),
			KSpecular:         fromRGB(u.KSpecular),
		},
		Shading: ShadingConfig{
			Mode:            shading.PerFragment.String(),
			Shininess:       shading.DefaultFragmentShininess,
			VertexShininess: shading.DefaultVertexShininess,
		},
		Scene: SceneConfig{
			TorusRadius:     10,
			TorusTube:       3,
			RadialSegments:  16,
			TubularSegments: 25,
			FOV:             75,
			Distance:        25,
			Near:            0.1,
			Far:             1000,
		},
		Render: RenderConfig{
			FPS:        60,
			Background: "#000000",
		},
	}
}

func fromRGB(c shading.RGB) Vec3 {
	return Vec3{c.R, c.G, c.B}
}

// Load reads and validates the file at path on top of Default.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a config in the given format on top of Default and
// validates it.
func Decode(r io.Reader, format Format) (*Config, error) {
	cfg := Default()
	switch format {
	case TOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise produce a broken frame.
func (c *Config) Validate() error {
	u := c.ShadingUniforms()
	if err := u.Validate(); err != nil {
		return fmt.Errorf("uniforms: %w", err)
	}
	if _, err := c.Mode(); err != nil {
		return err
	}
	if c.Shading.Shininess <= 0 || c.Shading.VertexShininess <= 0 {
		return fmt.Errorf("shininess must be positive")
	}

	s := c.Scene
	if s.TorusRadius <= 0 || s.TorusTube <= 0 {
		return fmt.Errorf("torus radius and tube must be positive")
	}
	if s.RadialSegments < 3 || s.TubularSegments < 3 {
		return fmt.Errorf("torus needs at least 3 segments each way")
	}
	if s.FOV <= 0 || s.FOV >= 180 {
		return fmt.Errorf("fov %v out of range (0, 180)", s.FOV)
	}
	if s.Near <= 0 || s.Far <= s.Near {
		return fmt.Errorf("clip planes near=%v far=%v: want 0 < near < far", s.Near, s.Far)
	}

	r := c.Render
	if r.Width < 0 || r.Height < 0 || r.Workers < 0 {
		return fmt.Errorf("render width, height and workers must not be negative")
	}
	if r.FPS <= 0 {
		return fmt.Errorf("fps must be positive")
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	return nil
}

// Mode parses Shading.Mode.
func (c *Config) Mode() (shading.Mode, error) {
	return shading.ParseMode(c.Shading.Mode)
}

// ShadingUniforms builds the uniform block.
func (c *Config) ShadingUniforms() shading.Uniforms {
	u := c.Uniforms
	return shading.Uniforms{
		AmbientIntensity:  u.AmbientIntensity.RGB(),
		LightPosition:     u.LightPosition.Point(),
		LightDiffuseColor: u.LightDiffuseColor.RGB(),
		KAmbient:          u.KAmbient.RGB(),
		KDiffuse:          u.KDiffuse.RGB(),
		KSpecular:         u.KSpecular.RGB(),
	}
}

// Program builds a draw program for tc from the uniforms and shading
// settings. The uniform block is copied, so later edits to c do not reach
// the returned program.
func (c *Config) Program(tc *shading.TransformContext, mode shading.Mode) *shading.Program {
	u := c.ShadingUniforms()
	p := shading.NewProgram(&u, tc, mode)
	p.FragmentShininess = c.Shading.Shininess
	p.VertexShininess = c.Shading.VertexShininess
	return p
}

// BackgroundColor parses Render.Background as #rrggbb.
func (c *Config) BackgroundColor() (shading.RGB, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(c.Render.Background, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return shading.RGB{}, fmt.Errorf("background %q: want #rrggbb", c.Render.Background)
	}
	return shading.RGB{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, nil
}

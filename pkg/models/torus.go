package models

import (
	"fmt"
	"math"

	"github.com/taigrr/phong/pkg/math3d"
)

// Torus dimensions used when no model is given.
const (
	DefaultTorusRadius          = 10.0
	DefaultTorusTube            = 3.0
	DefaultTorusRadialSegments  = 16
	DefaultTorusTubularSegments = 25
)

// NewTorus builds a torus centered on the origin, lying in the XY plane.
// radius is the distance from the center to the middle of the tube, tube is
// the tube radius. The surface is a (radialSegments+1) x (tubularSegments+1)
// vertex grid with a seam, and normals point away from the tube's center
// line.
func NewTorus(radius, tube float64, radialSegments, tubularSegments int) (*Mesh, error) {
	if radialSegments < 3 || tubularSegments < 3 {
		return nil, fmt.Errorf("torus needs at least 3 segments each way, got %d x %d",
			radialSegments, tubularSegments)
	}
	if radius <= 0 || tube <= 0 {
		return nil, fmt.Errorf("torus radius %g and tube %g must be positive", radius, tube)
	}

	m := NewMesh("torus")
	m.Vertices = make([]MeshVertex, 0, (radialSegments+1)*(tubularSegments+1))
	m.Faces = make([]Face, 0, 2*radialSegments*tubularSegments)

	for j := 0; j <= radialSegments; j++ {
		v := float64(j) / float64(radialSegments) * 2 * math.Pi
		for i := 0; i <= tubularSegments; i++ {
			u := float64(i) / float64(tubularSegments) * 2 * math.Pi

			pos := math3d.V3(
				(radius+tube*math.Cos(v))*math.Cos(u),
				(radius+tube*math.Cos(v))*math.Sin(u),
				tube*math.Sin(v),
			)
			center := math3d.V3(radius*math.Cos(u), radius*math.Sin(u), 0)
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: pos,
				Normal:   pos.Sub(center).Normalize(),
			})
		}
	}

	row := tubularSegments + 1
	for j := 1; j <= radialSegments; j++ {
		for i := 1; i <= tubularSegments; i++ {
			a := row*j + i - 1
			b := row*(j-1) + i - 1
			c := row*(j-1) + i
			d := row*j + i
			m.Faces = append(m.Faces,
				Face{V: [3]int{a, d, b}},
				Face{V: [3]int{b, d, c}},
			)
		}
	}

	m.CalculateBounds()
	return m, nil
}

// DefaultTorus returns the 10/3/16/25 torus.
func DefaultTorus() *Mesh {
	m, _ := NewTorus(DefaultTorusRadius, DefaultTorusTube,
		DefaultTorusRadialSegments, DefaultTorusTubularSegments)
	return m
}

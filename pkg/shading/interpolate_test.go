package shading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taigrr/phong/pkg/math3d"
)

func TestInterpolateCorners(t *testing.T) {
	outs := [3]VertexOutput{
		{Normal: math3d.V3(1, 0, 0), Clip: math3d.V4(0, 0, 0, 1), Color: RGBA{1, 0, 0, 1}},
		{Normal: math3d.V3(0, 1, 0), Clip: math3d.V4(1, 0, 0, 1), Color: RGBA{0, 1, 0, 1}},
		{Normal: math3d.V3(0, 0, 1), Clip: math3d.V4(0, 1, 0, 1), Color: RGBA{0, 0, 1, 1}},
	}
	for i := range 3 {
		var w [3]float64
		w[i] = 1
		assert.Equal(t, outs[i], Interpolate(&outs, w))
	}
}

func TestInterpolateShortensUnitVectors(t *testing.T) {
	outs := [3]VertexOutput{
		{Normal: math3d.V3(1, 0, 0)},
		{Normal: math3d.V3(0, 1, 0)},
		{Normal: math3d.V3(0, 0, 1)},
	}
	third := 1.0 / 3
	in := Interpolate(&outs, [3]float64{third, third, third})
	assert.Less(t, in.Normal.Len(), 1.0)
}

func TestPerspectiveWeights(t *testing.T) {
	tests := []struct {
		name  string
		bc    [3]float64
		clipW [3]float64
		want  [3]float64
	}{
		{"equal depth is affine", [3]float64{0.2, 0.3, 0.5}, [3]float64{4, 4, 4}, [3]float64{0.2, 0.3, 0.5}},
		{"far vertex loses weight", [3]float64{0.5, 0.5, 0}, [3]float64{1, 3, 1}, [3]float64{0.75, 0.25, 0}},
		{"corner", [3]float64{0, 0, 1}, [3]float64{1, 2, 7}, [3]float64{0, 0, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PerspectiveWeights(tc.bc, tc.clipW)
			assert.True(t, ok)
			for i := range 3 {
				assert.InDelta(t, tc.want[i], got[i], tol)
			}
		})
	}

	_, ok := PerspectiveWeights([3]float64{1, 0, 0}, [3]float64{0, 1, 1})
	assert.False(t, ok)
}

package math3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-9

func assertVec3(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "X")
	assert.InDelta(t, want.Y, got.Y, tol, "Y")
	assert.InDelta(t, want.Z, got.Z, tol, "Z")
}

func TestReflect(t *testing.T) {
	tests := []struct {
		name string
		i, n Vec3
		want Vec3
	}{
		{"straight down onto floor", V3(0, -1, 0), V3(0, 1, 0), V3(0, 1, 0)},
		{"grazing", V3(1, 0, 0), V3(0, 1, 0), V3(1, 0, 0)},
		{"45 degrees", V3(1, -1, 0), V3(0, 1, 0), V3(1, 1, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertVec3(t, tc.want, tc.i.Reflect(tc.n))
		})
	}
}

func TestUnitZeroIsNaN(t *testing.T) {
	u := Zero3().Unit()
	assert.True(t, math.IsNaN(u.X) && math.IsNaN(u.Y) && math.IsNaN(u.Z))

	// Normalize keeps its zero guard for geometry code.
	assert.Equal(t, Zero3(), Zero3().Normalize())
}

func TestUnitLength(t *testing.T) {
	for _, v := range []Vec3{V3(0, 0, 2), V3(1, 2, 3), V3(-4, 0.5, 9)} {
		assert.InDelta(t, 1, v.Unit().Len(), tol)
	}
}

func TestMat3InverseRoundTrip(t *testing.T) {
	m := RotateZ(0.7).Mul(Scale(V3(2, 3, 0.5))).Mat3()
	inv := m.Inverse()
	v := V3(1, -2, 3)
	assertVec3(t, v, inv.MulVec3(m.MulVec3(v)))
	assert.Equal(t, Identity3(), Identity3().Inverse())
}

func TestMat4Mat3MatchesMulVec3Dir(t *testing.T) {
	m := Translate(V3(5, 6, 7)).Mul(RotateY(1.1))
	v := V3(0.3, 0.4, 0.5)
	assertVec3(t, m.MulVec3Dir(v), m.Mat3().MulVec3(v))
}

// The normal matrix is cross-checked against mathgl's independent implementation.
func TestNormalMatrixMatchesMathGL(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"rotation", RotateX(0.4).Mul(RotateY(-1.2))},
		{"non-uniform scale", Scale(V3(1, 4, 0.25))},
		{"full model-view", Translate(V3(0, 0, -25)).Mul(RotateY(0.3)).Mul(Scale(V3(2, 1, 1)))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			want := mgl64.Mat4(tc.m).Mat3().Inv().Transpose()
			got := tc.m.NormalMatrix()
			for i := range got {
				assert.InDelta(t, want[i], got[i], tol, "element %d", i)
			}
		})
	}
}

func TestNormalMatrixKeepsNormalsPerpendicular(t *testing.T) {
	// A plane tangent stretched non-uniformly must stay perpendicular to the
	// transformed normal.
	m := RotateZ(math.Pi / 4).Mul(Scale(V3(3, 1, 1)))
	tangent := V3(1, -1, 0)
	normal := V3(1, 1, 0)

	tt := m.MulVec3Dir(tangent)
	nn := m.NormalMatrix().MulVec3(normal)
	assert.InDelta(t, 0, tt.Dot(nn), tol)

	// Using the model matrix directly breaks that property.
	bad := m.MulVec3Dir(normal)
	assert.Greater(t, math.Abs(tt.Dot(bad)), 0.1)
}

func TestPerspectiveDivide(t *testing.T) {
	p := V4(2, 4, 6, 2).PerspectiveDivide()
	assertVec3(t, V3(1, 2, 3), p)
}

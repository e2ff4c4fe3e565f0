package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func assertMat(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	for i := range want {
		assert.InDeltaf(t, want[i], got[i], eps, "element %d", i)
	}
}

func TestFrustum(t *testing.T) {
	m, err := Frustum(-1.5, 1.5, -1, 1, 3, 7)
	require.NoError(t, err)

	want := mgl32.Mat4{
		2, 0, 0, 0,
		0, 3, 0, 0,
		0, 0, -2.5, -1,
		0, 0, -10.5, 0,
	}
	assertMat(t, want, m)
}

func TestFrustumDegenerate(t *testing.T) {
	cases := []struct {
		name                                string
		left, right, bottom, top, near, far float32
	}{
		{"zero_width", 1, 1, -1, 1, 3, 7},
		{"zero_height", -1, 1, 2, 2, 3, 7},
		{"zero_depth", -1, 1, -1, 1, 3, 3},
		{"negative_near", -1, 1, -1, 1, -1, 7},
		{"zero_far", -1, 1, -1, 1, 3, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Frustum(c.left, c.right, c.bottom, c.top, c.near, c.far)
			require.ErrorIs(t, err, ErrDegenerateFrustum)
		})
	}
}

func TestLookAtFromBehind(t *testing.T) {
	v := mgl32.LookAtV(mgl32.Vec3{0, 0, -3}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	// Looking down +Z mirrors X and pushes the origin 3 units in front of the eye.
	want := mgl32.Mat4{
		-1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, -1, 0,
		0, 0, -3, 1,
	}
	assertMat(t, want, v)
}

func TestTranslatePostMultiplies(t *testing.T) {
	base, err := Frustum(-1, 1, -2, 2, 3, 7)
	require.NoError(t, err)

	want := base.Mul4(mgl32.Translate3D(0.5, -0.25, 1))
	assertMat(t, want, Translate(base, 0.5, -0.25, 1))
}

func TestRotate(t *testing.T) {
	cases := []struct {
		name    string
		angle   float32
		axis    mgl32.Vec3
		in, out mgl32.Vec4
	}{
		{"z_90", 90, mgl32.Vec3{0, 0, 1}, mgl32.Vec4{1, 0, 0, 1}, mgl32.Vec4{0, 1, 0, 1}},
		{"neg_z_90", 90, mgl32.Vec3{0, 0, -1}, mgl32.Vec4{1, 0, 0, 1}, mgl32.Vec4{0, -1, 0, 1}},
		{"x_180", 180, mgl32.Vec3{1, 0, 0}, mgl32.Vec4{0, 1, 0, 1}, mgl32.Vec4{0, -1, 0, 1}},
		{"unnormalized_axis", 90, mgl32.Vec3{0, 0, 5}, mgl32.Vec4{0, 1, 0, 1}, mgl32.Vec4{-1, 0, 0, 1}},
		{"zero_axis", 45, mgl32.Vec3{}, mgl32.Vec4{1, 2, 3, 1}, mgl32.Vec4{1, 2, 3, 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Rotate(mgl32.Ident4(), c.angle, c.axis).Mul4x1(c.in)
			for i := range got {
				assert.InDeltaf(t, c.out[i], got[i], eps, "component %d", i)
			}
		})
	}
}

func TestScale(t *testing.T) {
	m := Scale(Translate(mgl32.Ident4(), 1, 1, 0), 2, 3, 1)
	p := m.Mul4x1(mgl32.Vec4{1, 1, 0, 1})
	assert.InDelta(t, 3, p[0], eps)
	assert.InDelta(t, 4, p[1], eps)
}

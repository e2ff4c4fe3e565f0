// Package common holds the matrix helpers shared by the camera, mesh and
// renderer. Matrices are mgl32 column-major 4x4s, the layout GL uniforms use.
package common

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrDegenerateFrustum = errors.New("common: degenerate frustum")

// Frustum builds a perspective projection for the given clip planes, rejecting
// planes that would divide by zero or put the eye inside the volume.
func Frustum(left, right, bottom, top, near, far float32) (mgl32.Mat4, error) {
	switch {
	case left == right:
		return mgl32.Mat4{}, errors.Join(ErrDegenerateFrustum, errors.New("left == right"))
	case bottom == top:
		return mgl32.Mat4{}, errors.Join(ErrDegenerateFrustum, errors.New("bottom == top"))
	case near == far:
		return mgl32.Mat4{}, errors.Join(ErrDegenerateFrustum, errors.New("near == far"))
	case near <= 0:
		return mgl32.Mat4{}, errors.Join(ErrDegenerateFrustum, errors.New("near <= 0"))
	case far <= 0:
		return mgl32.Mat4{}, errors.Join(ErrDegenerateFrustum, errors.New("far <= 0"))
	}
	return mgl32.Frustum(left, right, bottom, top, near, far), nil
}

// Translate returns m × T(x, y, z).
func Translate(m mgl32.Mat4, x, y, z float32) mgl32.Mat4 {
	return m.Mul4(mgl32.Translate3D(x, y, z))
}

// Rotate returns m × R, where R turns angleDeg degrees about axis.
// A zero axis leaves m unchanged.
func Rotate(m mgl32.Mat4, angleDeg float32, axis mgl32.Vec3) mgl32.Mat4 {
	if axis.Len() == 0 {
		return m
	}
	return m.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(angleDeg), axis.Normalize()))
}

// Scale returns m × S(x, y, z).
func Scale(m mgl32.Mat4, x, y, z float32) mgl32.Mat4 {
	return m.Mul4(mgl32.Scale3D(x, y, z))
}

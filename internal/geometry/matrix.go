package geometry

import "math"

// Matrix4 is a 4x4 matrix stored column major, element (row r, column c) at index c*4+r
type Matrix4 [16]float64

func IdentityMatrix() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m*o
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	var result Matrix4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * o[c*4+k]
			}
			result[c*4+r] = sum
		}
	}
	return result
}

// Right handed perspective projection with clip space z in [-1, 1]. fovY is in radians.
func NewPerspectiveMatrix(fovY, aspect, near, far float64) Matrix4 {
	f := 1 / math.Tan(fovY/2)
	var m Matrix4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / (near - far)
	m[11] = -1
	m[14] = 2 * far * near / (near - far)
	return m
}

// Right handed view matrix of a camera placed at eye looking at target
func NewLookAtMatrix(eye, target, up Vector3) Matrix4 {
	f := target.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	m := IdentityMatrix()
	m[0], m[4], m[8] = s.X, s.Y, s.Z
	m[1], m[5], m[9] = u.X, u.Y, u.Z
	m[2], m[6], m[10] = -f.X, -f.Y, -f.Z
	m[12] = -s.Dot(eye)
	m[13] = -u.Dot(eye)
	m[14] = f.Dot(eye)
	return m
}

// Builds the frustum of a perspective camera. fovYDegrees is the vertical field of view.
func NewCameraFrustum(eye, target, up Vector3, fovYDegrees, aspect, near, far float64) Frustum {
	projection := NewPerspectiveMatrix(fovYDegrees*math.Pi/180, aspect, near, far)
	view := NewLookAtMatrix(eye, target, up)
	return NewFrustumFromMatrix(projection.Mul(view))
}

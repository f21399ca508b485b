package geometry

// Plane is a half space boundary: points p with Normal·p + D >= 0 are on its inner side
type Plane struct {
	Normal Vector3
	D      float64
}

func NewPlane(a, b, c, d float64) Plane {
	return Plane{Normal: Vector3{a, b, c}, D: d}
}

func (p Plane) SignedDistance(v Vector3) float64 {
	return p.Normal.Dot(v) + p.D
}

// Normalized rescales the plane so that its normal has unit length.
// Degenerate planes (zero normal) are returned unchanged.
func (p Plane) Normalized() Plane {
	l := p.Normal.Length()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Scale(1 / l), D: p.D / l}
}

// Frustum is the visible volume of a viewpoint as six inward facing planes
type Frustum [6]Plane

// ContainsPoint reports whether v is on the inner side of every plane
func (f *Frustum) ContainsPoint(v Vector3) bool {
	for _, plane := range f {
		if plane.SignedDistance(v) < 0 {
			return false
		}
	}
	return true
}

// IntersectsBox is a conservative box test: for every plane the corner furthest along the plane
// normal is checked, and the box is rejected as soon as that corner lies outside.
func (f *Frustum) IntersectsBox(b *BoundingBox) bool {
	for _, plane := range f {
		if plane.SignedDistance(positiveVertex(plane, b)) < 0 {
			return false
		}
	}
	return true
}

func positiveVertex(plane Plane, b *BoundingBox) Vector3 {
	v := b.Min()
	if plane.Normal.X > 0 {
		v.X = b.Xmax
	}
	if plane.Normal.Y > 0 {
		v.Y = b.Ymax
	}
	if plane.Normal.Z > 0 {
		v.Z = b.Zmax
	}
	return v
}

// Extracts the six planes (left, right, bottom, top, near, far) from a view-projection matrix
// and normalizes them
func NewFrustumFromMatrix(m Matrix4) Frustum {
	row := func(r int) [4]float64 {
		return [4]float64{m[r], m[4+r], m[8+r], m[12+r]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	combine := func(a [4]float64, b [4]float64, sign float64) Plane {
		return NewPlane(a[0]+sign*b[0], a[1]+sign*b[1], a[2]+sign*b[2], a[3]+sign*b[3]).Normalized()
	}

	return Frustum{
		combine(r3, r0, 1),
		combine(r3, r0, -1),
		combine(r3, r1, 1),
		combine(r3, r1, -1),
		combine(r3, r2, 1),
		combine(r3, r2, -1),
	}
}

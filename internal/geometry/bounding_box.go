package geometry

import "math"

// BoundingBox is an axis aligned box. The mid values are cached at construction since the octree
// routes every inserted point through them.
type BoundingBox struct {
	Xmin float64
	Xmax float64
	Ymin float64
	Ymax float64
	Zmin float64
	Zmax float64
	Xmid float64
	Ymid float64
	Zmid float64
}

// Builds a new BoundingBox from its extremes, computing the mid values
func NewBoundingBox(xMin, xMax, yMin, yMax, zMin, zMax float64) *BoundingBox {
	return &BoundingBox{
		Xmin: xMin,
		Xmax: xMax,
		Ymin: yMin,
		Ymax: yMax,
		Zmin: zMin,
		Zmax: zMax,
		Xmid: (xMin + xMax) / 2,
		Ymid: (yMin + yMax) / 2,
		Zmid: (zMin + zMax) / 2,
	}
}

func NewBoundingBoxFromCorners(min, max Vector3) *BoundingBox {
	return NewBoundingBox(min.X, max.X, min.Y, max.Y, min.Z, max.Z)
}

// Builds the box of the given octant of the parent box. For every axis whose octant bit is set the
// child keeps the upper half (min replaced by the parent mid), otherwise the lower half.
func NewBoundingBoxFromParent(parent *BoundingBox, octant *uint8) *BoundingBox {
	xMin, xMax := parent.Xmin, parent.Xmid
	yMin, yMax := parent.Ymin, parent.Ymid
	zMin, zMax := parent.Zmin, parent.Zmid
	if *octant&1 != 0 {
		xMin, xMax = parent.Xmid, parent.Xmax
	}
	if *octant&2 != 0 {
		yMin, yMax = parent.Ymid, parent.Ymax
	}
	if *octant&4 != 0 {
		zMin, zMax = parent.Zmid, parent.Zmax
	}
	return NewBoundingBox(xMin, xMax, yMin, yMax, zMin, zMax)
}

func (b *BoundingBox) Min() Vector3 {
	return Vector3{b.Xmin, b.Ymin, b.Zmin}
}

func (b *BoundingBox) Max() Vector3 {
	return Vector3{b.Xmax, b.Ymax, b.Zmax}
}

func (b *BoundingBox) Center() Vector3 {
	return Vector3{b.Xmid, b.Ymid, b.Zmid}
}

// Diagonal returns the length of the segment between the min and max corners
func (b *BoundingBox) Diagonal() float64 {
	return b.Max().Sub(b.Min()).Length()
}

// Returns the 3 bit octant code of the point: bit 0 x > Xmid, bit 1 y > Ymid, bit 2 z > Zmid
func (b *BoundingBox) Octant(p Vector3) uint8 {
	var result uint8 = 0
	if p.X > b.Xmid {
		result |= 1
	}
	if p.Y > b.Ymid {
		result |= 2
	}
	if p.Z > b.Zmid {
		result |= 4
	}
	return result
}

// Contains reports whether the point lies in the box, boundaries included
func (b *BoundingBox) Contains(p Vector3) bool {
	return p.X >= b.Xmin && p.X <= b.Xmax &&
		p.Y >= b.Ymin && p.Y <= b.Ymax &&
		p.Z >= b.Zmin && p.Z <= b.Zmax
}

// Intersects reports whether the two boxes overlap, touching faces included
func (b *BoundingBox) Intersects(o *BoundingBox) bool {
	return !(b.Xmax < o.Xmin || b.Xmin > o.Xmax ||
		b.Ymax < o.Ymin || b.Ymin > o.Ymax ||
		b.Zmax < o.Zmin || b.Zmin > o.Zmax)
}

// ClosestPoint returns the point of the box nearest to p
func (b *BoundingBox) ClosestPoint(p Vector3) Vector3 {
	return p.Clamp(b.Min(), b.Max())
}

// Expand grows the box so that it includes p
func (b *BoundingBox) Expand(p Vector3) {
	b.Xmin = math.Min(b.Xmin, p.X)
	b.Ymin = math.Min(b.Ymin, p.Y)
	b.Zmin = math.Min(b.Zmin, p.Z)
	b.Xmax = math.Max(b.Xmax, p.X)
	b.Ymax = math.Max(b.Ymax, p.Y)
	b.Zmax = math.Max(b.Zmax, p.Z)
	b.Xmid = (b.Xmin + b.Xmax) / 2
	b.Ymid = (b.Ymin + b.Ymax) / 2
	b.Zmid = (b.Zmin + b.Zmax) / 2
}

// Returns the box as [minX, minY, minZ, maxX, maxY, maxZ]
func (b *BoundingBox) GetAsArray() []float64 {
	return []float64{b.Xmin, b.Ymin, b.Zmin, b.Xmax, b.Ymax, b.Zmax}
}

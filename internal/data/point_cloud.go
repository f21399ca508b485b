package data

import (
	"github.com/ecopia-map/cloud_octree/internal/geometry"
)

// PointCloud is an ordered, in memory collection of points with an incrementally maintained
// bounding box. Once handed to a tree it must not be modified until the tree is discarded.
type PointCloud struct {
	points []Point
	bounds *geometry.BoundingBox
}

func NewPointCloud(capacity int) *PointCloud {
	return &PointCloud{
		points: make([]Point, 0, capacity),
	}
}

func (c *PointCloud) AddPoint(point Point) {
	c.points = append(c.points, point)
	if c.bounds == nil {
		c.bounds = geometry.NewBoundingBox(point.X, point.X, point.Y, point.Y, point.Z, point.Z)
		return
	}
	c.bounds.Expand(point.Position())
}

// Append adds all the points of other at the end of the cloud
func (c *PointCloud) Append(other *PointCloud) {
	for i := range other.points {
		c.AddPoint(other.points[i])
	}
}

func (c *PointCloud) Size() int {
	return len(c.points)
}

func (c *PointCloud) IsEmpty() bool {
	return len(c.points) == 0
}

func (c *PointCloud) Point(i int) *Point {
	return &c.points[i]
}

func (c *PointCloud) Position(i int) geometry.Vector3 {
	return c.points[i].Position()
}

// BoundingBox returns a copy of the cloud bounds, a zero box if the cloud is empty
func (c *PointCloud) BoundingBox() *geometry.BoundingBox {
	if c.bounds == nil {
		return geometry.NewBoundingBox(0, 0, 0, 0, 0, 0)
	}
	bounds := *c.bounds
	return &bounds
}

// Subset returns a new cloud holding the points at the given indices, in the given order
func (c *PointCloud) Subset(indices []int) *PointCloud {
	subset := NewPointCloud(len(indices))
	for _, i := range indices {
		subset.AddPoint(c.points[i])
	}
	return subset
}

// Without returns a new cloud holding every point whose index is not listed
func (c *PointCloud) Without(indices []int) *PointCloud {
	excluded := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		excluded[i] = struct{}{}
	}

	capacity := len(c.points) - len(excluded)
	if capacity < 0 {
		capacity = 0
	}

	result := NewPointCloud(capacity)
	for i := range c.points {
		if _, ok := excluded[i]; !ok {
			result.AddPoint(c.points[i])
		}
	}
	return result
}

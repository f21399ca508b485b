package octree

import (
	"github.com/ecopia-map/cloud_octree/internal/geometry"
)

// PointSource is the read-only, fixed size point collection a tree indexes.
// It must stay unmodified for the whole lifetime of any tree built over it.
type PointSource interface {
	Size() int
	Position(i int) geometry.Vector3
	BoundingBox() *geometry.BoundingBox
}

type ITree interface {
	// Builds the tree from the referenced PointSource
	Build()
	IsBuilt() bool
	GetRootNode() INode
	QueryFrustum(frustum *geometry.Frustum) []int
	QueryRadius(center geometry.Vector3, radius float64) []int
	QueryBox(min, max geometry.Vector3) []int
	QueryLOD(viewPosition geometry.Vector3, frustum *geometry.Frustum, baseDistance float64) []int
	GetMaxDepth() int
	GetNodeCount() int
	GetLeafCount() int
}

type INode interface {
	GetBoundingBox() *geometry.BoundingBox
	GetDepth() int
	// Returns the child nodes in octant order, nil slots for absent children
	GetChildren() [8]INode
	GetPointIndices() []int
	NumberOfPoints() int
	IsLeaf() bool
}

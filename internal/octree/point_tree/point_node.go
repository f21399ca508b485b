package point_tree

import (
	"github.com/ecopia-map/cloud_octree/internal/geometry"
	"github.com/ecopia-map/cloud_octree/internal/octree"
)

// Models a node of the octree, which can either be a leaf (a node without children nodes) or not.
// Leaves store the indices of the points falling in their bounding box, internal nodes own exactly
// eight children and store no indices. A node has no reference to its parent nor to the tree.
type PointNode struct {
	boundingBox  *geometry.BoundingBox
	depth        int
	children     [8]*PointNode
	pointIndices []int
}

// buildContext carries what insertion needs to know about the tree being built
type buildContext struct {
	source           octree.PointSource
	maxPointsPerLeaf int
	maxDepth         int
}

// Instantiates a new empty leaf PointNode
func NewPointNode(boundingBox *geometry.BoundingBox, depth int) *PointNode {
	return &PointNode{
		boundingBox: boundingBox,
		depth:       depth,
	}
}

func (n *PointNode) GetBoundingBox() *geometry.BoundingBox {
	return n.boundingBox
}

func (n *PointNode) GetDepth() int {
	return n.depth
}

func (n *PointNode) GetChildren() [8]octree.INode {
	var children [8]octree.INode
	for i, child := range n.children {
		if child != nil {
			children[i] = child
		}
	}
	return children
}

func (n *PointNode) GetPointIndices() []int {
	return n.pointIndices
}

func (n *PointNode) NumberOfPoints() int {
	return len(n.pointIndices)
}

func (n *PointNode) IsLeaf() bool {
	for _, child := range n.children {
		if child != nil {
			return false
		}
	}
	return true
}

// Adds the point index to the node. Full leaves above the maximum depth are subdivided first,
// internal nodes route the point to the child of its octant.
func (n *PointNode) insertPoint(index int, position geometry.Vector3, ctx *buildContext) {
	if n.IsLeaf() {
		if len(n.pointIndices) < ctx.maxPointsPerLeaf || n.depth >= ctx.maxDepth {
			n.pointIndices = append(n.pointIndices, index)
			return
		}
		n.subdivide(ctx)
	}

	n.children[n.boundingBox.Octant(position)].insertPoint(index, position, ctx)
}

// Creates the eight children and moves the indices held by this node into them, preserving order
func (n *PointNode) subdivide(ctx *buildContext) {
	for i := uint8(0); i < 8; i++ {
		n.children[i] = NewPointNode(getOctantBoundingBox(&i, n.boundingBox), n.depth+1)
	}

	indices := n.pointIndices
	n.pointIndices = nil

	for _, index := range indices {
		position := ctx.source.Position(index)
		n.children[n.boundingBox.Octant(position)].insertPoint(index, position, ctx)
	}
}

// Returns a bounding box from the given box and the given octant index
func getOctantBoundingBox(octant *uint8, bbox *geometry.BoundingBox) *geometry.BoundingBox {
	return geometry.NewBoundingBoxFromParent(bbox, octant)
}

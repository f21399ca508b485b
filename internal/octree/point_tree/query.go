package point_tree

import (
	"math"

	"github.com/ecopia-map/cloud_octree/internal/geometry"
)

// Nodes whose diagonal seen from the viewer is below this ratio are decimated by the LOD query
const lodDetailRatio = 0.01

// QueryFrustum returns the indices of the points lying inside all six planes of the frustum
func (tree *PointTree) QueryFrustum(frustum *geometry.Frustum) []int {
	results := make([]int, 0)
	if tree.rootNode != nil {
		results = tree.queryFrustum(tree.rootNode, frustum, results)
	}
	return results
}

func (tree *PointTree) queryFrustum(node *PointNode, frustum *geometry.Frustum, results []int) []int {
	if !frustum.IntersectsBox(node.boundingBox) {
		return results
	}

	if node.IsLeaf() {
		for _, index := range node.pointIndices {
			if frustum.ContainsPoint(tree.source.Position(index)) {
				results = append(results, index)
			}
		}
		return results
	}

	for _, child := range node.children {
		if child != nil {
			results = tree.queryFrustum(child, frustum, results)
		}
	}
	return results
}

// QueryRadius returns the indices of the points whose distance from center is at most radius
func (tree *PointTree) QueryRadius(center geometry.Vector3, radius float64) []int {
	results := make([]int, 0)
	if tree.rootNode != nil {
		results = tree.queryRadius(tree.rootNode, center, radius*radius, results)
	}
	return results
}

func (tree *PointTree) queryRadius(node *PointNode, center geometry.Vector3, radiusSquared float64, results []int) []int {
	closest := node.boundingBox.ClosestPoint(center)
	if center.DistanceSquaredTo(closest) > radiusSquared {
		return results
	}

	if node.IsLeaf() {
		for _, index := range node.pointIndices {
			if tree.source.Position(index).DistanceSquaredTo(center) <= radiusSquared {
				results = append(results, index)
			}
		}
		return results
	}

	for _, child := range node.children {
		if child != nil {
			results = tree.queryRadius(child, center, radiusSquared, results)
		}
	}
	return results
}

// QueryBox returns the indices of the points inside the [min, max] box, boundaries included
func (tree *PointTree) QueryBox(min, max geometry.Vector3) []int {
	results := make([]int, 0)
	if tree.rootNode != nil {
		results = tree.queryBox(tree.rootNode, geometry.NewBoundingBoxFromCorners(min, max), results)
	}
	return results
}

func (tree *PointTree) queryBox(node *PointNode, box *geometry.BoundingBox, results []int) []int {
	if !node.boundingBox.Intersects(box) {
		return results
	}

	if node.IsLeaf() {
		for _, index := range node.pointIndices {
			if box.Contains(tree.source.Position(index)) {
				results = append(results, index)
			}
		}
		return results
	}

	for _, child := range node.children {
		if child != nil {
			results = tree.queryBox(child, box, results)
		}
	}
	return results
}

// QueryLOD returns the points of the nodes intersecting the frustum, decimated as a function of the
// distance between viewPosition and each node. Near leaves are returned in full; nodes that are
// small relative to their distance, or deep in the tree, are sampled every
// max(1, floor(distance/baseDistance)) indices.
func (tree *PointTree) QueryLOD(viewPosition geometry.Vector3, frustum *geometry.Frustum, baseDistance float64) []int {
	results := make([]int, 0)
	if tree.rootNode != nil {
		results = tree.queryLOD(tree.rootNode, viewPosition, frustum, baseDistance, results)
	}
	return results
}

func (tree *PointTree) queryLOD(
	node *PointNode,
	viewPosition geometry.Vector3,
	frustum *geometry.Frustum,
	baseDistance float64,
	results []int,
) []int {
	if !frustum.IntersectsBox(node.boundingBox) {
		return results
	}

	distance := viewPosition.DistanceTo(node.boundingBox.Center())
	size := node.boundingBox.Diagonal()
	ratio := size / distance

	if ratio < lodDetailRatio || node.depth >= tree.lodDepthThreshold() {
		stride := lodStride(distance, baseDistance)
		if node.IsLeaf() || tree.options.DistantNodePolicy == OwnPointsOnly {
			return appendStrided(results, node.pointIndices, stride)
		}
		return tree.sampleSubtree(node, frustum, stride, results)
	}

	if node.IsLeaf() {
		return append(results, node.pointIndices...)
	}

	for _, child := range node.children {
		if child != nil {
			results = tree.queryLOD(child, viewPosition, frustum, baseDistance, results)
		}
	}
	return results
}

// sampleSubtree emits every leaf below node that survives the frustum test, decimated with stride
func (tree *PointTree) sampleSubtree(node *PointNode, frustum *geometry.Frustum, stride int, results []int) []int {
	for _, child := range node.children {
		if child == nil || !frustum.IntersectsBox(child.boundingBox) {
			continue
		}
		if child.IsLeaf() {
			results = appendStrided(results, child.pointIndices, stride)
		} else {
			results = tree.sampleSubtree(child, frustum, stride, results)
		}
	}
	return results
}

func lodStride(distance, baseDistance float64) int {
	if baseDistance <= 0 || math.IsNaN(distance) || math.IsNaN(baseDistance) {
		return 1
	}
	stride := math.Floor(distance / baseDistance)
	if stride < 1 {
		return 1
	}
	if stride > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(stride)
}

// appendStrided appends the indices at positions 0, stride, 2*stride, ...
func appendStrided(results []int, indices []int, stride int) []int {
	for i := 0; i < len(indices); i += stride {
		results = append(results, indices[i])
	}
	return results
}

package point_tree

import (
	"fmt"

	"github.com/ecopia-map/cloud_octree/internal/geometry"
)

// Validate walks the tree and checks its structural invariants: every source index stored in
// exactly one leaf, inside that leaf's box; children tiling their parent at its center; leaf
// capacity respected above the maximum depth. It returns the first violation found.
func (tree *PointTree) Validate() error {
	size := tree.source.Size()
	if tree.rootNode == nil {
		if size != 0 {
			return fmt.Errorf("tree not built over %d points", size)
		}
		return nil
	}

	if tree.rootNode.depth != 0 {
		return fmt.Errorf("root node depth is %d", tree.rootNode.depth)
	}

	seen := make([]bool, size)
	count, err := tree.validateNode(tree.rootNode, seen)
	if err != nil {
		return err
	}
	if count != size {
		return fmt.Errorf("tree holds %d indices, source has %d points", count, size)
	}
	return nil
}

func (tree *PointTree) validateNode(node *PointNode, seen []bool) (int, error) {
	if node.IsLeaf() {
		if node.depth < tree.options.MaxDepth && len(node.pointIndices) > tree.options.MaxPointsPerLeaf {
			return 0, fmt.Errorf("leaf at depth %d holds %d points, capacity is %d",
				node.depth, len(node.pointIndices), tree.options.MaxPointsPerLeaf)
		}
		for _, index := range node.pointIndices {
			if index < 0 || index >= len(seen) {
				return 0, fmt.Errorf("index %d out of range [0, %d)", index, len(seen))
			}
			if seen[index] {
				return 0, fmt.Errorf("index %d stored more than once", index)
			}
			seen[index] = true
			if !node.boundingBox.Contains(tree.source.Position(index)) {
				return 0, fmt.Errorf("point %d lies outside its leaf box %v", index, node.boundingBox.GetAsArray())
			}
		}
		return len(node.pointIndices), nil
	}

	if len(node.pointIndices) != 0 {
		return 0, fmt.Errorf("internal node at depth %d holds %d indices", node.depth, len(node.pointIndices))
	}

	total := 0
	for i := uint8(0); i < 8; i++ {
		child := node.children[i]
		if child == nil {
			return 0, fmt.Errorf("internal node at depth %d misses child %d", node.depth, i)
		}
		if child.depth != node.depth+1 {
			return 0, fmt.Errorf("child %d at depth %d below a node at depth %d", i, child.depth, node.depth)
		}
		expected := geometry.NewBoundingBoxFromParent(node.boundingBox, &i)
		if *expected != *child.boundingBox {
			return 0, fmt.Errorf("child %d box %v does not match octant box %v",
				i, child.boundingBox.GetAsArray(), expected.GetAsArray())
		}

		count, err := tree.validateNode(child, seen)
		if err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

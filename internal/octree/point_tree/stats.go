package point_tree

// Statistics summarizes the shape of a tree
type Statistics struct {
	NodeCount int `json:"node_count"`
	LeafCount int `json:"leaf_count"`
	MaxDepth  int `json:"max_depth"`
}

// Statistics walks the whole tree once. Nothing is cached: each call reflects the current tree.
func (tree *PointTree) Statistics() Statistics {
	var stats Statistics
	if tree.rootNode != nil {
		countNodes(tree.rootNode, &stats)
	}
	return stats
}

func (tree *PointTree) GetMaxDepth() int {
	return tree.Statistics().MaxDepth
}

func (tree *PointTree) GetNodeCount() int {
	return tree.Statistics().NodeCount
}

func (tree *PointTree) GetLeafCount() int {
	return tree.Statistics().LeafCount
}

func countNodes(node *PointNode, stats *Statistics) {
	stats.NodeCount++
	if node.depth > stats.MaxDepth {
		stats.MaxDepth = node.depth
	}

	if node.IsLeaf() {
		stats.LeafCount++
		return
	}

	for _, child := range node.children {
		if child != nil {
			countNodes(child, stats)
		}
	}
}

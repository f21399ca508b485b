package point_tree

import (
	"github.com/ecopia-map/cloud_octree/internal/octree"
	"github.com/golang/glog"
)

const (
	DefaultMaxPointsPerLeaf = 100
	DefaultMaxDepth         = 10
)

// DistantNodePolicy selects what the LOD query emits for an internal node classified as distant
type DistantNodePolicy int

const (
	// The distant node decimates every leaf below it, using the stride computed at the distant node
	SampleSubtree DistantNodePolicy = iota
	// The distant node emits only its own index list, which is empty for internal nodes
	OwnPointsOnly
)

type Options struct {
	MaxPointsPerLeaf  int               `json:"max_points_per_leaf"`
	MaxDepth          int               `json:"max_depth"`
	DistantNodePolicy DistantNodePolicy `json:"distant_node_policy"`
}

func DefaultOptions() Options {
	return Options{
		MaxPointsPerLeaf:  DefaultMaxPointsPerLeaf,
		MaxDepth:          DefaultMaxDepth,
		DistantNodePolicy: SampleSubtree,
	}
}

// PointTree is an octree over the indices of a PointSource. It references the source without
// owning it: the source must outlive the tree and must not change while the tree is in use.
type PointTree struct {
	source   octree.PointSource
	options  Options
	rootNode *PointNode
}

// Builds an empty PointTree. Non positive capacity or depth settings fall back to the defaults.
func NewPointTree(source octree.PointSource, options Options) *PointTree {
	if options.MaxPointsPerLeaf <= 0 {
		options.MaxPointsPerLeaf = DefaultMaxPointsPerLeaf
	}
	if options.MaxDepth <= 0 {
		options.MaxDepth = DefaultMaxDepth
	}

	return &PointTree{
		source:  source,
		options: options,
	}
}

// Build indexes every point of the source in increasing index order. An empty source leaves the
// tree empty. Calling Build again discards the current nodes and rebuilds them; it must not run
// concurrently with queries.
func (tree *PointTree) Build() {
	tree.rootNode = nil

	size := tree.source.Size()
	if size == 0 {
		glog.V(1).Infoln("empty point source, nothing to index")
		return
	}

	box := tree.source.BoundingBox()
	glog.V(1).Infof("building tree. points:[%d] box(minX,minY,minZ,maxX,maxY,maxZ):%v", size, box.GetAsArray())

	ctx := &buildContext{
		source:           tree.source,
		maxPointsPerLeaf: tree.options.MaxPointsPerLeaf,
		maxDepth:         tree.options.MaxDepth,
	}

	root := NewPointNode(box, 0)
	for i := 0; i < size; i++ {
		root.insertPoint(i, tree.source.Position(i), ctx)
	}
	tree.rootNode = root
}

func (tree *PointTree) IsBuilt() bool {
	return tree.rootNode != nil
}

func (tree *PointTree) GetRootNode() octree.INode {
	if tree.rootNode == nil {
		return nil
	}
	return tree.rootNode
}

func (tree *PointTree) GetOptions() Options {
	return tree.options
}

// lodDepthThreshold is the depth from which the LOD query treats every node as distant
func (tree *PointTree) lodDepthThreshold() int {
	return tree.options.MaxDepth / 2
}

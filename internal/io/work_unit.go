package io

import (
	"github.com/ecopia-map/cloud_octree/internal/data"
	"github.com/ecopia-map/cloud_octree/internal/octree"
)

// Contains the minimal data needed to export a single leaf, i.e. a content file and a node.json file
type WorkUnit struct {
	Node     octree.INode
	Cloud    *data.PointCloud
	BasePath string
}

package io

import (
	"path"
	"strconv"
	"sync"

	"github.com/ecopia-map/cloud_octree/internal/data"
	"github.com/ecopia-map/cloud_octree/internal/octree"
)

type StandardProducer struct {
	basePath string
	cloud    *data.PointCloud
}

func NewStandardProducer(basepath string, subfolder string, cloud *data.PointCloud) Producer {
	return &StandardProducer{
		basePath: path.Join(basepath, subfolder),
		cloud:    cloud,
	}
}

// Parses a tree node and submits WorkUnits the the provided workchannel. Should be called only on the tree root node.
// Closes the channel when all work is submitted.
func (p *StandardProducer) Produce(work chan *WorkUnit, wg *sync.WaitGroup, node octree.INode) {
	if node != nil {
		p.produce(p.basePath, node, work)
	}
	close(work)
	wg.Done()
}

// Submits a WorkUnit for every non empty leaf below node. The folder of a node is the one of its
// parent joined with its octant index.
func (p *StandardProducer) produce(basePath string, node octree.INode, work chan *WorkUnit) {
	if node.IsLeaf() {
		if node.NumberOfPoints() > 0 {
			work <- &WorkUnit{
				Node:     node,
				Cloud:    p.cloud,
				BasePath: basePath,
			}
		}
		return
	}

	for i, child := range node.GetChildren() {
		if child != nil {
			p.produce(path.Join(basePath, strconv.Itoa(i)), child, work)
		}
	}
}

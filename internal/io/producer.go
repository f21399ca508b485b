package io

import (
	"sync"

	"github.com/ecopia-map/cloud_octree/internal/octree"
)

type Producer interface {
	Produce(work chan *WorkUnit, wg *sync.WaitGroup, node octree.INode)
}

package io

import (
	"encoding/json"
	"io/ioutil"
	"path"
	"sync"

	"github.com/ecopia-map/cloud_octree/internal/indexer"
	"github.com/ecopia-map/cloud_octree/tools"
	"github.com/golang/glog"
)

type StandardConsumer struct {
	format    indexer.OutputFormat
	precision int32
}

func NewStandardConsumer(format indexer.OutputFormat, precision int32) *StandardConsumer {
	return &StandardConsumer{
		format:    format,
		precision: precision,
	}
}

// NodeInfo is the content of the node.json file written next to every exported leaf
type NodeInfo struct {
	Depth       int       `json:"depth"`
	Points      int       `json:"points"`
	BoundingBox []float64 `json:"bounding_box"`
	Offset      []float64 `json:"offset,omitempty"`
	Content     string    `json:"content"`
}

// Continually consumes WorkUnits submitted to a work channel producing the corresponding content and
// node.json files. After the first error, which is sent to the error channel, the remaining work is
// drained without being processed so that the producer never blocks.
func (c *StandardConsumer) Consume(workchan chan *WorkUnit, errchan chan error, waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()

	failed := false
	for work := range workchan {
		if failed {
			continue
		}

		if err := c.doWork(work); err != nil {
			glog.Errorf("export of %s failed: %v", work.BasePath, err)
			errchan <- err
			failed = true
		}
	}
}

// Takes a workunit and writes the corresponding content and node.json files
func (c *StandardConsumer) doWork(workUnit *WorkUnit) error {
	parentFolder := workUnit.BasePath
	node := workUnit.Node

	// Create base folder if it does not exist
	if err := tools.CreateDirectoryIfDoesNotExist(parentFolder); err != nil {
		return err
	}

	indices := node.GetPointIndices()
	info := NodeInfo{
		Depth:       node.GetDepth(),
		Points:      len(indices),
		BoundingBox: node.GetBoundingBox().GetAsArray(),
	}

	// PLY positions are float32, expressed relative to the average position of the leaf
	var err error
	switch c.format {
	case indexer.OutputFormatXyz:
		info.Content = "content.xyz"
		err = WriteXyz(path.Join(parentFolder, info.Content), workUnit.Cloud, indices, c.precision)
	case indexer.OutputFormatPcd:
		info.Content = "content.pcd"
		err = WritePcd(path.Join(parentFolder, info.Content), workUnit.Cloud, indices, c.precision)
	default:
		info.Content = "content.ply"
		offset := ComputeAverageXYZ(workUnit.Cloud, indices)
		info.Offset = []float64{offset.X, offset.Y, offset.Z}
		err = WritePly(path.Join(parentFolder, info.Content), workUnit.Cloud, indices, offset)
	}
	if err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(info, "", "\t")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path.Join(parentFolder, "node.json"), jsonData, 0666)
}

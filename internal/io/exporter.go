package io

import (
	"errors"
	"runtime"
	"sync"

	"github.com/ecopia-map/cloud_octree/internal/data"
	"github.com/ecopia-map/cloud_octree/internal/indexer"
	"github.com/ecopia-map/cloud_octree/internal/octree"
	"github.com/golang/glog"
)

// ExportLeaves writes every non empty leaf of the built tree below outputPath/subfolder, one folder
// per node. A producer walks the tree while one consumer per CPU writes the files.
func ExportLeaves(tree octree.ITree, cloud *data.PointCloud, opts *indexer.IndexerOptions, subfolder string) error {
	// if octree is not built, exit
	if !tree.IsBuilt() {
		return errors.New("octree not built, data structure not initialized")
	}

	indexOpts := opts.IndexCommandOptions
	if indexOpts == nil {
		return errors.New("missing index command options")
	}

	// a consumer goroutine per CPU
	numConsumers := runtime.NumCPU()

	// init channel where to submit work with a buffer 5 times greater than the number of consumer
	workChannel := make(chan *WorkUnit, numConsumers*5)

	// every consumer sends at most one error
	errorChannel := make(chan error, numConsumers)

	var waitGroup sync.WaitGroup

	// add producer to waitgroup and launch producer goroutine
	waitGroup.Add(1)
	producer := NewStandardProducer(indexOpts.Output, subfolder, cloud)
	go producer.Produce(workChannel, &waitGroup, tree.GetRootNode())

	// add consumers to waitgroup and launch them
	for i := 0; i < numConsumers; i++ {
		waitGroup.Add(1)
		consumer := NewStandardConsumer(indexOpts.Format, indexOpts.Precision)
		go consumer.Consume(workChannel, errorChannel, &waitGroup)
	}

	// wait for producers and consumers to finish
	waitGroup.Wait()
	close(errorChannel)

	// find if there are errors in the error channel buffer
	withErrors := false
	for err := range errorChannel {
		glog.Errorln(err)
		withErrors = true
	}
	if withErrors {
		return errors.New("errors raised during export. Check log output for details")
	}

	return nil
}

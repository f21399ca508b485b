package pkg

import (
	"errors"
	"time"

	"github.com/ecopia-map/cloud_octree/internal/data"
	"github.com/ecopia-map/cloud_octree/internal/geometry"
	"github.com/ecopia-map/cloud_octree/internal/indexer"
	"github.com/ecopia-map/cloud_octree/internal/octree/point_tree"
	"github.com/ecopia-map/cloud_octree/internal/point_loader"
	"github.com/ecopia-map/cloud_octree/pkg/algorithm_manager"
	"github.com/ecopia-map/cloud_octree/tools"
	"github.com/golang/glog"
)

// Returns the list of point files the command works on
func listPointFiles(fileFinder tools.FileFinder, opts *indexer.IndexerOptions) ([]string, error) {
	glog.Infoln("Preparing list of files to process...")

	pointFiles, err := fileFinder.GetPointFilesToProcess(opts)
	if err != nil {
		return nil, err
	}
	if len(pointFiles) == 0 {
		return nil, errors.New("no point file found in " + opts.Input)
	}

	for i, filePath := range pointFiles {
		glog.Infof("point_file path %d [%s]", i+1, filePath)
	}
	return pointFiles, nil
}

// Reads the given files in a single cloud and runs the filter pipeline over it
func loadPoints(filePaths []string, algorithmManager algorithm_manager.AlgorithmManager, opts *indexer.IndexerOptions) (*data.PointCloud, error) {
	tools.LogOutput("> reading data from point files...")
	defer tools.TimeTrack(time.Now(), "loading")

	loader := point_loader.NewPointLoader(
		algorithmManager.GetCoordinateConverterAlgorithm(),
		algorithmManager.GetElevationCorrectionAlgorithm(),
		point_loader.Options{
			Srid:           opts.Srid,
			TargetSrid:     targetSrid(opts),
			EightBitColors: opts.EightBitColors,
		},
	)

	cloud, err := loader.LoadFiles(filePaths)
	if err != nil {
		return nil, err
	}
	glog.Infof("loaded %d points, box(minX,minY,minZ,maxX,maxY,maxZ):%v", cloud.Size(), cloud.BoundingBox().GetAsArray())

	return algorithmManager.GetFilterPipeline().Apply(cloud)
}

// Builds the tree hierarchical structure over the cloud and logs its shape
func buildTree(algorithmManager algorithm_manager.AlgorithmManager, cloud *data.PointCloud) *point_tree.PointTree {
	tools.LogOutput("> building data structure...")
	defer tools.TimeTrack(time.Now(), "building")

	tree := algorithmManager.GetTreeAlgorithm(cloud)
	tree.Build()

	glog.Infoln("tree statistics:", tools.FmtJSONString(tree.Statistics()))
	return tree
}

func targetSrid(opts *indexer.IndexerOptions) int {
	if opts.TargetSrid == 0 {
		return opts.Srid
	}
	return opts.TargetSrid
}

func toVector3(v [3]float64) geometry.Vector3 {
	return geometry.NewVector3(v[0], v[1], v[2])
}

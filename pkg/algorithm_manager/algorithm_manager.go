package algorithm_manager

import (
	"github.com/ecopia-map/cloud_octree/internal/converters"
	"github.com/ecopia-map/cloud_octree/internal/filters"
	"github.com/ecopia-map/cloud_octree/internal/octree"
	"github.com/ecopia-map/cloud_octree/internal/octree/point_tree"
)

type AlgorithmManager interface {
	GetElevationCorrectionAlgorithm() converters.ElevationCorrector
	GetTreeAlgorithm(source octree.PointSource) *point_tree.PointTree
	GetCoordinateConverterAlgorithm() converters.CoordinateConverter
	GetFilterPipeline() *filters.Pipeline
}

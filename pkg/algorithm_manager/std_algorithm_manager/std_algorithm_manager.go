package std_algorithm_manager

import (
	"github.com/ecopia-map/cloud_octree/internal/converters"
	"github.com/ecopia-map/cloud_octree/internal/converters/elevation/offset_elevation_corrector"
	"github.com/ecopia-map/cloud_octree/internal/converters/proj4_coordinate_converter"
	"github.com/ecopia-map/cloud_octree/internal/filters"
	"github.com/ecopia-map/cloud_octree/internal/indexer"
	"github.com/ecopia-map/cloud_octree/internal/octree"
	"github.com/ecopia-map/cloud_octree/internal/octree/point_tree"
	"github.com/ecopia-map/cloud_octree/pkg/algorithm_manager"
)

type StandardAlgorithmManager struct {
	options             *indexer.IndexerOptions
	coordinateConverter converters.CoordinateConverter
	elevationCorrector  converters.ElevationCorrector
}

func NewAlgorithmManager(opts *indexer.IndexerOptions) algorithm_manager.AlgorithmManager {
	return &StandardAlgorithmManager{
		options:             opts,
		coordinateConverter: proj4_coordinate_converter.NewProj4CoordinateConverter(),
		elevationCorrector:  offset_elevation_corrector.NewOffsetElevationCorrector(opts.ZOffset),
	}
}

func (m *StandardAlgorithmManager) GetElevationCorrectionAlgorithm() converters.ElevationCorrector {
	return m.elevationCorrector
}

func (m *StandardAlgorithmManager) GetCoordinateConverterAlgorithm() converters.CoordinateConverter {
	return m.coordinateConverter
}

// Returns a new, not yet built, tree over source shaped by the options
func (m *StandardAlgorithmManager) GetTreeAlgorithm(source octree.PointSource) *point_tree.PointTree {
	return point_tree.NewPointTree(source, TreeOptions(m.options))
}

// Returns the filters enabled by the options in the order outlier removal by radius, statistical
// outlier removal, voxel downsampling
func (m *StandardAlgorithmManager) GetFilterPipeline() *filters.Pipeline {
	pipeline := filters.NewPipeline()
	treeOptions := TreeOptions(m.options)

	if m.options.OutlierRadius > 0 {
		pipeline.Add(&filters.RadiusOutlierRemoval{
			Radius:       m.options.OutlierRadius,
			MinNeighbors: m.options.OutlierMinNeighbors,
			TreeOptions:  treeOptions,
		})
	}

	if m.options.StatisticalK > 0 {
		pipeline.Add(&filters.StatisticalOutlierRemoval{
			KNeighbors:    m.options.StatisticalK,
			StdMultiplier: m.options.StatisticalStdMul,
			TreeOptions:   treeOptions,
		})
	}

	if m.options.VoxelSize > 0 {
		pipeline.Add(filters.NewVoxelDownsample(m.options.VoxelSize))
	}

	return pipeline
}

func TreeOptions(opts *indexer.IndexerOptions) point_tree.Options {
	treeOptions := point_tree.Options{
		MaxPointsPerLeaf:  opts.MaxPointsPerLeaf,
		MaxDepth:          opts.MaxDepth,
		DistantNodePolicy: point_tree.SampleSubtree,
	}
	if opts.LODPolicy == indexer.LODPolicyOwn {
		treeOptions.DistantNodePolicy = point_tree.OwnPointsOnly
	}
	return treeOptions
}

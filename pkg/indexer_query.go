package pkg

import (
	"errors"
	"fmt"

	"github.com/ecopia-map/cloud_octree/internal/geometry"
	"github.com/ecopia-map/cloud_octree/internal/indexer"
	"github.com/ecopia-map/cloud_octree/internal/io"
	"github.com/ecopia-map/cloud_octree/internal/octree"
	"github.com/ecopia-map/cloud_octree/pkg/algorithm_manager"
	"github.com/ecopia-map/cloud_octree/tools"
	"github.com/golang/glog"
)

type IndexerQuery struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewIndexerQuery(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) indexer.IIndexer {
	return &IndexerQuery{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

// Indexes all the input files in a single tree, runs the requested query and writes the selected
// points to the output file
func (indexerQuery *IndexerQuery) Run(opts *indexer.IndexerOptions) error {
	defer indexerQuery.algorithmManager.GetCoordinateConverterAlgorithm().Cleanup()

	queryOpts := opts.QueryCommandOptions
	if queryOpts == nil {
		return errors.New("missing query command options")
	}

	pointFiles, err := listPointFiles(indexerQuery.fileFinder, opts)
	if err != nil {
		return err
	}

	cloud, err := loadPoints(pointFiles, indexerQuery.algorithmManager, opts)
	if err != nil {
		return err
	}

	tree := buildTree(indexerQuery.algorithmManager, cloud)

	indices, err := RunQuery(tree, queryOpts)
	if err != nil {
		return err
	}
	tools.LogOutput(fmt.Sprintf("> %s query selected %d of %d points", queryOpts.Kind, len(indices), cloud.Size()))

	if queryOpts.Output == "" {
		return nil
	}

	offset := geometry.Vector3{}
	if queryOpts.Format == indexer.OutputFormatPly {
		offset = io.ComputeAverageXYZ(cloud, indices)
		glog.Infof("ply positions are relative to offset [%f, %f, %f]", offset.X, offset.Y, offset.Z)
	}

	output := tools.ResolvePath(queryOpts.Output)
	if err := io.WritePoints(output, cloud, indices, queryOpts.Format, queryOpts.Precision, offset); err != nil {
		return err
	}
	tools.LogOutput("> points written to", output)
	return nil
}

// RunQuery runs the query described by the options against a built tree
func RunQuery(tree octree.ITree, queryOpts *indexer.QueryCommandOptions) ([]int, error) {
	switch queryOpts.Kind {
	case indexer.QueryBox:
		min, max := toVector3(queryOpts.Min), toVector3(queryOpts.Max)
		return tree.QueryBox(min, max), nil

	case indexer.QueryRadius:
		if queryOpts.Radius < 0 {
			return nil, errors.New("radius cannot be negative")
		}
		return tree.QueryRadius(toVector3(queryOpts.Center), queryOpts.Radius), nil

	case indexer.QueryFrustum:
		frustum, err := BuildFrustum(queryOpts)
		if err != nil {
			return nil, err
		}
		return tree.QueryFrustum(&frustum), nil

	case indexer.QueryLOD:
		frustum, err := BuildFrustum(queryOpts)
		if err != nil {
			return nil, err
		}
		view := toVector3(queryOpts.Eye)
		if queryOpts.HasView {
			view = toVector3(queryOpts.ViewPoint)
		}
		return tree.QueryLOD(view, &frustum, queryOpts.BaseDist), nil
	}

	return nil, fmt.Errorf("unsupported query kind [%s]", queryOpts.Kind)
}

// BuildFrustum returns the six explicit planes of the options, normalized, or the frustum of the camera
// they describe when no plane is given
func BuildFrustum(queryOpts *indexer.QueryCommandOptions) (geometry.Frustum, error) {
	var frustum geometry.Frustum

	if len(queryOpts.Planes) > 0 {
		if len(queryOpts.Planes) != len(frustum) {
			return frustum, fmt.Errorf("a frustum needs %d planes, %d given", len(frustum), len(queryOpts.Planes))
		}
		for i, p := range queryOpts.Planes {
			frustum[i] = geometry.NewPlane(p[0], p[1], p[2], p[3]).Normalized()
		}
		return frustum, nil
	}

	if queryOpts.Fov <= 0 || queryOpts.Fov >= 180 {
		return frustum, fmt.Errorf("field of view must be in (0, 180) degrees, got %f", queryOpts.Fov)
	}
	if queryOpts.Aspect <= 0 {
		return frustum, fmt.Errorf("aspect ratio must be positive, got %f", queryOpts.Aspect)
	}
	if queryOpts.Near <= 0 || queryOpts.Far <= queryOpts.Near {
		return frustum, fmt.Errorf("planes must satisfy 0 < near < far, got near %f far %f", queryOpts.Near, queryOpts.Far)
	}

	eye, target, up := toVector3(queryOpts.Eye), toVector3(queryOpts.Target), toVector3(queryOpts.Up)
	direction := target.Sub(eye)
	if tools.IsFloatEqual(direction.Length(), 0) {
		return frustum, errors.New("camera eye and target cannot coincide")
	}
	if tools.IsFloatEqual(direction.Normalize().Cross(up.Normalize()).Length(), 0) {
		return frustum, errors.New("camera up direction cannot be parallel to the view direction")
	}

	return geometry.NewCameraFrustum(eye, target, up, queryOpts.Fov, queryOpts.Aspect, queryOpts.Near, queryOpts.Far), nil
}

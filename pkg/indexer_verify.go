package pkg

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/ecopia-map/cloud_octree/internal/geometry"
	"github.com/ecopia-map/cloud_octree/internal/indexer"
	"github.com/ecopia-map/cloud_octree/internal/octree"
	"github.com/ecopia-map/cloud_octree/internal/octree/point_tree"
	"github.com/ecopia-map/cloud_octree/pkg/algorithm_manager"
	"github.com/ecopia-map/cloud_octree/tools"
	"github.com/golang/glog"
)

type IndexerVerify struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewIndexerVerify(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) indexer.IIndexer {
	return &IndexerVerify{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

type VerifyReport struct {
	Statistics     point_tree.Statistics `json:"statistics"`
	BoxQueries     int                   `json:"box_queries"`
	RadiusQueries  int                   `json:"radius_queries"`
	FrustumQueries int                   `json:"frustum_queries"`
	Mismatches     int                   `json:"mismatches"`
}

// Indexes all the input files in a single tree, checks its invariants and cross checks random queries
// against a linear scan of the points
func (indexerVerify *IndexerVerify) Run(opts *indexer.IndexerOptions) error {
	defer indexerVerify.algorithmManager.GetCoordinateConverterAlgorithm().Cleanup()

	verifyOpts := opts.VerifyCommandOptions
	if verifyOpts == nil {
		return errors.New("missing verify command options")
	}

	pointFiles, err := listPointFiles(indexerVerify.fileFinder, opts)
	if err != nil {
		return err
	}

	cloud, err := loadPoints(pointFiles, indexerVerify.algorithmManager, opts)
	if err != nil {
		return err
	}

	tree := buildTree(indexerVerify.algorithmManager, cloud)

	tools.LogOutput("> verifying tree...")
	report, err := VerifyTree(tree, cloud, verifyOpts.Queries, verifyOpts.Seed)
	glog.Infoln("verify report:", tools.FmtJSONString(report))
	if err != nil {
		return err
	}

	tools.LogOutput("> tree verified")
	return nil
}

// VerifyTree validates the structure of a built tree, then runs random box and radius queries around
// the source bounds, every box being also queried as a six plane frustum. Every result must match a
// linear scan of the source. An error is returned on the first structural violation or
// if any query mismatches.
func VerifyTree(tree *point_tree.PointTree, source octree.PointSource, queries int, seed int64) (VerifyReport, error) {
	report := VerifyReport{Statistics: tree.Statistics()}

	if err := tree.Validate(); err != nil {
		return report, fmt.Errorf("invalid tree: %w", err)
	}
	if source.Size() == 0 {
		return report, nil
	}

	rnd := rand.New(rand.NewSource(seed))
	bounds := source.BoundingBox()
	extent := bounds.Max().Sub(bounds.Min())
	margin := extent.Scale(0.1)
	low, high := bounds.Min().Sub(margin), bounds.Max().Add(margin)

	randomPoint := func() geometry.Vector3 {
		return geometry.NewVector3(
			low.X+rnd.Float64()*(high.X-low.X),
			low.Y+rnd.Float64()*(high.Y-low.Y),
			low.Z+rnd.Float64()*(high.Z-low.Z),
		)
	}

	for q := 0; q < queries; q++ {
		a, b := randomPoint(), randomPoint()
		min, max := a.Min(b), a.Max(b)
		box := geometry.NewBoundingBoxFromCorners(min, max)

		expected := linearScan(source, box.Contains)
		if !sameIndices(expected, tree.QueryBox(min, max)) {
			glog.Errorf("box query %v mismatch", box.GetAsArray())
			report.Mismatches++
		}
		report.BoxQueries++

		frustum := boxFrustum(box)
		if !sameIndices(expected, tree.QueryFrustum(&frustum)) {
			glog.Errorf("frustum query %v mismatch", box.GetAsArray())
			report.Mismatches++
		}
		report.FrustumQueries++

		center := randomPoint()
		radius := rnd.Float64() * extent.Length() / 4
		expected = linearScan(source, func(p geometry.Vector3) bool {
			return p.DistanceSquaredTo(center) <= radius*radius
		})
		if !sameIndices(expected, tree.QueryRadius(center, radius)) {
			glog.Errorf("radius query %v r=%f mismatch", center, radius)
			report.Mismatches++
		}
		report.RadiusQueries++
	}

	if report.Mismatches > 0 {
		return report, fmt.Errorf("%d queries do not match a linear scan", report.Mismatches)
	}
	return report, nil
}

// boxFrustum returns the six planes bounding box, facing inward
func boxFrustum(box *geometry.BoundingBox) geometry.Frustum {
	return geometry.Frustum{
		geometry.NewPlane(1, 0, 0, -box.Xmin),
		geometry.NewPlane(-1, 0, 0, box.Xmax),
		geometry.NewPlane(0, 1, 0, -box.Ymin),
		geometry.NewPlane(0, -1, 0, box.Ymax),
		geometry.NewPlane(0, 0, 1, -box.Zmin),
		geometry.NewPlane(0, 0, -1, box.Zmax),
	}
}

func linearScan(source octree.PointSource, accept func(geometry.Vector3) bool) []int {
	result := make([]int, 0)
	for i := 0; i < source.Size(); i++ {
		if accept(source.Position(i)) {
			result = append(result, i)
		}
	}
	return result
}

// sameIndices compares a sorted expected list with a query result, which must hold no duplicate
func sameIndices(expected []int, actual []int) bool {
	if len(expected) != len(actual) {
		return false
	}
	sorted := append([]int(nil), actual...)
	sort.Ints(sorted)
	for i := range sorted {
		if sorted[i] != expected[i] {
			return false
		}
	}
	return true
}

package filters

import (
	"errors"
	"math"
	"sort"

	"github.com/ecopia-map/cloud_octree/internal/data"
	"github.com/ecopia-map/cloud_octree/internal/octree/point_tree"
	"github.com/golang/glog"
)

// RadiusOutlierRemoval drops the points having fewer than MinNeighbors other points within Radius
type RadiusOutlierRemoval struct {
	Radius       float64
	MinNeighbors int
	TreeOptions  point_tree.Options
}

func NewRadiusOutlierRemoval(radius float64, minNeighbors int) Filter {
	return &RadiusOutlierRemoval{
		Radius:       radius,
		MinNeighbors: minNeighbors,
		TreeOptions:  point_tree.DefaultOptions(),
	}
}

func (f *RadiusOutlierRemoval) Name() string {
	return "radius-outlier-removal"
}

func (f *RadiusOutlierRemoval) Apply(cloud *data.PointCloud) (*data.PointCloud, error) {
	if f.Radius < 0 {
		return nil, errors.New("outlier radius cannot be negative")
	}
	return cloud.Without(FindRadiusOutliers(cloud, f.Radius, f.MinNeighbors, f.TreeOptions)), nil
}

// FindRadiusOutliers returns, in increasing order, the indices of the points with fewer than
// minNeighbors other points at a distance of at most radius
func FindRadiusOutliers(cloud *data.PointCloud, radius float64, minNeighbors int, treeOptions point_tree.Options) []int {
	outliers := make([]int, 0)
	if cloud.IsEmpty() || minNeighbors <= 0 {
		return outliers
	}

	tree := point_tree.NewPointTree(cloud, treeOptions)
	tree.Build()

	for i := 0; i < cloud.Size(); i++ {
		// the point itself is always part of the result
		neighbors := len(tree.QueryRadius(cloud.Position(i), radius)) - 1
		if neighbors < minNeighbors {
			outliers = append(outliers, i)
		}
	}
	glog.V(1).Infof("radius outliers: %d of %d points", len(outliers), cloud.Size())
	return outliers
}

// StatisticalOutlierRemoval drops the points whose mean distance to their KNeighbors nearest
// neighbors exceeds the global mean of that distance by more than StdMultiplier standard deviations
type StatisticalOutlierRemoval struct {
	KNeighbors    int
	StdMultiplier float64
	TreeOptions   point_tree.Options
}

func NewStatisticalOutlierRemoval(kNeighbors int, stdMultiplier float64) Filter {
	return &StatisticalOutlierRemoval{
		KNeighbors:    kNeighbors,
		StdMultiplier: stdMultiplier,
		TreeOptions:   point_tree.DefaultOptions(),
	}
}

func (f *StatisticalOutlierRemoval) Name() string {
	return "statistical-outlier-removal"
}

func (f *StatisticalOutlierRemoval) Apply(cloud *data.PointCloud) (*data.PointCloud, error) {
	if f.KNeighbors <= 0 {
		return nil, errors.New("the number of neighbors must be positive")
	}
	return cloud.Without(FindStatisticalOutliers(cloud, f.KNeighbors, f.StdMultiplier, f.TreeOptions)), nil
}

// FindStatisticalOutliers returns, in increasing order, the indices of the statistical outliers
func FindStatisticalOutliers(cloud *data.PointCloud, k int, stdMultiplier float64, treeOptions point_tree.Options) []int {
	outliers := make([]int, 0)
	if cloud.Size() < 2 || k <= 0 {
		return outliers
	}

	distances := MeanNeighborDistances(cloud, k, treeOptions)
	mean, stddev := meanStdDev(distances)
	threshold := mean + stdMultiplier*stddev

	for i, distance := range distances {
		if distance > threshold {
			outliers = append(outliers, i)
		}
	}
	glog.V(1).Infof("statistical outliers: %d of %d points, threshold %f", len(outliers), cloud.Size(), threshold)
	return outliers
}

// MeanNeighborDistances returns for every point the mean distance to its k nearest other points, or to
// all the other points when the cloud has fewer than k+1 points. Neighbors are searched with radius
// queries whose radius doubles until k neighbors are found or the whole cloud is covered.
func MeanNeighborDistances(cloud *data.PointCloud, k int, treeOptions point_tree.Options) []float64 {
	size := cloud.Size()
	result := make([]float64, size)
	if size < 2 {
		return result
	}

	tree := point_tree.NewPointTree(cloud, treeOptions)
	tree.Build()

	wanted := k
	if wanted > size-1 {
		wanted = size - 1
	}

	diagonal := cloud.BoundingBox().Diagonal()
	initialRadius := diagonal / math.Cbrt(float64(size))

	distances := make([]float64, 0, 2*wanted)
	for i := 0; i < size; i++ {
		position := cloud.Position(i)
		radius := initialRadius
		for {
			distances = distances[:0]
			for _, index := range tree.QueryRadius(position, radius) {
				if index != i {
					distances = append(distances, position.DistanceTo(cloud.Position(index)))
				}
			}
			if len(distances) >= wanted || radius >= diagonal {
				break
			}
			radius *= 2
		}

		sort.Float64s(distances)
		count := wanted
		if count > len(distances) {
			count = len(distances)
		}
		var sum float64
		for _, distance := range distances[:count] {
			sum += distance
		}
		if count > 0 {
			result[i] = sum / float64(count)
		}
	}
	return result
}

func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	var sum float64
	for _, value := range values {
		sum += value
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, value := range values {
		diff := value - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

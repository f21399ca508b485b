package filters

import (
	"math"

	"github.com/ecopia-map/cloud_octree/internal/data"
)

type voxelKey struct {
	x, y, z int64
}

// voxel accumulates the points falling in one grid cell
type voxel struct {
	sumX, sumY, sumZ float64
	sumR, sumG, sumB float64
	sumIntensity     float64
	classification   uint8
	count            int
}

func (v *voxel) add(p *data.Point) {
	if v.count == 0 {
		v.classification = p.Classification
	}
	v.sumX += p.X
	v.sumY += p.Y
	v.sumZ += p.Z
	v.sumR += float64(p.R)
	v.sumG += float64(p.G)
	v.sumB += float64(p.B)
	v.sumIntensity += float64(p.Intensity)
	v.count++
}

// representative is the centroid of the voxel with averaged attributes; the classification is the
// one of the first point seen
func (v *voxel) representative() data.Point {
	n := float64(v.count)
	return data.NewPoint(
		v.sumX/n, v.sumY/n, v.sumZ/n,
		averageByte(v.sumR, n), averageByte(v.sumG, n), averageByte(v.sumB, n),
		averageByte(v.sumIntensity, n),
		v.classification,
	)
}

func averageByte(sum, n float64) uint8 {
	return uint8(math.Round(sum / n))
}

type VoxelDownsample struct {
	LeafSize float64
}

func NewVoxelDownsample(leafSize float64) Filter {
	return &VoxelDownsample{LeafSize: leafSize}
}

func (f *VoxelDownsample) Name() string {
	return "voxel-downsample"
}

// Apply replaces the points of every cubic cell of side LeafSize with their centroid. Cells are
// emitted in the order their first point appears. A non positive leaf size returns a copy of the cloud.
func (f *VoxelDownsample) Apply(cloud *data.PointCloud) (*data.PointCloud, error) {
	if cloud.IsEmpty() || f.LeafSize <= 0 {
		return copyCloud(cloud), nil
	}

	keys, voxels := buildVoxelGrid(cloud, f.LeafSize)
	result := data.NewPointCloud(len(keys))
	for _, key := range keys {
		result.AddPoint(voxels[key].representative())
	}
	return result, nil
}

type VoxelStatistics struct {
	OriginalPoints    int     `json:"original_points"`
	DownsampledPoints int     `json:"downsampled_points"`
	VoxelCount        int     `json:"voxel_count"`
	CompressionRatio  float64 `json:"compression_ratio"`
}

// ComputeVoxelStatistics reports what a VoxelDownsample with the given leaf size would produce
func ComputeVoxelStatistics(cloud *data.PointCloud, leafSize float64) VoxelStatistics {
	stats := VoxelStatistics{
		OriginalPoints:    cloud.Size(),
		DownsampledPoints: cloud.Size(),
		VoxelCount:        cloud.Size(),
		CompressionRatio:  1,
	}
	if cloud.IsEmpty() || leafSize <= 0 {
		return stats
	}

	keys, _ := buildVoxelGrid(cloud, leafSize)
	stats.VoxelCount = len(keys)
	stats.DownsampledPoints = len(keys)
	stats.CompressionRatio = float64(len(keys)) / float64(cloud.Size())
	return stats
}

func buildVoxelGrid(cloud *data.PointCloud, leafSize float64) ([]voxelKey, map[voxelKey]*voxel) {
	keys := make([]voxelKey, 0)
	voxels := make(map[voxelKey]*voxel)
	for i := 0; i < cloud.Size(); i++ {
		point := cloud.Point(i)
		key := voxelKey{
			x: int64(math.Floor(point.X / leafSize)),
			y: int64(math.Floor(point.Y / leafSize)),
			z: int64(math.Floor(point.Z / leafSize)),
		}
		v, ok := voxels[key]
		if !ok {
			v = &voxel{}
			voxels[key] = v
			keys = append(keys, key)
		}
		v.add(point)
	}
	return keys, voxels
}

func copyCloud(cloud *data.PointCloud) *data.PointCloud {
	result := data.NewPointCloud(cloud.Size())
	result.Append(cloud)
	return result
}

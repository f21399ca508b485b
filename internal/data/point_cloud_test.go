package data

import (
	"testing"

	"github.com/ecopia-map/cloud_octree/internal/geometry"
	"github.com/stretchr/testify/require"
)

func TestPointCloudBounds(t *testing.T) {
	cloud := NewPointCloud(0)
	require.True(t, cloud.IsEmpty())
	require.Equal(t, geometry.Vector3{}, cloud.BoundingBox().Min())
	require.Equal(t, geometry.Vector3{}, cloud.BoundingBox().Max())

	cloud.AddPoint(NewPoint(1, 2, 3, 0, 0, 0, 0, 0))
	require.Equal(t, geometry.Vector3{X: 1, Y: 2, Z: 3}, cloud.BoundingBox().Min())
	require.Equal(t, geometry.Vector3{X: 1, Y: 2, Z: 3}, cloud.BoundingBox().Max())

	cloud.AddPoint(NewPoint(-1, 5, 0, 0, 0, 0, 0, 0))
	require.Equal(t, 2, cloud.Size())
	require.Equal(t, geometry.Vector3{X: -1, Y: 2, Z: 0}, cloud.BoundingBox().Min())
	require.Equal(t, geometry.Vector3{X: 1, Y: 5, Z: 3}, cloud.BoundingBox().Max())
}

func TestPointCloudBoundingBoxIsACopy(t *testing.T) {
	cloud := NewPointCloud(1)
	cloud.AddPoint(NewPoint(1, 1, 1, 0, 0, 0, 0, 0))

	box := cloud.BoundingBox()
	box.Expand(geometry.Vector3{X: 10, Y: 10, Z: 10})

	require.Equal(t, geometry.Vector3{X: 1, Y: 1, Z: 1}, cloud.BoundingBox().Max())
}

func TestPointCloudSubsetAndWithout(t *testing.T) {
	cloud := NewPointCloud(4)
	for i := 0; i < 4; i++ {
		cloud.AddPoint(NewPoint(float64(i), 0, 0, uint8(i), 0, 0, 0, 0))
	}

	subset := cloud.Subset([]int{3, 1})
	require.Equal(t, 2, subset.Size())
	require.Equal(t, 3.0, subset.Point(0).X)
	require.Equal(t, uint8(1), subset.Point(1).R)

	rest := cloud.Without([]int{0, 2})
	require.Equal(t, 2, rest.Size())
	require.Equal(t, 1.0, rest.Point(0).X)
	require.Equal(t, 3.0, rest.Point(1).X)

	merged := NewPointCloud(0)
	merged.Append(subset)
	merged.Append(rest)
	require.Equal(t, 4, merged.Size())
	require.Equal(t, 3.0, merged.BoundingBox().Xmax)
}

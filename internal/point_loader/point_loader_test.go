package point_loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecopia-map/cloud_octree/internal/converters/elevation/offset_elevation_corrector"
	"github.com/ecopia-map/cloud_octree/internal/geometry"
	"github.com/ecopia-map/cloud_octree/internal/ply"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, content string) string {
	filePath := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0666))
	return filePath
}

type shiftConverter struct {
	calls int
}

func (c *shiftConverter) ConvertCoordinateSrid(sourceSrid int, targetSrid int, coord geometry.Coordinate) (geometry.Coordinate, error) {
	c.calls++
	return geometry.Coordinate{X: coord.X + 1000, Y: coord.Y + 2000, Z: coord.Z}, nil
}

func (c *shiftConverter) Cleanup() {}

func TestReadXYZ(t *testing.T) {
	filePath := writeFile(t, "cloud.xyz", `# Point Cloud Data
# Format: X Y Z R G B

1 2 3
4,5,6,1,0,0.5
7 8 9 0 1 0 0.25
`)

	cloud, err := NewPointLoader(nil, nil, Options{}).LoadFile(filePath)
	require.NoError(t, err)
	require.Equal(t, 3, cloud.Size())

	first := cloud.Point(0)
	require.Equal(t, geometry.Vector3{X: 1, Y: 2, Z: 3}, first.Position())
	require.Equal(t, []uint8{255, 255, 255}, []uint8{first.R, first.G, first.B})

	second := cloud.Point(1)
	require.Equal(t, geometry.Vector3{X: 4, Y: 5, Z: 6}, second.Position())
	require.Equal(t, []uint8{255, 0, 128}, []uint8{second.R, second.G, second.B})

	third := cloud.Point(2)
	require.Equal(t, uint8(0), third.R)
	require.Equal(t, uint8(255), third.G)
	require.Equal(t, uint8(64), third.Intensity)

	require.Equal(t, []float64{1, 2, 3, 7, 8, 9}, cloud.BoundingBox().GetAsArray())
}

func TestReadXYZEightBitColors(t *testing.T) {
	filePath := writeFile(t, "cloud.txt", "0 0 0 10 20 300\n")

	cloud, err := NewPointLoader(nil, nil, Options{EightBitColors: true}).LoadFile(filePath)
	require.NoError(t, err)
	point := cloud.Point(0)
	require.Equal(t, []uint8{10, 20, 255}, []uint8{point.R, point.G, point.B})
}

func TestReadPtsSkipsCountLine(t *testing.T) {
	filePath := writeFile(t, "cloud.pts", "2\n1 1 1\n2 2 2\n")

	cloud, err := NewPointLoader(nil, nil, Options{}).LoadFile(filePath)
	require.NoError(t, err)
	require.Equal(t, 2, cloud.Size())
}

func TestReadXYZInvalidLine(t *testing.T) {
	filePath := writeFile(t, "cloud.xyz", "1 2 3\n1 two 3\n")

	_, err := NewPointLoader(nil, nil, Options{}).LoadFile(filePath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cloud.xyz:2")
}

func TestReadPCD(t *testing.T) {
	filePath := writeFile(t, "cloud.pcd", `# .PCD v0.7 - Point Cloud Data file format
VERSION 0.7
FIELDS x y z rgb
SIZE 4 4 4 4
TYPE F F F U
COUNT 1 1 1 1
WIDTH 2
HEIGHT 1
VIEWPOINT 0 0 0 1 0 0 0
POINTS 2
DATA ascii
1 2 3 16711680
-1 -2 -3 255
`)

	cloud, err := NewPointLoader(nil, nil, Options{}).LoadFile(filePath)
	require.NoError(t, err)
	require.Equal(t, 2, cloud.Size())

	first := cloud.Point(0)
	require.Equal(t, geometry.Vector3{X: 1, Y: 2, Z: 3}, first.Position())
	require.Equal(t, []uint8{255, 0, 0}, []uint8{first.R, first.G, first.B})

	second := cloud.Point(1)
	require.Equal(t, []uint8{0, 0, 255}, []uint8{second.R, second.G, second.B})
}

func TestReadPCDWithoutColor(t *testing.T) {
	filePath := writeFile(t, "cloud.pcd", "FIELDS y x z\nPOINTS 1\nDATA ascii\n1 2 3\n")

	cloud, err := NewPointLoader(nil, nil, Options{}).LoadFile(filePath)
	require.NoError(t, err)
	require.Equal(t, geometry.Vector3{X: 2, Y: 1, Z: 3}, cloud.Position(0))
	require.Equal(t, uint8(255), cloud.Point(0).R)
}

func TestReadPCDRejectsBinary(t *testing.T) {
	filePath := writeFile(t, "cloud.pcd", "FIELDS x y z\nPOINTS 1\nDATA binary\n")

	_, err := NewPointLoader(nil, nil, Options{}).LoadFile(filePath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "binary")
}

func TestUnsupportedExtension(t *testing.T) {
	filePath := writeFile(t, "cloud.las", "")

	_, err := NewPointLoader(nil, nil, Options{}).LoadFile(filePath)
	require.Error(t, err)
	require.False(t, IsSupportedFile(filePath))
	require.True(t, IsSupportedFile("a/b/CLOUD.XYZ"))
}

func TestElevationCorrectionAndReprojection(t *testing.T) {
	filePath := writeFile(t, "cloud.xyz", "1 2 3\n4 5 6\n")
	converter := &shiftConverter{}
	loader := NewPointLoader(converter, offset_elevation_corrector.NewOffsetElevationCorrector(10), Options{Srid: 4326, TargetSrid: 3857})

	cloud, err := loader.LoadFile(filePath)
	require.NoError(t, err)
	require.Equal(t, 2, converter.calls)
	require.Equal(t, geometry.Vector3{X: 1001, Y: 2002, Z: 13}, cloud.Position(0))
	require.Equal(t, geometry.Vector3{X: 1004, Y: 2005, Z: 16}, cloud.Position(1))
}

func TestSameSridSkipsConversion(t *testing.T) {
	filePath := writeFile(t, "cloud.xyz", "1 2 3\n")
	converter := &shiftConverter{}

	_, err := NewPointLoader(converter, nil, Options{Srid: 4326, TargetSrid: 4326}).LoadFile(filePath)
	require.NoError(t, err)
	require.Equal(t, 0, converter.calls)
}

func TestLoadFilesMerges(t *testing.T) {
	first := writeFile(t, "a.xyz", "1 1 1\n")
	second := writeFile(t, "b.pcd", "FIELDS x y z\nDATA ascii\n2 2 2\n3 3 3\n")

	cloud, err := NewPointLoader(nil, nil, Options{}).LoadFiles([]string{first, second})
	require.NoError(t, err)
	require.Equal(t, 3, cloud.Size())
	require.Equal(t, geometry.Vector3{X: 3, Y: 3, Z: 3}, cloud.Position(2))
}

func TestReadPCDChecksPointCount(t *testing.T) {
	loader := NewPointLoader(nil, nil, Options{})

	tooFew := writeFile(t, "few.pcd", "FIELDS x y z\nPOINTS 3\nDATA ascii\n1 2 3\n4 5 6\n")
	_, err := loader.LoadFile(tooFew)
	require.Error(t, err)
	require.Contains(t, err.Error(), "declares 3 points, found 2")

	tooMany := writeFile(t, "many.pcd", "FIELDS x y z\nPOINTS 1\nDATA ascii\n1 2 3\n4 5 6\n")
	_, err = loader.LoadFile(tooMany)
	require.Error(t, err)

	invalid := writeFile(t, "invalid.pcd", "FIELDS x y z\nPOINTS two\nDATA ascii\n1 2 3\n")
	_, err = loader.LoadFile(invalid)
	require.Error(t, err)
	require.Contains(t, err.Error(), "two")
}

func TestReadPLY(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "cloud.ply")
	require.NoError(t, ply.WritePlyFileWithFormat(filePath, []ply.Vertex{
		{X: 1, Y: 2, Z: 3, R: 10, G: 20, B: 30},
		{X: -4, Y: 5.5, Z: 6, R: 255, G: 255, B: 0},
	}, ply.ASCII))

	converter := &shiftConverter{}
	loader := NewPointLoader(converter, offset_elevation_corrector.NewOffsetElevationCorrector(1), Options{Srid: 4326, TargetSrid: 3857, EightBitColors: false})

	cloud, err := loader.LoadFile(filePath)
	require.NoError(t, err)
	require.Equal(t, 2, cloud.Size())
	require.Equal(t, 2, converter.calls)
	require.Equal(t, geometry.Vector3{X: 1001, Y: 2002, Z: 4}, cloud.Position(0))
	require.Equal(t, geometry.Vector3{X: 996, Y: 2005.5, Z: 7}, cloud.Position(1))
	require.Equal(t, []uint8{10, 20, 30}, []uint8{cloud.Point(0).R, cloud.Point(0).G, cloud.Point(0).B})
	require.True(t, IsSupportedFile("scan.PLY"))
}

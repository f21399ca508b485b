package io

import (
	"bufio"
	"fmt"
	"os"

	"github.com/ecopia-map/cloud_octree/internal/data"
	"github.com/ecopia-map/cloud_octree/internal/geometry"
	"github.com/ecopia-map/cloud_octree/internal/indexer"
	"github.com/ecopia-map/cloud_octree/internal/ply"
	"github.com/shopspring/decimal"
)

const colorDigits = 6

// ComputeAverageXYZ returns the mean position of the points at the given indices
func ComputeAverageXYZ(cloud *data.PointCloud, indices []int) geometry.Vector3 {
	var avg geometry.Vector3
	if len(indices) == 0 {
		return avg
	}
	for _, index := range indices {
		avg = avg.Add(cloud.Position(index))
	}
	return avg.Scale(1 / float64(len(indices)))
}

// WritePoints writes the points at the given indices to filePath. PLY positions are float32 values
// relative to offset, XYZ and PCD positions are absolute and rounded to precision decimal digits.
func WritePoints(
	filePath string,
	cloud *data.PointCloud,
	indices []int,
	format indexer.OutputFormat,
	precision int32,
	offset geometry.Vector3,
) error {
	switch format {
	case indexer.OutputFormatPly:
		return WritePly(filePath, cloud, indices, offset)
	case indexer.OutputFormatXyz:
		return WriteXyz(filePath, cloud, indices, precision)
	case indexer.OutputFormatPcd:
		return WritePcd(filePath, cloud, indices, precision)
	}
	return fmt.Errorf("unsupported output format [%s]", format)
}

func WritePly(filePath string, cloud *data.PointCloud, indices []int, offset geometry.Vector3) error {
	verts := make([]ply.Vertex, len(indices))
	for i, index := range indices {
		point := cloud.Point(index)
		verts[i] = ply.Vertex{
			X: float32(point.X - offset.X),
			Y: float32(point.Y - offset.Y),
			Z: float32(point.Z - offset.Z),
			R: point.R,
			G: point.G,
			B: point.B,
		}
	}
	return ply.WritePlyFile(filePath, verts)
}

// WriteXyz writes "x y z r g b" lines, colors as 0..1 values, after a commented header
func WriteXyz(filePath string, cloud *data.PointCloud, indices []int, precision int32) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "# Point Cloud Data\n# Format: X Y Z R G B\n# Points: %d\n", len(indices))
	for _, index := range indices {
		point := cloud.Point(index)
		fmt.Fprintf(writer, "%s %s %s %s %s %s\n",
			decimal.NewFromFloat(point.X).StringFixed(precision),
			decimal.NewFromFloat(point.Y).StringFixed(precision),
			decimal.NewFromFloat(point.Z).StringFixed(precision),
			colorString(point.R),
			colorString(point.G),
			colorString(point.B),
		)
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WritePcd writes an ASCII PCD file with x y z rgb fields, the color packed as 0xRRGGBB
func WritePcd(filePath string, cloud *data.PointCloud, indices []int, precision int32) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(file)
	fmt.Fprint(writer, "# .PCD v0.7 - Point Cloud Data file format\n")
	fmt.Fprint(writer, "VERSION 0.7\n")
	fmt.Fprint(writer, "FIELDS x y z rgb\n")
	fmt.Fprint(writer, "SIZE 8 8 8 4\n")
	fmt.Fprint(writer, "TYPE F F F U\n")
	fmt.Fprint(writer, "COUNT 1 1 1 1\n")
	fmt.Fprintf(writer, "WIDTH %d\n", len(indices))
	fmt.Fprint(writer, "HEIGHT 1\n")
	fmt.Fprint(writer, "VIEWPOINT 0 0 0 1 0 0 0\n")
	fmt.Fprintf(writer, "POINTS %d\n", len(indices))
	fmt.Fprint(writer, "DATA ascii\n")

	for _, index := range indices {
		point := cloud.Point(index)
		fmt.Fprintf(writer, "%s %s %s %d\n",
			decimal.NewFromFloat(point.X).StringFixed(precision),
			decimal.NewFromFloat(point.Y).StringFixed(precision),
			decimal.NewFromFloat(point.Z).StringFixed(precision),
			uint32(point.R)<<16|uint32(point.G)<<8|uint32(point.B),
		)
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func colorString(value uint8) string {
	return decimal.New(int64(value), 0).DivRound(decimal.New(255, 0), colorDigits).StringFixed(colorDigits)
}

package point_loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecopia-map/cloud_octree/internal/converters"
	"github.com/ecopia-map/cloud_octree/internal/data"
	"github.com/ecopia-map/cloud_octree/internal/geometry"
	"github.com/golang/glog"
)

// Extensions of the files the loader can read
var SupportedExtensions = []string{".xyz", ".txt", ".pts", ".pcd", ".ply"}

type Options struct {
	Srid           int  // EPSG code of the input coordinates
	TargetSrid     int  // EPSG code the points are stored in
	EightBitColors bool // colors are given as 0..255 values instead of 0..1 floats
}

// PointLoader reads point files into a PointCloud, correcting elevations and reprojecting every point
// from Srid to TargetSrid on the way in
type PointLoader struct {
	coordinateConverter converters.CoordinateConverter
	elevationCorrector  converters.ElevationCorrector
	options             Options
}

func NewPointLoader(
	coordinateConverter converters.CoordinateConverter,
	elevationCorrector converters.ElevationCorrector,
	options Options,
) *PointLoader {
	return &PointLoader{
		coordinateConverter: coordinateConverter,
		elevationCorrector:  elevationCorrector,
		options:             options,
	}
}

func IsSupportedFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// LoadFiles reads every file in order and merges the points in a single cloud
func (l *PointLoader) LoadFiles(filePaths []string) (*data.PointCloud, error) {
	cloud := data.NewPointCloud(0)
	for i, filePath := range filePaths {
		glog.Infof("reading file %d/%d [%s]", i+1, len(filePaths), filePath)
		if err := l.loadInto(filePath, cloud); err != nil {
			return nil, err
		}
	}
	return cloud, nil
}

// LoadFile reads a single point file, the format is chosen from the file extension
func (l *PointLoader) LoadFile(filePath string) (*data.PointCloud, error) {
	cloud := data.NewPointCloud(0)
	if err := l.loadInto(filePath, cloud); err != nil {
		return nil, err
	}
	return cloud, nil
}

func (l *PointLoader) loadInto(filePath string, cloud *data.PointCloud) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	before := cloud.Size()
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".xyz", ".txt", ".pts":
		err = l.readXYZ(file, filePath, cloud)
	case ".pcd":
		err = l.readPCD(file, filePath, cloud)
	case ".ply":
		err = l.readPLY(filePath, cloud)
	default:
		err = fmt.Errorf("unsupported point file extension [%s]: %s", ext, filePath)
	}
	if err != nil {
		return err
	}

	glog.V(1).Infof("read %d points from %s", cloud.Size()-before, filepath.Base(filePath))
	return nil
}

// addPoint corrects the elevation, reprojects the point and appends it to the cloud
func (l *PointLoader) addPoint(cloud *data.PointCloud, point data.Point) error {
	if l.elevationCorrector != nil {
		point.Z = l.elevationCorrector.CorrectElevation(point.X, point.Y, point.Z)
	}

	if l.coordinateConverter != nil && l.options.Srid != l.options.TargetSrid {
		coord, err := l.coordinateConverter.ConvertCoordinateSrid(
			l.options.Srid,
			l.options.TargetSrid,
			geometry.Coordinate{X: point.X, Y: point.Y, Z: point.Z},
		)
		if err != nil {
			return err
		}
		point.X, point.Y, point.Z = coord.X, coord.Y, coord.Z
	}

	cloud.AddPoint(point)
	return nil
}

package converters

import (
	"github.com/ecopia-map/cloud_octree/internal/geometry"
)

const (
	WGS84Srid          = 4326
	WGS84CartesianSrid = 4978
)

type CoordinateConverter interface {
	ConvertCoordinateSrid(sourceSrid int, targetSrid int, coord geometry.Coordinate) (geometry.Coordinate, error)
	Cleanup()
}

type ElevationCorrector interface {
	CorrectElevation(lon, lat, z float64) float64
}

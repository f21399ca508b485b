package proj4_coordinate_converter

import (
	"fmt"
	"math"
	"sync"

	"github.com/ecopia-map/cloud_octree/internal/converters"
	"github.com/ecopia-map/cloud_octree/internal/geometry"
	"github.com/golang/glog"
	proj "github.com/xeonx/proj4"
)

type proj4CoordinateConverter struct {
	mutex       sync.Mutex
	projections map[int]*proj.Proj
}

func NewProj4CoordinateConverter() converters.CoordinateConverter {
	return &proj4CoordinateConverter{
		projections: make(map[int]*proj.Proj),
	}
}

// Converts the given coordinate from the given source Srid to the given target srid. Lat/long
// systems are expressed in degrees.
func (cc *proj4CoordinateConverter) ConvertCoordinateSrid(sourceSrid int, targetSrid int, coord geometry.Coordinate) (geometry.Coordinate, error) {
	if sourceSrid == targetSrid {
		return coord, nil
	}

	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	src, err := cc.getProjection(sourceSrid)
	if err != nil {
		return coord, err
	}

	dst, err := cc.getProjection(targetSrid)
	if err != nil {
		return coord, err
	}

	x, y, z := []float64{coord.X}, []float64{coord.Y}, []float64{coord.Z}
	if src.IsLatLong() {
		x[0] = x[0] * math.Pi / 180
		y[0] = y[0] * math.Pi / 180
	}

	if err := proj.TransformRaw(src, dst, x, y, z); err != nil {
		return coord, fmt.Errorf("transform from EPSG:%d to EPSG:%d: %w", sourceSrid, targetSrid, err)
	}

	if dst.IsLatLong() {
		x[0] = x[0] * 180 / math.Pi
		y[0] = y[0] * 180 / math.Pi
	}

	return geometry.Coordinate{X: x[0], Y: y[0], Z: z[0]}, nil
}

// Releases all projection objects from memory
func (cc *proj4CoordinateConverter) Cleanup() {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	for srid, projection := range cc.projections {
		projection.Close()
		delete(cc.projections, srid)
	}
}

// Returns the projection of the given EPSG code, initializing and caching it on first use
func (cc *proj4CoordinateConverter) getProjection(srid int) (*proj.Proj, error) {
	if projection, ok := cc.projections[srid]; ok {
		return projection, nil
	}

	definition, ok := getDefinition(srid)
	if !ok {
		return nil, fmt.Errorf("EPSG:%d is not supported", srid)
	}

	projection, err := proj.InitPlus(definition)
	if err != nil {
		return nil, fmt.Errorf("init projection EPSG:%d: %w", srid, err)
	}

	glog.V(2).Infof("initialized projection EPSG:%d [%s]", srid, definition)
	cc.projections[srid] = projection
	return projection, nil
}

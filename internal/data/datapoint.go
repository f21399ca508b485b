package data

import "github.com/ecopia-map/cloud_octree/internal/geometry"

// Contains data of a Point Cloud Point, namely X,Y,Z coords,
// R,G,B color components, Intensity and Classification.
// Only the coordinates are used by the index, the other attributes travel along to the exporters.
type Point struct {
	X              float64
	Y              float64
	Z              float64
	R              uint8
	G              uint8
	B              uint8
	Intensity      uint8
	Classification uint8
}

// Builds a new Point from the given coordinates, colors, intensity and classification values
func NewPoint(X, Y, Z float64, R, G, B, Intensity, Classification uint8) Point {
	return Point{
		X:              X,
		Y:              Y,
		Z:              Z,
		R:              R,
		G:              G,
		B:              B,
		Intensity:      Intensity,
		Classification: Classification,
	}
}

func (p *Point) Position() geometry.Vector3 {
	return geometry.Vector3{X: p.X, Y: p.Y, Z: p.Z}
}

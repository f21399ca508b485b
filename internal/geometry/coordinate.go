package geometry

// Coordinate is a point expressed in some spatial reference system, identified by an EPSG code elsewhere
type Coordinate struct {
	X float64
	Y float64
	Z float64
}

func (c Coordinate) ToVector3() Vector3 {
	return Vector3{X: c.X, Y: c.Y, Z: c.Z}
}

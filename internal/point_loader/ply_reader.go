package point_loader

import (
	"fmt"

	"github.com/ecopia-map/cloud_octree/internal/data"
	"github.com/ecopia-map/cloud_octree/internal/ply"
)

// readPLY loads the vertex element of an ASCII or binary PLY file. PLY colors are already 0..255
// bytes, so the color scale option does not apply.
func (l *PointLoader) readPLY(filePath string, cloud *data.PointCloud) error {
	verts, _, err := ply.ReadPlyFile(filePath)
	if err != nil {
		return err
	}

	for i, v := range verts {
		if err := l.addPoint(cloud, data.NewPoint(v.X, v.Y, v.Z, v.R, v.G, v.B, 0, 0)); err != nil {
			return fmt.Errorf("%s: vertex %d: %w", filePath, i, err)
		}
	}
	return nil
}

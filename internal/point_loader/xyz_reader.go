package point_loader

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ecopia-map/cloud_octree/internal/data"
)

// readXYZ parses lines in the form "x y z [r g b [intensity]]". Values can be separated by blanks or
// commas, lines starting with # are comments. A line holding a single value is a point count header
// and is skipped. Colors and intensity share the color depth of the options, points without color
// are white.
func (l *PointLoader) readXYZ(reader io.Reader, name string, cloud *data.PointCloud) error {
	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		fields := splitFields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") || len(fields) == 1 {
			continue
		}

		point, err := l.parseXYZFields(fields)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNumber, err)
		}
		if err := l.addPoint(cloud, point); err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (l *PointLoader) parseXYZFields(fields []string) (data.Point, error) {
	if len(fields) < 3 {
		return data.Point{}, fmt.Errorf("expected at least 3 coordinates, found %d values", len(fields))
	}

	var coords [3]float64
	for i := 0; i < 3; i++ {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return data.Point{}, fmt.Errorf("invalid coordinate %q", fields[i])
		}
		coords[i] = value
	}

	colors := [3]uint8{255, 255, 255}
	if len(fields) >= 6 {
		for i := 0; i < 3; i++ {
			value, err := strconv.ParseFloat(fields[3+i], 64)
			if err != nil {
				return data.Point{}, fmt.Errorf("invalid color %q", fields[3+i])
			}
			colors[i] = l.toColorByte(value)
		}
	}

	var intensity uint8
	if len(fields) >= 7 {
		value, err := strconv.ParseFloat(fields[6], 64)
		if err != nil {
			return data.Point{}, fmt.Errorf("invalid intensity %q", fields[6])
		}
		intensity = l.toColorByte(value)
	}

	return data.NewPoint(coords[0], coords[1], coords[2], colors[0], colors[1], colors[2], intensity, 0), nil
}

func (l *PointLoader) toColorByte(value float64) uint8 {
	if l.options.EightBitColors {
		return clampByte(value)
	}
	return clampByte(value * 255)
}

func clampByte(value float64) uint8 {
	if math.IsNaN(value) || value <= 0 {
		return 0
	}
	if value >= 255 {
		return 255
	}
	return uint8(math.Round(value))
}

func splitFields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == ';' || r == '\r'
	})
}

package point_loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ecopia-map/cloud_octree/internal/data"
)

type pcdHeader struct {
	fields    map[string]int
	points    int // declared row count, -1 when the header has no POINTS line
	dataKind  string
	lineCount int
}

// readPCD parses an ASCII PCD file. The x, y and z fields are required; an optional rgb or rgba field
// holds the packed color either as an integer or as the bits of a float32. Binary PCD data is rejected.
func (l *PointLoader) readPCD(reader io.Reader, name string, cloud *data.PointCloud) error {
	scanner := bufio.NewScanner(reader)

	header, err := readPCDHeader(scanner)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	xIndex, yIndex, zIndex := header.fields["x"], header.fields["y"], header.fields["z"]
	rgbIndex, hasRGB := header.fields["rgb"]
	if !hasRGB {
		rgbIndex, hasRGB = header.fields["rgba"]
	}

	lineNumber := header.lineCount
	rows := 0
	for scanner.Scan() {
		lineNumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		rows++
		if len(fields) < len(header.fields) {
			return fmt.Errorf("%s:%d: expected %d values, found %d", name, lineNumber, len(header.fields), len(fields))
		}

		var coords [3]float64
		for i, index := range []int{xIndex, yIndex, zIndex} {
			value, err := strconv.ParseFloat(fields[index], 64)
			if err != nil {
				return fmt.Errorf("%s:%d: invalid coordinate %q", name, lineNumber, fields[index])
			}
			coords[i] = value
		}

		r, g, b := uint8(255), uint8(255), uint8(255)
		if hasRGB {
			packed, err := parsePackedColor(fields[rgbIndex])
			if err != nil {
				return fmt.Errorf("%s:%d: %w", name, lineNumber, err)
			}
			r, g, b = uint8(packed>>16), uint8(packed>>8), uint8(packed)
		}

		if err := l.addPoint(cloud, data.NewPoint(coords[0], coords[1], coords[2], r, g, b, 0, 0)); err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if header.points >= 0 && rows != header.points {
		return fmt.Errorf("%s: header declares %d points, found %d", name, header.points, rows)
	}
	return nil
}

func readPCDHeader(scanner *bufio.Scanner) (*pcdHeader, error) {
	header := &pcdHeader{fields: make(map[string]int), points: -1}
	for scanner.Scan() {
		header.lineCount++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.Fields(line)
		switch strings.ToUpper(tokens[0]) {
		case "FIELDS":
			for i, field := range tokens[1:] {
				header.fields[strings.ToLower(field)] = i
			}
		case "POINTS":
			if len(tokens) != 2 {
				return nil, fmt.Errorf("invalid PCD POINTS line %q", line)
			}
			points, err := strconv.Atoi(tokens[1])
			if err != nil || points < 0 {
				return nil, fmt.Errorf("invalid PCD point count %q", tokens[1])
			}
			header.points = points
		case "DATA":
			if len(tokens) > 1 {
				header.dataKind = strings.ToLower(tokens[1])
			}
			if header.dataKind != "ascii" {
				return nil, fmt.Errorf("unsupported PCD data encoding [%s], only ascii is supported", header.dataKind)
			}
			for _, required := range []string{"x", "y", "z"} {
				if _, ok := header.fields[required]; !ok {
					return nil, fmt.Errorf("PCD header has no %s field", required)
				}
			}
			return header, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, errors.New("PCD header has no DATA line")
}

func parsePackedColor(value string) (uint32, error) {
	if packed, err := strconv.ParseUint(value, 10, 32); err == nil {
		return uint32(packed), nil
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid rgb value %q", value)
	}
	return math.Float32bits(float32(f)), nil
}

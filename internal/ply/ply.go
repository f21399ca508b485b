package ply

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"unsafe"

	plyfile "github.com/cobaltgray/go-plyfile"
)

const vertexElement = "vertex"

// Vertex is the in memory layout of a PLY vertex record, the property offsets below are taken from it
type Vertex struct {
	X, Y, Z float32
	R, G, B uint8
}

// ReadVertex is the layout vertices are read into. Coordinates are widened to double whatever
// their type in the file.
type ReadVertex struct {
	X, Y, Z float64
	R, G, B uint8
}

type Format int

const (
	BinaryLittleEndian Format = iota
	ASCII
)

var vertexProperties = []plyfile.PlyProperty{
	scalarProperty("x", plyfile.PLY_FLOAT, unsafe.Offsetof(Vertex{}.X)),
	scalarProperty("y", plyfile.PLY_FLOAT, unsafe.Offsetof(Vertex{}.Y)),
	scalarProperty("z", plyfile.PLY_FLOAT, unsafe.Offsetof(Vertex{}.Z)),
	scalarProperty("red", plyfile.PLY_UCHAR, unsafe.Offsetof(Vertex{}.R)),
	scalarProperty("green", plyfile.PLY_UCHAR, unsafe.Offsetof(Vertex{}.G)),
	scalarProperty("blue", plyfile.PLY_UCHAR, unsafe.Offsetof(Vertex{}.B)),
}

var readProperties = map[string]plyfile.PlyProperty{
	"x":     scalarProperty("x", plyfile.PLY_DOUBLE, unsafe.Offsetof(ReadVertex{}.X)),
	"y":     scalarProperty("y", plyfile.PLY_DOUBLE, unsafe.Offsetof(ReadVertex{}.Y)),
	"z":     scalarProperty("z", plyfile.PLY_DOUBLE, unsafe.Offsetof(ReadVertex{}.Z)),
	"red":   scalarProperty("red", plyfile.PLY_UCHAR, unsafe.Offsetof(ReadVertex{}.R)),
	"green": scalarProperty("green", plyfile.PLY_UCHAR, unsafe.Offsetof(ReadVertex{}.G)),
	"blue":  scalarProperty("blue", plyfile.PLY_UCHAR, unsafe.Offsetof(ReadVertex{}.B)),
}

func scalarProperty(name string, dataType int, offset uintptr) plyfile.PlyProperty {
	return plyfile.PlyProperty{
		Name:          name,
		External_type: dataType,
		Internal_type: dataType,
		Offset:        int(offset),
		Is_list:       plyfile.PLY_SCALAR,
	}
}

// WritePlyFile writes the vertices as a binary little endian PLY point cloud
func WritePlyFile(filePath string, verts []Vertex) error {
	return WritePlyFileWithFormat(filePath, verts, BinaryLittleEndian)
}

func WritePlyFileWithFormat(filePath string, verts []Vertex, format Format) error {
	fileType := plyfile.PLY_BINARY_LE
	if format == ASCII {
		fileType = plyfile.PLY_ASCII
	}

	elemNames := []string{vertexElement}
	var version float32

	cPlyFile := plyfile.PlyOpenForWriting(filePath, len(elemNames), elemNames, fileType, &version)
	if cPlyFile == nil {
		return errors.New("cannot open ply file for writing: " + filePath)
	}

	plyfile.PlyElementCount(cPlyFile, vertexElement, len(verts))
	for _, prop := range vertexProperties {
		plyfile.PlyDescribeProperty(cPlyFile, vertexElement, prop)
	}
	plyfile.PlyHeaderComplete(cPlyFile)

	plyfile.PlyPutElementSetup(cPlyFile, vertexElement)
	for _, vertex := range verts {
		plyfile.PlyPutElement(cPlyFile, vertex)
	}

	plyfile.PlyClose(cPlyFile)
	return nil
}

// ReadPlyFile reads the vertex element of a PLY file. The x, y and z properties are required,
// vertices get white when the file has no red, green and blue properties. hasColor reports
// whether the colors come from the file.
func ReadPlyFile(filePath string) (verts []ReadVertex, hasColor bool, err error) {
	if err := checkPlyMagic(filePath); err != nil {
		return nil, false, err
	}

	cPlyFile, elemNames := plyfile.PlyOpenForReading(filePath)
	if cPlyFile == nil {
		return nil, false, errors.New("cannot open ply file for reading: " + filePath)
	}
	defer plyfile.PlyClose(cPlyFile)

	// elements are stored one after the other, only a leading vertex element can be read alone
	if len(elemNames) == 0 || elemNames[0] != vertexElement {
		return nil, false, fmt.Errorf("%s: the first element must be %q, found %v", filePath, vertexElement, elemNames)
	}

	props, count, _ := plyfile.PlyGetElementDescription(cPlyFile, vertexElement)
	available := make(map[string]bool, len(props))
	for _, prop := range props {
		available[prop.Name] = true
	}

	for _, name := range []string{"x", "y", "z"} {
		if !available[name] {
			return nil, false, fmt.Errorf("%s: vertex property %q missing", filePath, name)
		}
	}
	hasColor = available["red"] && available["green"] && available["blue"]

	for name, prop := range readProperties {
		if available[name] {
			plyfile.PlyGetProperty(cPlyFile, vertexElement, prop)
		}
	}

	verts = make([]ReadVertex, count)
	for i := range verts {
		plyfile.PlyGetElement(cPlyFile, &verts[i], unsafe.Sizeof(ReadVertex{}))
		if !hasColor {
			verts[i].R, verts[i].G, verts[i].B = 255, 255, 255
		}
	}

	return verts, hasColor, nil
}

// PlyOpenForReading does not report files without a ply header
func checkPlyMagic(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return fmt.Errorf("%s: not a ply file", filePath)
	}
	return nil
}

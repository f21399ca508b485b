package indexer

import (
	"fmt"
	"strconv"
	"strings"
)

type OutputFormat string
type QueryKind string
type LODPolicy string

const (
	OutputFormatPly OutputFormat = "PLY"
	OutputFormatXyz OutputFormat = "XYZ"
	OutputFormatPcd OutputFormat = "PCD"
)

const (
	QueryBox     QueryKind = "BOX"
	QueryRadius  QueryKind = "RADIUS"
	QueryFrustum QueryKind = "FRUSTUM"
	QueryLOD     QueryKind = "LOD"
)

const (
	// Distant internal nodes decimate the leaves below them
	LODPolicySample LODPolicy = "SAMPLE"
	// Distant internal nodes contribute no points
	LODPolicyOwn LODPolicy = "OWN"
)

type IIndexer interface {
	Run(opts *IndexerOptions) error
}

func normalize(value string) string {
	return strings.Trim(strings.ToUpper(value), " ")
}

func ParseOutputFormat(value string) OutputFormat {
	switch normalize(value) {
	case "PLY":
		return OutputFormatPly
	case "XYZ":
		return OutputFormatXyz
	case "PCD":
		return OutputFormatPcd
	}
	return ""
}

func ParseQueryKind(value string) QueryKind {
	switch normalize(value) {
	case "BOX":
		return QueryBox
	case "RADIUS":
		return QueryRadius
	case "FRUSTUM":
		return QueryFrustum
	case "LOD":
		return QueryLOD
	}
	return ""
}

func ParseLODPolicy(value string) LODPolicy {
	switch normalize(value) {
	case "SAMPLE":
		return LODPolicySample
	case "OWN":
		return LODPolicyOwn
	}
	return ""
}

// ParseFloatList parses a comma separated list of exactly expected numbers
func ParseFloatList(value string, expected int) ([]float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != expected {
		return nil, fmt.Errorf("expected %d comma separated numbers, found %d in [%s]", expected, len(parts), value)
	}

	result := make([]float64, expected)
	for i, part := range parts {
		number, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q in [%s]", part, value)
		}
		result[i] = number
	}
	return result, nil
}

// Contains the options shared by all the commands: where to read points, how to convert and filter
// them and how to shape the tree
type IndexerOptions struct {
	Input            string  // Input point file/folder
	FolderProcessing bool    // Enables the processing of all point files in folder
	Recursive        bool    // Recursive lookup of point files in subfolders
	Srid             int     // EPSG code for SRID of input points
	TargetSrid       int     // EPSG code the points are reprojected to before indexing
	EightBitColors   bool    // if true colors are 0..255 values, otherwise 0..1 floats
	ZOffset          float64 // Z Offset to apply to points during loading

	MaxPointsPerLeaf int       // leaf capacity above the maximum depth
	MaxDepth         int       // depth at which leaves stop subdividing
	LODPolicy        LODPolicy // what the LOD query emits for distant internal nodes

	VoxelSize           float64 // voxel downsampling leaf size, disabled if not positive
	OutlierRadius       float64 // radius outlier removal radius, disabled if not positive
	OutlierMinNeighbors int     // minimum neighbors within OutlierRadius
	StatisticalK        int     // statistical outlier removal neighbors, disabled if not positive
	StatisticalStdMul   float64 // statistical outlier removal standard deviation multiplier

	Command              string
	IndexCommandOptions  *IndexCommandOptions
	QueryCommandOptions  *QueryCommandOptions
	VerifyCommandOptions *VerifyCommandOptions
}

type IndexCommandOptions struct {
	Output    string       // Output folder for the leaf export, no export if empty
	Format    OutputFormat // format of the exported leaves
	Precision int32        // decimal digits of XYZ coordinates
}

type QueryCommandOptions struct {
	Kind QueryKind

	Min    [3]float64 // box query corners
	Max    [3]float64
	Center [3]float64 // radius query
	Radius float64

	Planes    [][4]float64 // six explicit frustum planes (a, b, c, d), inner side where ax+by+cz+d >= 0
	Eye       [3]float64   // camera frustum, used when Planes is empty
	Target    [3]float64
	Up        [3]float64
	Fov       float64 // vertical field of view in degrees
	Aspect    float64
	Near      float64
	Far       float64
	ViewPoint [3]float64 // LOD viewer position, the camera eye if not set
	HasView   bool
	BaseDist  float64 // LOD base distance

	Output    string       // Output file for the result points, only the count is logged if empty
	Format    OutputFormat // format of the output file
	Precision int32
}

type VerifyCommandOptions struct {
	Queries int   // random box and radius queries to cross check
	Seed    int64 // seed of the random queries
}

func (opt *IndexerOptions) Copy() *IndexerOptions {
	newOpt := *opt
	newOpt.IndexCommandOptions = nil
	newOpt.QueryCommandOptions = nil
	newOpt.VerifyCommandOptions = nil

	if opt.IndexCommandOptions != nil {
		indexOpt := *opt.IndexCommandOptions
		newOpt.IndexCommandOptions = &indexOpt
	}

	if opt.QueryCommandOptions != nil {
		queryOpt := *opt.QueryCommandOptions
		queryOpt.Planes = append([][4]float64(nil), opt.QueryCommandOptions.Planes...)
		newOpt.QueryCommandOptions = &queryOpt
	}

	if opt.VerifyCommandOptions != nil {
		verifyOpt := *opt.VerifyCommandOptions
		newOpt.VerifyCommandOptions = &verifyOpt
	}

	return &newOpt
}

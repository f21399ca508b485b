package tools

import (
	"flag"

	"github.com/golang/glog"
)

const (
	CommandIndex  = "index"
	CommandQuery  = "query"
	CommandVerify = "verify"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

// Flags shared by every command: input selection, point conversion, filters and tree shape
type IndexerFlags struct {
	Input                     *string  `json:"input"`
	FolderProcessing          *bool    `json:"folder"`
	RecursiveFolderProcessing *bool    `json:"recursive"`
	Srid                      *int     `json:"srid"`
	TargetSrid                *int     `json:"target_srid"`
	EightBitColors            *bool    `json:"8bit"`
	ZOffset                   *float64 `json:"zoffset"`
	MaxPointsPerLeaf          *int     `json:"max_points"`
	MaxDepth                  *int     `json:"max_depth"`
	LODPolicy                 *string  `json:"lod_policy"`
	VoxelSize                 *float64 `json:"voxel_size"`
	OutlierRadius             *float64 `json:"outlier_radius"`
	OutlierMinNeighbors       *int     `json:"outlier_min_neighbors"`
	StatisticalK              *int     `json:"sor_k"`
	StatisticalStdMul         *float64 `json:"sor_std"`
	Silent                    *bool    `json:"silent"`
	LogTimestamp              *bool    `json:"timestamp"`
	Help                      *bool    `json:"help"`
	Version                   *bool    `json:"version"`
}

type FlagsForCommandIndex struct {
	IndexerFlags
	Output    *string `json:"output"`
	Format    *string `json:"format"`
	Precision *int    `json:"precision"`
}

type FlagsForCommandQuery struct {
	IndexerFlags
	Kind         *string  `json:"kind"`
	Min          *string  `json:"min"`
	Max          *string  `json:"max"`
	Center       *string  `json:"center"`
	Radius       *float64 `json:"radius"`
	Planes       *string  `json:"planes"`
	Eye          *string  `json:"eye"`
	Target       *string  `json:"target"`
	Up           *string  `json:"up"`
	Fov          *float64 `json:"fov"`
	Aspect       *float64 `json:"aspect"`
	Near         *float64 `json:"near"`
	Far          *float64 `json:"far"`
	View         *string  `json:"view"`
	BaseDistance *float64 `json:"base_distance"`
	Output       *string  `json:"output"`
	Format       *string  `json:"format"`
	Precision    *int     `json:"precision"`
}

type FlagsForCommandVerify struct {
	IndexerFlags
	Queries *int   `json:"queries"`
	Seed    *int64 `json:"seed"`
}

func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	version := defineBoolFlag("version", "", false, "Displays the version of cloud_octree.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func defineIndexerFlags(flagCommand *flag.FlagSet) IndexerFlags {
	return IndexerFlags{
		Input:                     defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the input point file/folder (.xyz, .txt, .pts, .pcd, .ply)."),
		FolderProcessing:          defineBoolFlagCommand(flagCommand, "folder", "f", false, "Enables processing of all point files from input folder. Input must be a folder if specified"),
		RecursiveFolderProcessing: defineBoolFlagCommand(flagCommand, "recursive", "r", false, "Enables recursive lookup for all point files inside the subfolders"),
		Srid:                      defineIntFlagCommand(flagCommand, "srid", "e", 4326, "EPSG srid code of input points."),
		TargetSrid:                defineIntFlagCommand(flagCommand, "target-srid", "", 0, "EPSG srid code the points are reprojected to before indexing. Defaults to the input srid (no reprojection)."),
		EightBitColors:            defineBoolFlagCommand(flagCommand, "8bit", "b", false, "Assumes the input colors are 0..255 values. Default is false (colors are 0..1 floats)"),
		ZOffset:                   defineFloat64FlagCommand(flagCommand, "zoffset", "z", 0, "Vertical offset to apply to points, in the units of the input srid."),
		MaxPointsPerLeaf:          defineIntFlagCommand(flagCommand, "max-points", "m", 100, "Maximum number of points of a leaf above the maximum depth."),
		MaxDepth:                  defineIntFlagCommand(flagCommand, "max-depth", "d", 10, "Maximum depth of the tree, leaves at this depth are never subdivided."),
		LODPolicy:                 defineStringFlagCommand(flagCommand, "lod-policy", "", "SAMPLE", "What the lod query returns for distant internal nodes, can be 'SAMPLE' (decimated leaves below them) or 'OWN' (nothing)."),
		VoxelSize:                 defineFloat64FlagCommand(flagCommand, "voxel-size", "", 0, "Voxel downsampling cell size. Disabled if not positive."),
		OutlierRadius:             defineFloat64FlagCommand(flagCommand, "outlier-radius", "", 0, "Radius outlier removal search radius. Disabled if not positive."),
		OutlierMinNeighbors:       defineIntFlagCommand(flagCommand, "outlier-min-neighbors", "", 5, "Minimum number of neighbors within outlier-radius for a point to be kept."),
		StatisticalK:              defineIntFlagCommand(flagCommand, "sor-k", "", 0, "Statistical outlier removal neighbor count. Disabled if not positive."),
		StatisticalStdMul:         defineFloat64FlagCommand(flagCommand, "sor-std", "", 1, "Statistical outlier removal standard deviation multiplier."),
		Silent:                    defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages."),
		LogTimestamp:              defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages."),
		Help:                      defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help."),
		Version:                   defineBoolFlagCommand(flagCommand, "version", "v", false, "Displays the version of cloud_octree."),
	}
}

func ParseFlagsForCommandIndex(args []string) FlagsForCommandIndex {
	glog.V(1).Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-index", flag.ExitOnError)

	indexerFlags := defineIndexerFlags(flagCommand)
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output folder where to export the leaves. Nothing is exported if empty.")
	format := defineStringFlagCommand(flagCommand, "format", "", "PLY", "Format of the exported leaves, can be 'PLY', 'XYZ' or 'PCD'.")
	precision := defineIntFlagCommand(flagCommand, "precision", "p", 6, "Decimal digits of XYZ coordinates.")

	flagCommand.Parse(args)

	return FlagsForCommandIndex{
		IndexerFlags: indexerFlags,
		Output:       output,
		Format:       format,
		Precision:    precision,
	}
}

func ParseFlagsForCommandQuery(args []string) FlagsForCommandQuery {
	glog.V(1).Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-query", flag.ExitOnError)

	indexerFlags := defineIndexerFlags(flagCommand)
	kind := defineStringFlagCommand(flagCommand, "kind", "k", "BOX", "Type of query, can be 'BOX', 'RADIUS', 'FRUSTUM' or 'LOD'.")
	min := defineStringFlagCommand(flagCommand, "min", "", "", "Min corner of the box query as x,y,z.")
	max := defineStringFlagCommand(flagCommand, "max", "", "", "Max corner of the box query as x,y,z.")
	center := defineStringFlagCommand(flagCommand, "center", "c", "", "Center of the radius query as x,y,z.")
	radius := defineFloat64FlagCommand(flagCommand, "radius", "", 0, "Radius of the radius query.")
	planes := defineStringFlagCommand(flagCommand, "planes", "", "", "Six frustum planes as 24 comma separated a,b,c,d values. Points with ax+by+cz+d >= 0 are inside. Overrides the camera flags.")
	eye := defineStringFlagCommand(flagCommand, "eye", "", "0,0,0", "Camera position as x,y,z.")
	target := defineStringFlagCommand(flagCommand, "target", "", "0,0,-1", "Point the camera looks at as x,y,z.")
	up := defineStringFlagCommand(flagCommand, "up", "", "0,1,0", "Camera up direction as x,y,z.")
	fov := defineFloat64FlagCommand(flagCommand, "fov", "", 45, "Camera vertical field of view in degrees.")
	aspect := defineFloat64FlagCommand(flagCommand, "aspect", "", 1, "Camera aspect ratio (width / height).")
	near := defineFloat64FlagCommand(flagCommand, "near", "", 0.1, "Camera near plane distance.")
	far := defineFloat64FlagCommand(flagCommand, "far", "", 1000, "Camera far plane distance.")
	view := defineStringFlagCommand(flagCommand, "view", "", "", "Viewer position of the lod query as x,y,z. Defaults to the camera position.")
	baseDistance := defineFloat64FlagCommand(flagCommand, "base-distance", "", 10, "Distance unit of the lod query: points are sampled every floor(distance / base-distance).")
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Output file for the selected points. Only the count is logged if empty.")
	format := defineStringFlagCommand(flagCommand, "format", "", "XYZ", "Format of the output file, can be 'PLY', 'XYZ' or 'PCD'.")
	precision := defineIntFlagCommand(flagCommand, "precision", "p", 6, "Decimal digits of XYZ coordinates.")

	flagCommand.Parse(args)

	return FlagsForCommandQuery{
		IndexerFlags: indexerFlags,
		Kind:         kind,
		Min:          min,
		Max:          max,
		Center:       center,
		Radius:       radius,
		Planes:       planes,
		Eye:          eye,
		Target:       target,
		Up:           up,
		Fov:          fov,
		Aspect:       aspect,
		Near:         near,
		Far:          far,
		View:         view,
		BaseDistance: baseDistance,
		Output:       output,
		Format:       format,
		Precision:    precision,
	}
}

func ParseFlagsForCommandVerify(args []string) FlagsForCommandVerify {
	glog.V(1).Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-verify", flag.ExitOnError)

	indexerFlags := defineIndexerFlags(flagCommand)
	queries := defineIntFlagCommand(flagCommand, "queries", "q", 100, "Number of random box and radius queries cross checked against a linear scan.")
	seed := defineInt64FlagCommand(flagCommand, "seed", "", 1, "Seed of the random queries.")

	flagCommand.Parse(args)

	return FlagsForCommandVerify{
		IndexerFlags: indexerFlags,
		Queries:      queries,
		Seed:         seed,
	}
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineInt64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int64, usage string) *int64 {
	var output int64
	flagCommand.Int64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Int64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineFloat64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue float64, usage string) *float64 {
	var output float64
	flagCommand.Float64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Float64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

/*
 * This file is part of the Go Cesium Point Cloud Tiler distribution (https://github.com/mfbonfigli/gocesiumtiler).
 * Copyright (c) 2019 Massimo Federico Bonfigli - m.federico.bonfigli@gmail.com
 *
 * This program is free software; you can redistribute it and/or modify it
 * under the terms of the GNU Lesser General Public License Version 3 as
 * published by the Free Software Foundation;
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program. If not, see <http://www.gnu.org/licenses/>.
 *
 * This software also uses third party components. You can find information
 * on their credits and licensing in the file LICENSE-3RD-PARTIES.md that
 * you should have received togheter with the source code.
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ecopia-map/cloud_octree/internal/indexer"
	"github.com/ecopia-map/cloud_octree/pkg"
	"github.com/ecopia-map/cloud_octree/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/cloud_octree/tools"
	"github.com/golang/glog"
)

const VERSION = "1.0.0"

const logo = `
      _                 _              _
  ___| | ___  _   _  __| |   ___   ___| |_ _ __ ___  ___
 / __| |/ _ \\| | | |/ _  |  / _ \\ / __| __| '__/ _ \\/ _ \\
| (__| | (_) | |_| | (_| | | (_) | (__| |_| | |  __/  __/
 \\___|_|\\___/ \\__,_|\\__,_|  \\___/ \\___|\\__|_|  \\___|\\___|
 A point cloud octree index written in golang - YYYY
`

func main() {
	// glog writes to files only unless told otherwise
	_ = flag.Set("alsologtostderr", "true")

	flagsGlobal := tools.ParseFlagsGlobal()
	defer glog.Flush()

	if *flagsGlobal.Help {
		showHelp()
		return
	}
	if *flagsGlobal.Version {
		printVersion()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		glog.Fatal("Please specify a subcommand [index|query|verify].")
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case tools.CommandIndex:
		mainCommandIndex(args)
	case tools.CommandQuery:
		mainCommandQuery(args)
	case tools.CommandVerify:
		mainCommandVerify(args)
	default:
		glog.Fatalf("Unrecognized command [%q]. Command must be one of [index|query|verify]", cmd)
	}
}

func mainCommandIndex(args []string) {
	flags := tools.ParseFlagsForCommandIndex(args)
	if handleCommonFlags(flags.IndexerFlags) {
		return
	}

	opts := buildIndexerOptions(flags.IndexerFlags)
	opts.Command = tools.CommandIndex
	opts.IndexCommandOptions = &indexer.IndexCommandOptions{
		Output:    tools.ResolvePath(*flags.Output),
		Format:    indexer.ParseOutputFormat(*flags.Format),
		Precision: int32(*flags.Precision),
	}

	if msg, res := validateOptionsForCommandIndex(opts); !res {
		glog.Fatal("Error parsing input parameters: " + msg)
	}
	glog.Infoln("options", tools.FmtJSONString(opts))

	defer tools.TimeTrack(time.Now(), "index")
	err := pkg.NewIndexerIndex(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts)
	if err != nil {
		glog.Fatal("Error while indexing: ", err)
	}
	tools.LogOutput("Indexing Completed")
}

func mainCommandQuery(args []string) {
	flags := tools.ParseFlagsForCommandQuery(args)
	if handleCommonFlags(flags.IndexerFlags) {
		return
	}

	opts := buildIndexerOptions(flags.IndexerFlags)
	opts.Command = tools.CommandQuery

	queryOpts, err := buildQueryOptions(&flags)
	if err != nil {
		glog.Fatal("Error parsing input parameters: ", err)
	}
	opts.QueryCommandOptions = queryOpts

	if msg, res := validateOptionsForCommandQuery(opts); !res {
		glog.Fatal("Error parsing input parameters: " + msg)
	}
	glog.Infoln("options", tools.FmtJSONString(opts))

	defer tools.TimeTrack(time.Now(), "query")
	err = pkg.NewIndexerQuery(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts)
	if err != nil {
		glog.Fatal("Error while querying: ", err)
	}
	tools.LogOutput("Query Completed")
}

func mainCommandVerify(args []string) {
	flags := tools.ParseFlagsForCommandVerify(args)
	if handleCommonFlags(flags.IndexerFlags) {
		return
	}

	opts := buildIndexerOptions(flags.IndexerFlags)
	opts.Command = tools.CommandVerify
	opts.VerifyCommandOptions = &indexer.VerifyCommandOptions{
		Queries: *flags.Queries,
		Seed:    *flags.Seed,
	}

	if msg, res := validateCommonOptions(opts); !res {
		glog.Fatal("Error parsing input parameters: " + msg)
	}
	glog.Infoln("options", tools.FmtJSONString(opts))

	err := pkg.NewIndexerVerify(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts)
	if err != nil {
		glog.Fatal("Verification failed: ", err)
	}
	tools.LogOutput("Verification Completed")
}

// Handles help, version and logging flags. Returns true if the command should not run.
func handleCommonFlags(flags tools.IndexerFlags) bool {
	if *flags.Help {
		showHelp()
		return true
	}

	if *flags.Version {
		printVersion()
		return true
	}

	// set logging and timestamp logging
	if *flags.Silent {
		tools.DisableLogger()
	} else {
		printLogo()
	}
	if !*flags.LogTimestamp {
		tools.DisableLoggerTimestamp()
	}
	return false
}

func buildIndexerOptions(flags tools.IndexerFlags) *indexer.IndexerOptions {
	return &indexer.IndexerOptions{
		Input:               tools.ResolvePath(*flags.Input),
		FolderProcessing:    *flags.FolderProcessing,
		Recursive:           *flags.RecursiveFolderProcessing,
		Srid:                *flags.Srid,
		TargetSrid:          *flags.TargetSrid,
		EightBitColors:      *flags.EightBitColors,
		ZOffset:             *flags.ZOffset,
		MaxPointsPerLeaf:    *flags.MaxPointsPerLeaf,
		MaxDepth:            *flags.MaxDepth,
		LODPolicy:           indexer.ParseLODPolicy(*flags.LODPolicy),
		VoxelSize:           *flags.VoxelSize,
		OutlierRadius:       *flags.OutlierRadius,
		OutlierMinNeighbors: *flags.OutlierMinNeighbors,
		StatisticalK:        *flags.StatisticalK,
		StatisticalStdMul:   *flags.StatisticalStdMul,
	}
}

func buildQueryOptions(flags *tools.FlagsForCommandQuery) (*indexer.QueryCommandOptions, error) {
	queryOpts := &indexer.QueryCommandOptions{
		Kind:      indexer.ParseQueryKind(*flags.Kind),
		Radius:    *flags.Radius,
		Fov:       *flags.Fov,
		Aspect:    *flags.Aspect,
		Near:      *flags.Near,
		Far:       *flags.Far,
		BaseDist:  *flags.BaseDistance,
		Output:    *flags.Output,
		Format:    indexer.ParseOutputFormat(*flags.Format),
		Precision: int32(*flags.Precision),
	}

	vectors := []struct {
		value  string
		target *[3]float64
	}{
		{*flags.Min, &queryOpts.Min},
		{*flags.Max, &queryOpts.Max},
		{*flags.Center, &queryOpts.Center},
		{*flags.Eye, &queryOpts.Eye},
		{*flags.Target, &queryOpts.Target},
		{*flags.Up, &queryOpts.Up},
		{*flags.View, &queryOpts.ViewPoint},
	}
	for _, v := range vectors {
		if v.value == "" {
			continue
		}
		values, err := indexer.ParseFloatList(v.value, 3)
		if err != nil {
			return nil, err
		}
		copy(v.target[:], values)
	}
	queryOpts.HasView = *flags.View != ""

	if *flags.Planes != "" {
		values, err := indexer.ParseFloatList(*flags.Planes, 24)
		if err != nil {
			return nil, err
		}
		for i := 0; i < 6; i++ {
			var plane [4]float64
			copy(plane[:], values[i*4:i*4+4])
			queryOpts.Planes = append(queryOpts.Planes, plane)
		}
	}

	return queryOpts, nil
}

// Validates the options shared by all commands checking that the input exists
func validateCommonOptions(opts *indexer.IndexerOptions) (string, bool) {
	if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
		return "Input file/folder not found", false
	}

	if opts.LODPolicy == "" {
		return "lod-policy should be either SAMPLE or OWN", false
	}

	if opts.MaxPointsPerLeaf <= 0 || opts.MaxDepth <= 0 {
		return "max-points and max-depth must be positive", false
	}

	return "", true
}

func validateOptionsForCommandIndex(opts *indexer.IndexerOptions) (string, bool) {
	if msg, res := validateCommonOptions(opts); !res {
		return msg, res
	}

	if opts.IndexCommandOptions.Format == "" {
		return "format should be one of PLY, XYZ or PCD", false
	}

	if opts.IndexCommandOptions.Precision < 0 {
		return "precision cannot be negative", false
	}

	return "", true
}

func validateOptionsForCommandQuery(opts *indexer.IndexerOptions) (string, bool) {
	if msg, res := validateCommonOptions(opts); !res {
		return msg, res
	}

	queryOpts := opts.QueryCommandOptions
	if queryOpts.Kind == "" {
		return "kind should be one of BOX, RADIUS, FRUSTUM or LOD", false
	}

	if queryOpts.Format == "" {
		return "format should be one of PLY, XYZ or PCD", false
	}

	if queryOpts.Precision < 0 {
		return "precision cannot be negative", false
	}

	return "", true
}

func printLogo() {
	fmt.Println(strings.ReplaceAll(logo, "YYYY", strconv.Itoa(time.Now().Year())))
}

func showHelp() {
	printLogo()
	fmt.Println("***")
	fmt.Println("cloud_octree indexes point clouds in an octree and answers box, radius, frustum and level of detail queries")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Usage: cloud_octree [global flags] index|query|verify [command flags]")
	fmt.Println("Use -help after a command to list its flags.")
	fmt.Println("")
	fmt.Println("Global flags: ")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
}

func printVersion() {
	fmt.Println("v." + VERSION)
}

package pkg

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path"
	"path/filepath"

	"github.com/ecopia-map/cloud_octree/internal/data"
	"github.com/ecopia-map/cloud_octree/internal/indexer"
	"github.com/ecopia-map/cloud_octree/internal/io"
	"github.com/ecopia-map/cloud_octree/internal/octree/point_tree"
	"github.com/ecopia-map/cloud_octree/pkg/algorithm_manager"
	"github.com/ecopia-map/cloud_octree/tools"
	"github.com/golang/glog"
)

type IndexerIndex struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewIndexerIndex(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) indexer.IIndexer {
	return &IndexerIndex{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

// TreeSummary is the content of the tree.json file written in the export folder of every input file
type TreeSummary struct {
	Source      string                `json:"source"`
	Points      int                   `json:"points"`
	Srid        int                   `json:"srid"`
	BoundingBox []float64             `json:"bounding_box"`
	Options     point_tree.Options    `json:"options"`
	Statistics  point_tree.Statistics `json:"statistics"`
}

// Indexes every input file on its own tree and, if an output folder is given, exports the leaves of
// each tree in a subfolder named after the file
func (indexerIndex *IndexerIndex) Run(opts *indexer.IndexerOptions) error {
	defer indexerIndex.algorithmManager.GetCoordinateConverterAlgorithm().Cleanup()

	pointFiles, err := listPointFiles(indexerIndex.fileFinder, opts)
	if err != nil {
		return err
	}

	for i, filePath := range pointFiles {
		glog.Infof("Processing file %d/%d", i+1, len(pointFiles))
		if err := indexerIndex.processPointFile(filePath, opts); err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}
	}

	return nil
}

func (indexerIndex *IndexerIndex) processPointFile(filePath string, opts *indexer.IndexerOptions) error {
	cloud, err := loadPoints([]string{filePath}, indexerIndex.algorithmManager, opts)
	if err != nil {
		return err
	}

	tree := buildTree(indexerIndex.algorithmManager, cloud)

	if opts.IndexCommandOptions != nil && opts.IndexCommandOptions.Output != "" {
		subfolder := tools.GetFilenameWithoutExtension(filePath)
		if err := indexerIndex.exportTree(tree, cloud, opts, subfolder); err != nil {
			return err
		}
		if err := writeTreeSummary(filePath, tree, cloud, opts, subfolder); err != nil {
			return err
		}
	}

	glog.Infoln("> done processing", filepath.Base(filePath))
	return nil
}

func (indexerIndex *IndexerIndex) exportTree(tree *point_tree.PointTree, cloud *data.PointCloud, opts *indexer.IndexerOptions, subfolder string) error {
	if !tree.IsBuilt() {
		glog.Warningf("no points left to export for %s", subfolder)
		return nil
	}

	tools.LogOutput("> exporting data...")
	return io.ExportLeaves(tree, cloud, opts, subfolder)
}

func writeTreeSummary(filePath string, tree *point_tree.PointTree, cloud *data.PointCloud, opts *indexer.IndexerOptions, subfolder string) error {
	parentFolder := path.Join(opts.IndexCommandOptions.Output, subfolder)
	if err := tools.CreateDirectoryIfDoesNotExist(parentFolder); err != nil {
		return err
	}

	summary := TreeSummary{
		Source:      filePath,
		Points:      cloud.Size(),
		Srid:        targetSrid(opts),
		BoundingBox: cloud.BoundingBox().GetAsArray(),
		Options:     tree.GetOptions(),
		Statistics:  tree.Statistics(),
	}

	jsonData, err := json.MarshalIndent(summary, "", "\t")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path.Join(parentFolder, "tree.json"), jsonData, 0666)
}

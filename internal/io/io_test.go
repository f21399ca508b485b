package io

import (
	"bufio"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/ecopia-map/cloud_octree/internal/data"
	"github.com/ecopia-map/cloud_octree/internal/geometry"
	"github.com/ecopia-map/cloud_octree/internal/indexer"
	"github.com/ecopia-map/cloud_octree/internal/octree/point_tree"
	"github.com/stretchr/testify/require"
)

func gridCloud(side int) *data.PointCloud {
	cloud := data.NewPointCloud(side * side * side)
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			for z := 0; z < side; z++ {
				cloud.AddPoint(data.NewPoint(float64(x), float64(y), float64(z), 255, 128, 0, 0, 0))
			}
		}
	}
	return cloud
}

func TestProducerSubmitsNonEmptyLeaves(t *testing.T) {
	cloud := gridCloud(10)
	tree := point_tree.NewPointTree(cloud, point_tree.DefaultOptions())
	tree.Build()

	work := make(chan *WorkUnit, 1000)
	var wg sync.WaitGroup
	wg.Add(1)
	NewStandardProducer("out", "cloud", cloud).Produce(work, &wg, tree.GetRootNode())
	wg.Wait()

	total := 0
	paths := make([]string, 0)
	for unit := range work {
		require.True(t, unit.Node.IsLeaf())
		require.Greater(t, unit.Node.NumberOfPoints(), 0)
		total += unit.Node.NumberOfPoints()
		paths = append(paths, unit.BasePath)
	}

	require.Equal(t, cloud.Size(), total)
	require.Len(t, paths, tree.GetLeafCount())
	require.Equal(t, filepath.Join("out", "cloud", "0", "0"), paths[0])
	require.Equal(t, filepath.Join("out", "cloud", "7", "7"), paths[len(paths)-1])
}

func TestProducerWithoutRoot(t *testing.T) {
	work := make(chan *WorkUnit, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	NewStandardProducer("out", "", data.NewPointCloud(0)).Produce(work, &wg, nil)
	wg.Wait()

	_, ok := <-work
	require.False(t, ok)
}

func TestWriteXyz(t *testing.T) {
	cloud := data.NewPointCloud(2)
	cloud.AddPoint(data.NewPoint(1.23456, -2, 3.5, 255, 128, 0, 0, 0))
	cloud.AddPoint(data.NewPoint(9, 9, 9, 0, 0, 0, 0, 0))

	filePath := filepath.Join(t.TempDir(), "points.xyz")
	require.NoError(t, WriteXyz(filePath, cloud, []int{0}, 3))

	content, err := ioutil.ReadFile(filePath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Equal(t, []string{
		"# Point Cloud Data",
		"# Format: X Y Z R G B",
		"# Points: 1",
		"1.235 -2.000 3.500 1.000000 0.501961 0.000000",
	}, lines)
}

func TestWritePointsRejectsUnknownFormat(t *testing.T) {
	err := WritePoints(filepath.Join(t.TempDir(), "x"), data.NewPointCloud(0), nil, indexer.OutputFormat("LAS"), 3, geometry.Vector3{})
	require.Error(t, err)
}

func TestComputeAverageXYZ(t *testing.T) {
	cloud := gridCloud(2)
	require.Equal(t, geometry.Vector3{X: 0.5, Y: 0.5, Z: 0.5}, ComputeAverageXYZ(cloud, []int{0, 1, 2, 3, 4, 5, 6, 7}))
	require.Equal(t, geometry.Vector3{}, ComputeAverageXYZ(cloud, nil))
}

func TestExportLeavesXyz(t *testing.T) {
	cloud := gridCloud(10)
	tree := point_tree.NewPointTree(cloud, point_tree.DefaultOptions())
	tree.Build()

	output := t.TempDir()
	opts := &indexer.IndexerOptions{
		IndexCommandOptions: &indexer.IndexCommandOptions{
			Output:    output,
			Format:    indexer.OutputFormatXyz,
			Precision: 2,
		},
	}
	require.NoError(t, ExportLeaves(tree, cloud, opts, "cloud"))

	nodeFiles := make([]string, 0)
	err := filepath.Walk(output, func(path string, info os.FileInfo, err error) error {
		if err == nil && info.Name() == "node.json" {
			nodeFiles = append(nodeFiles, path)
		}
		return err
	})
	require.NoError(t, err)
	require.Len(t, nodeFiles, tree.GetLeafCount())
	sort.Strings(nodeFiles)

	total := 0
	for _, nodeFile := range nodeFiles {
		content, err := ioutil.ReadFile(nodeFile)
		require.NoError(t, err)

		var info NodeInfo
		require.NoError(t, json.Unmarshal(content, &info))
		require.Equal(t, 2, info.Depth)
		require.Equal(t, "content.xyz", info.Content)
		require.Len(t, info.BoundingBox, 6)
		total += info.Points

		require.Equal(t, info.Points, countDataLines(t, filepath.Join(filepath.Dir(nodeFile), info.Content)))
	}
	require.Equal(t, cloud.Size(), total)
}

func TestExportLeavesRequiresBuiltTree(t *testing.T) {
	tree := point_tree.NewPointTree(data.NewPointCloud(0), point_tree.DefaultOptions())
	tree.Build()

	err := ExportLeaves(tree, data.NewPointCloud(0), &indexer.IndexerOptions{IndexCommandOptions: &indexer.IndexCommandOptions{}}, "")
	require.Error(t, err)
}

func countDataLines(t *testing.T, filePath string) int {
	file, err := os.Open(filePath)
	require.NoError(t, err)
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" && !strings.HasPrefix(line, "#") {
			count++
		}
	}
	return count
}

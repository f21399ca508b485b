package pkg

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ecopia-map/cloud_octree/internal/data"
	"github.com/ecopia-map/cloud_octree/internal/indexer"
	"github.com/ecopia-map/cloud_octree/internal/octree/point_tree"
	"github.com/ecopia-map/cloud_octree/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/cloud_octree/tools"
	"github.com/stretchr/testify/require"
)

func writeGridFile(t *testing.T, dir string, name string, side int) string {
	var sb strings.Builder
	sb.WriteString("# grid\n")
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			for z := 0; z < side; z++ {
				sb.WriteString(fmt.Sprintf("%d %d %d 0.5 0.5 0.5\n", x, y, z))
			}
		}
	}
	filePath := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(filePath, []byte(sb.String()), 0666))
	return filePath
}

func baseOptions(input string) *indexer.IndexerOptions {
	return &indexer.IndexerOptions{
		Input:            input,
		Srid:             32633,
		MaxPointsPerLeaf: 100,
		MaxDepth:         10,
		LODPolicy:        indexer.LODPolicySample,
	}
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

func gridTree(side int) (*point_tree.PointTree, *data.PointCloud) {
	cloud := data.NewPointCloud(side * side * side)
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			for z := 0; z < side; z++ {
				cloud.AddPoint(data.NewPoint(float64(x), float64(y), float64(z), 0, 0, 0, 0, 0))
			}
		}
	}
	tree := point_tree.NewPointTree(cloud, point_tree.DefaultOptions())
	tree.Build()
	return tree, cloud
}

func TestIndexCommandExportsLeaves(t *testing.T) {
	input := writeGridFile(t, t.TempDir(), "grid.xyz", 10)
	output := t.TempDir()

	opts := baseOptions(input)
	opts.IndexCommandOptions = &indexer.IndexCommandOptions{
		Output:    output,
		Format:    indexer.OutputFormatXyz,
		Precision: 3,
	}

	err := NewIndexerIndex(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts)
	require.NoError(t, err)

	content, err := ioutil.ReadFile(filepath.Join(output, "grid", "tree.json"))
	require.NoError(t, err)

	var summary TreeSummary
	require.NoError(t, json.Unmarshal(content, &summary))
	require.Equal(t, 1000, summary.Points)
	require.Equal(t, 32633, summary.Srid)
	require.Equal(t, point_tree.Statistics{NodeCount: 73, LeafCount: 64, MaxDepth: 2}, summary.Statistics)
	require.Equal(t, []float64{0, 0, 0, 9, 9, 9}, summary.BoundingBox)

	require.Equal(t, 27, countDataLines(t, filepath.Join(output, "grid", "0", "0", "content.xyz")))
}

func TestIndexCommandWithFilters(t *testing.T) {
	dir := t.TempDir()
	input := writeGridFile(t, dir, "grid.xyz", 10)

	opts := baseOptions(input)
	opts.VoxelSize = 2
	opts.IndexCommandOptions = &indexer.IndexCommandOptions{Output: t.TempDir(), Format: indexer.OutputFormatXyz, Precision: 3}

	require.NoError(t, NewIndexerIndex(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts))

	content, err := ioutil.ReadFile(filepath.Join(opts.IndexCommandOptions.Output, "grid", "tree.json"))
	require.NoError(t, err)
	var summary TreeSummary
	require.NoError(t, json.Unmarshal(content, &summary))
	require.Equal(t, 125, summary.Points)
}

func TestIndexCommandMissingInput(t *testing.T) {
	opts := baseOptions(filepath.Join(t.TempDir(), "missing.xyz"))
	opts.IndexCommandOptions = &indexer.IndexCommandOptions{}

	err := NewIndexerIndex(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts)
	require.Error(t, err)
}

func TestQueryCommandWritesSelection(t *testing.T) {
	dir := t.TempDir()
	input := writeGridFile(t, dir, "grid.xyz", 10)
	output := filepath.Join(dir, "selection.xyz")

	opts := baseOptions(input)
	opts.QueryCommandOptions = &indexer.QueryCommandOptions{
		Kind:      indexer.QueryBox,
		Min:       [3]float64{3, 3, 3},
		Max:       [3]float64{7, 7, 7},
		Output:    output,
		Format:    indexer.OutputFormatXyz,
		Precision: 2,
	}

	err := NewIndexerQuery(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts)
	require.NoError(t, err)
	require.Equal(t, 125, countDataLines(t, output))
}

func TestRunQuery(t *testing.T) {
	tree, _ := gridTree(10)

	indices, err := RunQuery(tree, &indexer.QueryCommandOptions{Kind: indexer.QueryBox, Min: [3]float64{3, 3, 3}, Max: [3]float64{7, 7, 7}})
	require.NoError(t, err)
	require.Len(t, indices, 125)

	indices, err = RunQuery(tree, &indexer.QueryCommandOptions{Kind: indexer.QueryRadius, Center: [3]float64{0, 0, 0}, Radius: 1})
	require.NoError(t, err)
	require.Len(t, indices, 4)

	_, err = RunQuery(tree, &indexer.QueryCommandOptions{Kind: indexer.QueryRadius, Radius: -1})
	require.Error(t, err)

	planes := [][4]float64{
		{2, 0, 0, -6}, {-1, 0, 0, 7},
		{0, 1, 0, -3}, {0, -1, 0, 7},
		{0, 0, 1, -3}, {0, 0, -1, 7},
	}
	indices, err = RunQuery(tree, &indexer.QueryCommandOptions{Kind: indexer.QueryFrustum, Planes: planes})
	require.NoError(t, err)
	require.Len(t, indices, 125)

	indices, err = RunQuery(tree, &indexer.QueryCommandOptions{
		Kind:      indexer.QueryLOD,
		Planes:    planes,
		ViewPoint: [3]float64{5, 5, 5},
		HasView:   true,
		BaseDist:  1e6,
	})
	require.NoError(t, err)
	// near leaves are returned whole: the 7 grid values per axis of the leaves touching [3, 7]
	require.Len(t, indices, 343)

	_, err = RunQuery(tree, &indexer.QueryCommandOptions{Kind: indexer.QueryKind("KNN")})
	require.Error(t, err)
}

func TestBuildFrustum(t *testing.T) {
	camera := &indexer.QueryCommandOptions{
		Eye:    [3]float64{0, 0, 0},
		Target: [3]float64{0, 0, -1},
		Up:     [3]float64{0, 1, 0},
		Fov:    90,
		Aspect: 1,
		Near:   1,
		Far:    100,
	}
	frustum, err := BuildFrustum(camera)
	require.NoError(t, err)
	require.True(t, frustum.ContainsPoint(toVector3([3]float64{0, 0, -50})))
	require.False(t, frustum.ContainsPoint(toVector3([3]float64{0, 0, 50})))

	invalid := *camera
	invalid.Near = 0
	_, err = BuildFrustum(&invalid)
	require.Error(t, err)

	invalid = *camera
	invalid.Fov = 180
	_, err = BuildFrustum(&invalid)
	require.Error(t, err)

	invalid = *camera
	invalid.Up = [3]float64{0, 0, 1}
	_, err = BuildFrustum(&invalid)
	require.Error(t, err)

	_, err = BuildFrustum(&indexer.QueryCommandOptions{Planes: [][4]float64{{1, 0, 0, 0}}})
	require.Error(t, err)
}

func TestBuildFrustumRejectsNearlyDegenerateCameras(t *testing.T) {
	camera := indexer.QueryCommandOptions{
		Eye:    [3]float64{5, 5, 5},
		Target: [3]float64{5, 5, 5 + 1e-9},
		Up:     [3]float64{0, 1, 0},
		Fov:    60,
		Aspect: 1,
		Near:   1,
		Far:    100,
	}
	_, err := BuildFrustum(&camera)
	require.Error(t, err)

	camera.Target = [3]float64{5, 5, -5}
	camera.Up = [3]float64{1e-9, 0, 1}
	_, err = BuildFrustum(&camera)
	require.Error(t, err)

	camera.Up = [3]float64{0, 0, 0}
	_, err = BuildFrustum(&camera)
	require.Error(t, err)

	camera.Up = [3]float64{0, 1, 0}
	_, err = BuildFrustum(&camera)
	require.NoError(t, err)
}

func TestVerifyTree(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	cloud := data.NewPointCloud(3000)
	for i := 0; i < 3000; i++ {
		cloud.AddPoint(data.NewPoint(rnd.Float64()*100, rnd.Float64()*50, rnd.Float64()*10, 0, 0, 0, 0, 0))
	}
	tree := point_tree.NewPointTree(cloud, point_tree.Options{MaxPointsPerLeaf: 16, MaxDepth: 8})
	tree.Build()

	report, err := VerifyTree(tree, cloud, 40, 3)
	require.NoError(t, err)
	require.Equal(t, 40, report.BoxQueries)
	require.Equal(t, 40, report.FrustumQueries)
	require.Equal(t, 40, report.RadiusQueries)
	require.Zero(t, report.Mismatches)
	require.Equal(t, tree.Statistics(), report.Statistics)
}

func TestVerifyEmptyTree(t *testing.T) {
	cloud := data.NewPointCloud(0)
	tree := point_tree.NewPointTree(cloud, point_tree.DefaultOptions())
	tree.Build()

	report, err := VerifyTree(tree, cloud, 10, 1)
	require.NoError(t, err)
	require.Zero(t, report.BoxQueries)
}

func TestVerifyCommand(t *testing.T) {
	input := writeGridFile(t, t.TempDir(), "grid.xyz", 8)

	opts := baseOptions(input)
	opts.MaxPointsPerLeaf = 10
	opts.VerifyCommandOptions = &indexer.VerifyCommandOptions{Queries: 20, Seed: 5}

	err := NewIndexerVerify(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts)
	require.NoError(t, err)
}

func TestSameIndices(t *testing.T) {
	require.True(t, sameIndices([]int{1, 2, 3}, []int{3, 1, 2}))
	require.False(t, sameIndices([]int{1, 2, 3}, []int{3, 1, 1}))
	require.False(t, sameIndices([]int{1, 2}, []int{1, 2, 3}))
	require.True(t, sameIndices([]int{}, []int{}))
}

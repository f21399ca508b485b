package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecopia-map/cloud_octree/internal/indexer"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, filePath string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0777))
	require.NoError(t, os.WriteFile(filePath, []byte("0 0 0\n"), 0666))
}

func TestFileFinder(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.xyz"))
	touch(t, filepath.Join(root, "b.PCD"))
	touch(t, filepath.Join(root, "notes.md"))
	touch(t, filepath.Join(root, "nested", "c.pts"))

	finder := NewStandardFileFinder()

	files, err := finder.GetPointFilesToProcess(&indexer.IndexerOptions{Input: root, FolderProcessing: true})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{filepath.Join(root, "a.xyz"), filepath.Join(root, "b.PCD")}, files)

	files, err = finder.GetPointFilesToProcess(&indexer.IndexerOptions{Input: root, FolderProcessing: true, Recursive: true})
	require.NoError(t, err)
	require.Len(t, files, 3)
	require.Contains(t, files, filepath.Join(root, "nested", "c.pts"))

	files, err = finder.GetPointFilesToProcess(&indexer.IndexerOptions{Input: "single.xyz"})
	require.NoError(t, err)
	require.Equal(t, []string{"single.xyz"}, files)

	_, err = finder.GetPointFilesToProcess(&indexer.IndexerOptions{Input: filepath.Join(root, "missing"), FolderProcessing: true})
	require.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	t.Setenv(WorkDirEnv, "")
	require.Equal(t, "out", ResolvePath("out"))

	t.Setenv(WorkDirEnv, "/data")
	require.Equal(t, filepath.Join("/data", "out"), ResolvePath("out"))
	require.Equal(t, "/abs/out", ResolvePath("/abs/out"))
	require.Equal(t, "", ResolvePath(""))
}

func TestParseFlagsForCommandQuery(t *testing.T) {
	flags := ParseFlagsForCommandQuery([]string{"-i", "cloud.xyz", "-kind", "radius", "-c", "1,2,3", "-radius", "4", "-m", "20"})

	require.Equal(t, "cloud.xyz", *flags.Input)
	require.Equal(t, "radius", *flags.Kind)
	require.Equal(t, "1,2,3", *flags.Center)
	require.Equal(t, 4.0, *flags.Radius)
	require.Equal(t, 20, *flags.MaxPointsPerLeaf)
	require.Equal(t, 10, *flags.MaxDepth)
	require.Equal(t, "SAMPLE", *flags.LODPolicy)
}

func TestParseFlagsForCommandIndexAndVerify(t *testing.T) {
	index := ParseFlagsForCommandIndex([]string{"-input", "in", "-o", "out", "-format", "xyz", "-p", "3"})
	require.Equal(t, "out", *index.Output)
	require.Equal(t, "xyz", *index.Format)
	require.Equal(t, 3, *index.Precision)

	verify := ParseFlagsForCommandVerify([]string{"-i", "in", "-q", "7", "-seed", "42"})
	require.Equal(t, 7, *verify.Queries)
	require.Equal(t, int64(42), *verify.Seed)
}

func TestUtils(t *testing.T) {
	require.Equal(t, `{"a":1}`, FmtJSONString(map[string]int{"a": 1}))
	require.True(t, IsFloatEqual(1, 1+1e-9))
	require.False(t, IsFloatEqual(1, 1.1))
	require.Equal(t, "cloud", GetFilenameWithoutExtension("/a/b/cloud.xyz"))
}

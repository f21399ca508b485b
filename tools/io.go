package tools

import (
	"os"
	"path/filepath"
)

const WorkDirEnv = "CLOUD_OCTREE_WORKDIR"

// ResolvePath joins relative paths to the folder given by the CLOUD_OCTREE_WORKDIR environment
// variable. Absolute paths, and every path when the variable is not set, are returned unchanged.
func ResolvePath(p string) string {
	workDir := os.Getenv(WorkDirEnv)
	if p == "" || workDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workDir, p)
}

func CreateDirectoryIfDoesNotExist(directory string) error {
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		err := os.MkdirAll(directory, 0777)
		if err != nil {
			return err
		}
	}
	return nil
}

package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the file that marks a project root.
const ManifestName = "Cargo.toml"

// ErrNotFound indicates that no manifest exists in the start directory or
// any of its parents.
var ErrNotFound = errors.New(ManifestName + " not found in this directory or any parent")

// Locate walks upward from start until it finds a directory containing a
// manifest, returning that directory as an absolute path.
func Locate(start string) (string, error) {
	cur, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if isFile(ManifestPath(cur)) {
			return cur, nil
		}
		next := filepath.Dir(cur)
		if next == cur {
			break
		}
		cur = next
	}
	return "", fmt.Errorf("%w (searched from %s)", ErrNotFound, start)
}

// ManifestPath returns the manifest location for a project root.
func ManifestPath(root string) string {
	return filepath.Join(root, ManifestName)
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular()
}

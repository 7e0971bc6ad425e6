// Package location decides where wrappers are installed and whether that
// directory is reachable through the shell search path.
package location

import (
	"fmt"
	"path/filepath"

	"github.com/brandonbloom/cargo-dev-install/internal/env"
)

// InstallDir returns the directory wrappers are written to. XDG_BIN_HOME
// wins over HOME/.local/bin. The second result is false when neither is
// available. Nothing is checked on disk.
func InstallDir(snap env.Snapshot) (string, bool) {
	if snap.BinHome != "" {
		return snap.BinHome, true
	}
	if snap.Home == "" {
		return "", false
	}
	return filepath.Join(snap.Home, ".local", "bin"), true
}

// OnSearchPath reports whether dir appears verbatim as a PATH entry. A
// missing PATH counts as not found.
func OnSearchPath(dir string, snap env.Snapshot) bool {
	if snap.Path == "" {
		return false
	}
	for _, entry := range filepath.SplitList(snap.Path) {
		if entry == dir {
			return true
		}
	}
	return false
}

// ExportHint is the shell line that puts dir on PATH.
func ExportHint(dir string) string {
	return fmt.Sprintf("export PATH=\"%s:$PATH\"", dir)
}

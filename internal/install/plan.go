// Package install turns a request and an environment snapshot into an
// install plan, and applies that plan to disk.
package install

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/brandonbloom/cargo-dev-install/internal/env"
	"github.com/brandonbloom/cargo-dev-install/internal/location"
	"github.com/brandonbloom/cargo-dev-install/internal/manifest"
	"github.com/brandonbloom/cargo-dev-install/internal/project"
	"github.com/brandonbloom/cargo-dev-install/internal/target"
	"github.com/brandonbloom/cargo-dev-install/internal/wrapper"
)

// Request carries the caller's binary preference.
type Request struct {
	Bin string
}

// Plan is a fully resolved installation. It is built once by Planner.Plan
// and consumed by Apply.
type Plan struct {
	ProjectRoot     string
	ManifestPath    string
	BinName         string
	InstallDir      string
	WrapperPath     string
	WrapperContents string
	// PathMissing is set when InstallDir is not on PATH.
	PathMissing bool
}

// Lister enumerates binary targets declared by a manifest.
type Lister interface {
	ListBinaries(manifestPath string) ([]manifest.Binary, error)
}

// Planner builds plans. Selector may be nil when no interactive prompt is
// available.
type Planner struct {
	Metadata Lister
	Selector target.Selector
	Log      *log.Logger
}

// Plan resolves everything needed to install a wrapper without touching
// the filesystem beyond reading the project.
func (p Planner) Plan(req Request, snap env.Snapshot, cwd string) (Plan, error) {
	logger := p.logger()

	root, err := project.Locate(cwd)
	if err != nil {
		return Plan{}, classifyLocate(err)
	}
	manifestPath := project.ManifestPath(root)
	logger.Debug("located project", "root", root)

	metadata := p.Metadata
	if metadata == nil {
		metadata = manifest.Reader{}
	}
	bins, err := metadata.ListBinaries(manifestPath)
	if err != nil {
		return Plan{}, newError(KindMetadataQueryFailed, fmt.Errorf("failed to read binary targets: %w", err))
	}
	candidates := make([]target.Candidate, len(bins))
	for i, b := range bins {
		candidates[i] = target.Candidate{Name: b.Name, Source: b.Path}
	}
	logger.Debug("found binary targets", "count", len(candidates), "names", target.Names(candidates))

	if len(candidates) == 1 && req.Bin != "" && req.Bin != candidates[0].Name {
		logger.Debug("ignoring --bin for single-binary project", "requested", req.Bin, "binary", candidates[0].Name)
	}
	binName, err := target.Resolve(candidates, req.Bin, p.Selector)
	if err != nil {
		return Plan{}, classifyTarget(err)
	}
	if !isPlainName(binName) {
		return Plan{}, newError(KindMetadataQueryFailed, fmt.Errorf("%w: %q", ErrUnsafeBinName, binName))
	}

	installDir, ok := location.InstallDir(snap)
	if !ok {
		return Plan{}, newError(KindHomeUndiscoverable, ErrHomeUndiscoverable)
	}

	contents, err := wrapper.Render(root, binName)
	if err != nil {
		return Plan{}, newError(KindIOFailure, err)
	}

	plan := Plan{
		ProjectRoot:     root,
		ManifestPath:    manifestPath,
		BinName:         binName,
		InstallDir:      installDir,
		WrapperPath:     filepath.Join(installDir, binName),
		WrapperContents: contents,
		PathMissing:     !location.OnSearchPath(installDir, snap),
	}
	logger.Debug("planned install", "binary", plan.BinName, "wrapper", plan.WrapperPath, "path_missing", plan.PathMissing)
	return plan, nil
}

// isPlainName reports whether name stays inside the directory it is
// joined to.
func isPlainName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name
}

func (p Planner) logger() *log.Logger {
	if p.Log != nil {
		return p.Log
	}
	return log.New(io.Discard)
}

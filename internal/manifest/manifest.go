// Package manifest reads the binary targets a Cargo package declares.
//
// Targets come from explicit [[bin]] tables plus Cargo's conventional
// layout (src/main.rs, src/bin/*.rs, src/bin/*/main.rs) unless the package
// disables automatic discovery.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Manifest captures the parts of Cargo.toml that determine binary targets.
type Manifest struct {
	Package *PackageBlock `toml:"package"`
	Bins    []BinBlock    `toml:"bin"`
}

// PackageBlock is the [package] table.
type PackageBlock struct {
	Name     string `toml:"name"`
	Autobins *bool  `toml:"autobins"`
}

// BinBlock is one [[bin]] table.
type BinBlock struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Binary is a resolved binary target. Path is relative to the project root.
type Binary struct {
	Name string
	Path string
}

var (
	// ErrNoPackage indicates a manifest without a [package] table, such as a
	// virtual workspace root.
	ErrNoPackage = errors.New("no root package found in manifest")
	// ErrMissingName indicates [package] omitted its name.
	ErrMissingName = errors.New("package.name must be set")
	// ErrUnnamedBin indicates a [[bin]] table without a name.
	ErrUnnamedBin = errors.New("every [[bin]] target must have a name")
	// ErrInvalidBinName indicates a target name outside [A-Za-z0-9_-].
	ErrInvalidBinName = errors.New("invalid binary target name (use letters, digits, '-' and '_')")
	// ErrDuplicateBin indicates two [[bin]] tables share a name.
	ErrDuplicateBin = errors.New("duplicate binary target name")
	// ErrMissingSource indicates a [[bin]] without a path whose
	// conventional source file does not exist.
	ErrMissingSource = errors.New("cannot find binary source file")
)

var binNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidBinName reports whether name can be used as a binary target name.
func ValidBinName(name string) bool {
	return binNamePattern.MatchString(name)
}

// AutobinsEnabled reports whether conventional binary discovery applies.
func (p PackageBlock) AutobinsEnabled() bool {
	if p.Autobins == nil {
		return true
	}
	return *p.Autobins
}

// Validate ensures the manifest describes a package whose binaries can be
// enumerated.
func (m Manifest) Validate() error {
	if m.Package == nil {
		return ErrNoPackage
	}
	if m.Package.Name == "" {
		return ErrMissingName
	}
	for _, bin := range m.Bins {
		if bin.Name == "" {
			return ErrUnnamedBin
		}
		if !ValidBinName(bin.Name) {
			return fmt.Errorf("%w: %q", ErrInvalidBinName, bin.Name)
		}
	}
	return nil
}

// Load reads and validates the manifest at path.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	return Parse(path, data)
}

// Parse decodes manifest bytes; name is used only in error messages.
func Parse(name string, data []byte) (Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse %s: %w", name, err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}

// Binaries lists the package's binary targets in a stable order: explicit
// targets as declared, then discovered ones. root is the directory holding
// the manifest.
func (m Manifest) Binaries(root string) ([]Binary, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var result []Binary
	names := make(map[string]bool)
	paths := make(map[string]bool)

	for _, bin := range m.Bins {
		if names[bin.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBin, bin.Name)
		}
		path := bin.Path
		if path == "" {
			var err error
			if path, err = m.defaultBinPath(root, bin.Name); err != nil {
				return nil, err
			}
		}
		path = filepath.ToSlash(filepath.Clean(path))
		names[bin.Name] = true
		paths[path] = true
		result = append(result, Binary{Name: bin.Name, Path: path})
	}

	// Inferred targets never shadow a declared name or source file.
	add := func(b Binary) error {
		if names[b.Name] || paths[b.Path] {
			return nil
		}
		if !ValidBinName(b.Name) {
			return fmt.Errorf("%w: %q (from %s)", ErrInvalidBinName, b.Name, b.Path)
		}
		names[b.Name] = true
		paths[b.Path] = true
		result = append(result, b)
		return nil
	}

	if !m.Package.AutobinsEnabled() {
		return result, nil
	}

	if isFile(filepath.Join(root, "src", "main.rs")) {
		if err := add(Binary{Name: m.Package.Name, Path: "src/main.rs"}); err != nil {
			return nil, err
		}
	}
	discovered, err := discoverBinDir(root)
	if err != nil {
		return nil, err
	}
	for _, b := range discovered {
		if err := add(b); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (m Manifest) defaultBinPath(root, name string) (string, error) {
	candidates := []string{"src/bin/" + name + ".rs", "src/bin/" + name + "/main.rs"}
	if name == m.Package.Name {
		candidates = append([]string{"src/main.rs"}, candidates...)
	}
	for _, rel := range candidates {
		if isFile(filepath.Join(root, filepath.FromSlash(rel))) {
			return rel, nil
		}
	}
	return "", fmt.Errorf("%w for [[bin]] %q (tried %s)", ErrMissingSource, name, strings.Join(candidates, ", "))
}

func discoverBinDir(root string) ([]Binary, error) {
	entries, err := os.ReadDir(filepath.Join(root, "src", "bin"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var bins []Binary
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case entry.IsDir():
			if isFile(filepath.Join(root, "src", "bin", name, "main.rs")) {
				bins = append(bins, Binary{Name: name, Path: "src/bin/" + name + "/main.rs"})
			}
		case strings.HasSuffix(name, ".rs"):
			bins = append(bins, Binary{Name: strings.TrimSuffix(name, ".rs"), Path: "src/bin/" + name})
		}
	}
	sort.Slice(bins, func(i, j int) bool {
		return bins[i].Name < bins[j].Name
	})
	return bins, nil
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular()
}

// Reader lists binaries by loading manifests from disk.
type Reader struct{}

// ListBinaries loads the manifest at manifestPath and enumerates its
// binary targets.
func (Reader) ListBinaries(manifestPath string) ([]Binary, error) {
	m, err := Load(manifestPath)
	if err != nil {
		return nil, err
	}
	return m.Binaries(filepath.Dir(manifestPath))
}

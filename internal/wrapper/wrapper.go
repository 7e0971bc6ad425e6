// Package wrapper renders launcher scripts and installs them on disk.
package wrapper

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"mvdan.cc/sh/v3/syntax"
)

// Mode is the permission set given to installed wrappers.
const Mode fs.FileMode = 0o755

// ErrAlreadyExists indicates the wrapper path is occupied and overwriting
// was not allowed.
var ErrAlreadyExists = errors.New("wrapper already exists (pass --force to overwrite)")

const template = `#!/usr/bin/env bash
set -euo pipefail

REPO=%s
exec cargo run --quiet --release --manifest-path "$REPO/Cargo.toml" --bin %s -- "$@"
`

// Render returns a bash script that runs bin from the project at root,
// forwarding its arguments.
func Render(root, bin string) (string, error) {
	quotedRoot, err := syntax.Quote(root, syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("quote project root %q: %w", root, err)
	}
	quotedBin, err := syntax.Quote(bin, syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("quote binary name %q: %w", bin, err)
	}
	return fmt.Sprintf(template, quotedRoot, quotedBin), nil
}

// Write installs contents at path with executable permissions.
//
// The data goes to a temporary sibling first and is renamed over path, so
// path only ever holds the previous file or the complete new one. An
// existing path is left alone unless allowOverwrite is set.
func Write(path, contents string, allowOverwrite bool) error {
	if _, err := os.Lstat(path); err == nil {
		if !allowOverwrite {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.WriteString(contents); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, Mode); err != nil {
		return err
	}
	if err := atomic.ReplaceFile(tmpPath, path); err != nil {
		return err
	}
	renamed = true
	return nil
}

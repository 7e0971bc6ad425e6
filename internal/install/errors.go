package install

import (
	"errors"
	"fmt"

	"github.com/brandonbloom/cargo-dev-install/internal/project"
	"github.com/brandonbloom/cargo-dev-install/internal/target"
	"github.com/brandonbloom/cargo-dev-install/internal/wrapper"
)

// Kind classifies why an install failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindProjectNotFound
	KindMetadataQueryFailed
	KindNoTargets
	KindUnknownTarget
	KindAmbiguousTargets
	KindSelectionFailed
	KindHomeUndiscoverable
	KindAlreadyExists
	KindIOFailure
)

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindProjectNotFound:     "project not found",
	KindMetadataQueryFailed: "metadata query failed",
	KindNoTargets:           "no targets",
	KindUnknownTarget:       "unknown target",
	KindAmbiguousTargets:    "ambiguous targets",
	KindSelectionFailed:     "selection failed",
	KindHomeUndiscoverable:  "home undiscoverable",
	KindAlreadyExists:       "already exists",
	KindIOFailure:           "i/o failure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ErrHomeUndiscoverable indicates neither XDG_BIN_HOME nor HOME is set.
var ErrHomeUndiscoverable = errors.New("HOME is not set; cannot determine install directory")

// ErrUnsafeBinName indicates a binary name that is not a single path
// element.
var ErrUnsafeBinName = errors.New("binary name is not a plain file name")

// Error is returned by Plan and Apply.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindUnknown
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// classifyTarget maps resolver failures onto kinds.
func classifyTarget(err error) *Error {
	switch {
	case errors.Is(err, target.ErrNoTargets):
		return newError(KindNoTargets, err)
	case errors.Is(err, target.ErrUnknownTarget):
		return newError(KindUnknownTarget, err)
	case errors.Is(err, target.ErrAmbiguous):
		return newError(KindAmbiguousTargets, err)
	default:
		return newError(KindSelectionFailed, err)
	}
}

func classifyLocate(err error) *Error {
	if errors.Is(err, project.ErrNotFound) {
		return newError(KindProjectNotFound, err)
	}
	return newError(KindIOFailure, fmt.Errorf("failed to resolve project root: %w", err))
}

func classifyWrite(err error) *Error {
	wrapped := fmt.Errorf("failed to write wrapper: %w", err)
	if errors.Is(err, wrapper.ErrAlreadyExists) {
		return newError(KindAlreadyExists, wrapped)
	}
	return newError(KindIOFailure, wrapped)
}

// Package target picks the binary target a wrapper will launch.
package target

import (
	"errors"
	"fmt"
	"strings"
)

// Candidate is one binary target. Source is shown next to the name when
// prompting and may be empty.
type Candidate struct {
	Name   string
	Source string
}

// Selector chooses among two or more candidates.
type Selector interface {
	Select(candidates []Candidate) (string, error)
}

var (
	// ErrNoTargets indicates the project declares no binary targets.
	ErrNoTargets = errors.New("no binary targets found in Cargo.toml")
	// ErrUnknownTarget indicates the requested name is not a candidate.
	ErrUnknownTarget = errors.New("binary not found in project")
	// ErrAmbiguous indicates several candidates exist and nothing picked one.
	ErrAmbiguous = errors.New("multiple binaries found; pass --bin <name>")
	// ErrSelectionAborted indicates input ended before a valid choice.
	ErrSelectionAborted = errors.New("no selection provided")
)

// Resolve picks exactly one candidate name.
//
// A single candidate is returned even when requested names something else;
// the request is only validated when it has to disambiguate. With several
// candidates and no request, sel is consulted, or ErrAmbiguous is returned
// when sel is nil.
func Resolve(candidates []Candidate, requested string, sel Selector) (string, error) {
	switch len(candidates) {
	case 0:
		return "", ErrNoTargets
	case 1:
		return candidates[0].Name, nil
	}

	if requested != "" {
		if contains(candidates, requested) {
			return requested, nil
		}
		return "", fmt.Errorf("%w: %q (available: %s)", ErrUnknownTarget, requested, strings.Join(Names(candidates), ", "))
	}

	if sel == nil {
		return "", fmt.Errorf("%w (available: %s)", ErrAmbiguous, strings.Join(Names(candidates), ", "))
	}
	name, err := sel.Select(candidates)
	if err != nil {
		return "", fmt.Errorf("failed to select binary: %w", err)
	}
	if !contains(candidates, name) {
		return "", fmt.Errorf("failed to select binary: %w: %q", ErrUnknownTarget, name)
	}
	return name, nil
}

func contains(candidates []Candidate, name string) bool {
	for _, c := range candidates {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Names returns the candidate names in order.
func Names(candidates []Candidate) []string {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}
	return names
}

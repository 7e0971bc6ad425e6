package install

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/brandonbloom/cargo-dev-install/internal/location"
	"github.com/brandonbloom/cargo-dev-install/internal/wrapper"
)

var colorWarning = color.New(color.FgYellow, color.Bold).SprintFunc()

// ApplyOptions controls how a plan is written.
type ApplyOptions struct {
	Force bool
	// Warnings receives the PATH advisory. Nil discards it.
	Warnings io.Writer
	Color    bool
}

// Apply writes the planned wrapper. When the install directory is not on
// PATH a warning is printed; that is not an error.
func Apply(plan Plan, opts ApplyOptions) error {
	if err := wrapper.Write(plan.WrapperPath, plan.WrapperContents, opts.Force); err != nil {
		return classifyWrite(err)
	}

	if plan.PathMissing && opts.Warnings != nil {
		heading := "Warning: install directory is not on PATH"
		if opts.Color {
			heading = colorWarning(heading)
		}
		fmt.Fprintln(opts.Warnings, heading)
		fmt.Fprintln(opts.Warnings, "Add it to your shell profile, e.g.:")
		fmt.Fprintln(opts.Warnings, location.ExportHint(plan.InstallDir))
	}
	return nil
}

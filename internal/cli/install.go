package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brandonbloom/cargo-dev-install/internal/env"
	"github.com/brandonbloom/cargo-dev-install/internal/install"
	"github.com/brandonbloom/cargo-dev-install/internal/manifest"
	"github.com/brandonbloom/cargo-dev-install/internal/target"
)

type installOptions struct {
	bin     string
	force   bool
	verbose bool
}

func runInstall(cmd *cobra.Command, opts *installOptions) error {
	snap := env.Capture()
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to read cwd: %w", err)
	}

	planner := install.Planner{
		Metadata: manifest.Reader{},
		Log:      newLogger(cmd.ErrOrStderr(), opts.verbose),
	}
	if readerIsTerminal(cmd.InOrStdin()) {
		planner.Selector = &target.Menu{
			In:    cmd.InOrStdin(),
			Out:   cmd.OutOrStdout(),
			Color: writerIsTerminal(cmd.OutOrStdout()),
		}
	}

	plan, err := planner.Plan(install.Request{Bin: opts.bin}, snap, wd)
	if err != nil {
		return err
	}

	err = install.Apply(plan, install.ApplyOptions{
		Force:    opts.force,
		Warnings: cmd.ErrOrStderr(),
		Color:    writerIsTerminal(cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s -> %s\n", plan.BinName, plan.WrapperPath)
	return nil
}

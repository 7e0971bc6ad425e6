package cli

import (
	"github.com/spf13/cobra"

	"github.com/brandonbloom/cargo-dev-install/internal/version"
)

// subcommandToken is the argument cargo passes when the tool runs as
// `cargo dev-install`.
const subcommandToken = "dev-install"

// Execute runs the CLI with the given arguments, excluding the program name.
func Execute(args []string) error {
	cmd := newRootCommand()
	cmd.SetArgs(stripSubcommand(args))
	return cmd.Execute()
}

func newRootCommand() *cobra.Command {
	opts := &installOptions{}
	cmd := &cobra.Command{
		Use:           "cargo-dev-install",
		Short:         "Install a wrapper that runs this Cargo project's binary from your PATH",
		Args:          cobra.NoArgs,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, opts)
		},
	}
	cmd.SetVersionTemplate("{{.DisplayName}} version {{.Version}}\n")
	cmd.Flags().StringVar(&opts.bin, "bin", "", "binary target to install when the project has several")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing wrapper")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log planning details to stderr")
	return cmd
}

func stripSubcommand(args []string) []string {
	if len(args) > 0 && args[0] == subcommandToken {
		return args[1:]
	}
	return args
}

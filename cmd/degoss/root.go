package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/degoss/internal/config"
)

// globalFlags are shared by every operation.
type globalFlags struct {
	argsFile string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "degoss [args-file]",
		Short: "Install goss and validate a host against goss test files",
		Long: `degoss downloads the goss validator for the current platform, runs it
against a goss test file and prints a JSON result document.

Invoked with an arguments file and no subcommand (either "degoss <file>" or
"degoss --args <file>"), degoss behaves like "degoss run --args <file>", which
is how automation tools call binary modules.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				g.argsFile = args[0]
			}
			if g.argsFile == "" {
				return cmd.Help()
			}
			return execute(cmd, g, config.ModeRun)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVar(&g.argsFile, "args", "", "Arguments file (.json, .yaml, .yml or .lua)")
	cmd.PersistentFlags().String("log-file", "", "Append log records to this file")
	cmd.PersistentFlags().Bool("verbose", false, "Echo log records to stderr")

	cmd.AddCommand(newInstallCmd(g))
	cmd.AddCommand(newValidateCmd(g))
	cmd.AddCommand(newRunCmd(g))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

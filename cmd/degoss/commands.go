package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/degoss/internal/config"
)

func newInstallCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download goss into a directory",
		Example: `  degoss install --bin-dir /usr/local/bin
  degoss install --bin-dir /opt/bin --version 0.4.4 --checksum`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, g, config.ModeInstall)
		},
	}
	addInstallFlags(cmd)
	return cmd
}

func newValidateCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run an existing goss against a test file",
		Example: `  degoss validate --path goss.yml
  degoss validate --path goss.yml --executable /opt/bin/goss --env ROLE=web`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, g, config.ModeValidate)
		},
	}
	addValidateFlags(cmd)
	cmd.Flags().String("executable", "", "goss executable (default: goss on PATH)")
	return cmd
}

func newRunCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Install goss, validate, then remove it",
		Example: `  degoss run --bin-dir /tmp/degoss --path goss.yml
  degoss run --args degoss.lua --clean=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, g, config.ModeRun)
		},
	}
	addInstallFlags(cmd)
	addValidateFlags(cmd)
	cmd.Flags().Bool("clean", true, "Remove the installed goss afterwards")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the degoss version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "degoss %s\n", Version)
		},
	}
}

package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ZebulonRouseFrantzich/degoss/internal/config"
	"github.com/ZebulonRouseFrantzich/degoss/internal/goss"
)

// flagKeys maps flag names to option keys where the two differ beyond
// dashes versus underscores.
var flagKeys = map[string]string{
	"env": config.KeyEnvVars,
}

func addInstallFlags(cmd *cobra.Command) {
	cmd.Flags().String("bin-dir", "", "Directory to install goss into")
	cmd.Flags().String("version", config.DefaultVersion, `goss release to install, or "latest"`)
	cmd.Flags().Bool("checksum", false, "Verify the download against its published SHA256")
	cmd.Flags().String("gpg-keyring", "", "Verify the download's .asc signature against this keyring")
}

func addValidateFlags(cmd *cobra.Command) {
	cmd.Flags().String("path", "", "goss test file")
	cmd.Flags().String("cwd", config.DefaultCwd, "Working directory for goss")
	cmd.Flags().String("format", string(goss.DefaultFormat), "goss output format")
	cmd.Flags().StringToString("env", nil, "Environment override for goss, KEY=value (repeatable)")
	cmd.Flags().Duration("timeout", config.DefaultTimeout, "Maximum time goss may run")
}

// flagParams returns the flags set on the command line as option values.
// Flags left at their defaults are omitted so argument files can supply them.
func flagParams(flags *pflag.FlagSet) (map[string]any, error) {
	params := map[string]any{}
	var err error

	flags.Visit(func(f *pflag.Flag) {
		if err != nil || f.Name == "args" {
			return
		}

		key, ok := flagKeys[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}

		switch f.Value.Type() {
		case "bool":
			params[key], err = flags.GetBool(f.Name)
		case "stringToString":
			params[key], err = flags.GetStringToString(f.Name)
		default:
			params[key] = f.Value.String()
		}
	})

	return params, err
}

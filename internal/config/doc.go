// Package config turns degoss arguments into a typed Config.
//
// Arguments arrive as a flat mapping of option names to loosely typed values,
// either from an argument file or from command-line flags. Decode is the
// single place where those values are coerced: truthy strings become bools,
// durations are parsed, environment overrides are classified. Nothing past
// this package sees an untyped value.
//
// # Argument files
//
// Three formats are accepted, chosen by extension:
//   - .json: module arguments as written by Ansible (numbers kept verbatim)
//   - .yaml / .yml
//   - .lua: a sandboxed script that assigns a global degoss table
//
// Lua files run with the os, io, debug and module-loading libraries removed,
// and can branch on a read-only platform table:
//
//	degoss = {
//	  bin_dir = "/usr/local/bin",
//	  path = "goss.yml",
//	  version = platform.is_arm64 and "0.4.4" or "latest",
//	  env_vars = { ROLE = "web", TLS = true },
//	}
//
// Keys starting with _ansible_ are ignored. Any other unknown key is an error.
package config

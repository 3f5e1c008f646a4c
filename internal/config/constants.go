package config

import "time"

// Option names as they appear in argument files and flags.
const (
	KeyBinDir     = "bin_dir"
	KeyVersion    = "version"
	KeyLogFile    = "log_file"
	KeyVerbose    = "verbose"
	KeyPath       = "path"
	KeyCwd        = "cwd"
	KeyFormat     = "format"
	KeyExecutable = "executable"
	KeyEnvVars    = "env_vars"
	KeyChecksum   = "checksum"
	KeyGPGKeyring = "gpg_keyring"
	KeyTimeout    = "timeout"
	KeyClean      = "clean"

	// ansiblePrefix marks framework-internal keys that are always ignored.
	ansiblePrefix = "_ansible_"

	// luaGlobalDegoss is the table a Lua argument file must assign.
	luaGlobalDegoss = "degoss"
)

// Defaults
const (
	DefaultVersion = "latest"
	DefaultCwd     = "."
	DefaultTimeout = 10 * time.Minute
)

// Resource limits for argument files.
const (
	// MaxFileSize caps any argument file read from disk.
	MaxFileSize = 10 * 1024 * 1024
	// DefaultParseTimeout bounds Lua evaluation when ctx has no deadline.
	DefaultParseTimeout = 5 * time.Second
	// maxLuaDepth bounds nested tables converted out of Lua.
	maxLuaDepth = 32
	// maxYAMLDepth bounds nested collections and alias expansion in YAML.
	maxYAMLDepth = 32
	// maxYAMLNodes bounds the values produced from one YAML document.
	maxYAMLNodes = 100000
	// luaCallStackSize bounds Lua recursion.
	luaCallStackSize = 256
)

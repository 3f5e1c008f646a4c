package platform

import "strings"

// archMap rewrites kernel-reported architecture tokens to goss release names.
// goss publishes goss-linux-amd64 and goss-linux-386; every other token
// already matches the published name.
var archMap = map[string]string{
	"x86_64": "amd64",
	"i386":   "386",
}

// NormalizeArch converts a reported architecture token to goss naming.
// Unknown tokens pass through unchanged.
func NormalizeArch(arch string) string {
	if mapped, ok := archMap[arch]; ok {
		return mapped
	}
	return arch
}

// normalizeOS lower-cases a kernel name ("Linux" -> "linux").
func normalizeOS(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

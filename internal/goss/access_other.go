//go:build !unix

package goss

import "os"

// readable probes read access by opening path.
func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

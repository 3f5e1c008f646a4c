//go:build unix

package goss

import "golang.org/x/sys/unix"

// readable asks the kernel whether the current user may read path.
func readable(path string) bool {
	return unix.Access(path, unix.R_OK) == nil
}

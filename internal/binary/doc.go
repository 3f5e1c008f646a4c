// Package binary downloads the goss validator and installs it into a
// target directory.
//
// # Install sequence
//
//  1. The target directory must already exist.
//  2. An install lock (.goss.lock) is taken in the directory.
//  3. The release artifact is streamed into a temp file next to the target.
//  4. Optional verification runs against the temp file.
//  5. The temp file is made executable (0755) and renamed onto <dir>/goss.
//
// The temp file is removed on every failure path, so a failed install never
// leaves a partial or unverified binary behind.
//
// # Verification
//
// Verification is off by default. Two methods can be enabled, independently:
//   - SHA256: fetch <url>.sha256 and compare it to the downloaded bytes
//   - GPG: fetch <url>.asc and check it as a detached signature against a
//     caller-supplied keyring
//
// # Usage
//
//	inst := binary.NewInstaller(binary.Config{Logger: logger})
//	path, err := inst.Install(ctx, desc, "/usr/local/bin")
package binary

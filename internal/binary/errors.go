package binary

import (
	"errors"
	"fmt"
)

// ErrLockExists is returned when another install holds the directory lock.
var ErrLockExists = errors.New("install lock exists: another goss install may be in progress")

// DownloadError reports that the binary could not be fetched or written.
type DownloadError struct {
	URL        string
	Path       string
	StatusCode int // non-zero when the server answered with a non-200 status
	Err        error
}

func (e *DownloadError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("unable to download goss binary from %s, HTTP status %d", e.URL, e.StatusCode)
	case e.URL == "":
		return fmt.Sprintf("unable to install goss into %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("unable to download goss binary from %s: %v", e.URL, e.Err)
	}
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// VerificationMethod indicates how a binary was verified.
type VerificationMethod int

const (
	VerificationNone VerificationMethod = iota
	VerificationGPG
	VerificationSHA256
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationGPG:
		return "GPG"
	case VerificationSHA256:
		return "SHA256"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}

// VerificationError reports that a downloaded artifact failed verification.
type VerificationError struct {
	URL    string
	Method VerificationMethod
	Err    error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s verification failed for %s: %v", e.Method, e.URL, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

package binary

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"code.cloudfoundry.org/clock"
)

const (
	// LockFileName is created inside the install directory for the duration
	// of an install.
	LockFileName = ".goss.lock"

	// StaleLockThreshold is the age after which a lock left behind by a dead
	// install may be taken over.
	StaleLockThreshold = 10 * time.Minute
)

// Lock is a held install lock. Release it when the install is done.
type Lock struct {
	path string
}

// AcquireLock creates the install lock in dir, recording owner. A lock older
// than StaleLockThreshold (by clk) is replaced; any other existing lock fails
// with an error wrapping ErrLockExists.
func AcquireLock(dir, owner string, clk clock.Clock) (*Lock, error) {
	path := filepath.Join(dir, LockFileName)
	content := fmt.Sprintf("pid=%d\nowner=%s\ntimestamp=%s\n",
		os.Getpid(), owner, clk.Now().UTC().Format(time.RFC3339))

	err := writeLockFile(path, content)
	if errors.Is(err, os.ErrExist) {
		info, statErr := os.Stat(path)
		if statErr != nil || clk.Since(info.ModTime()) <= StaleLockThreshold {
			return nil, lockHeld(path)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove stale lock: %w", err)
		}
		err = writeLockFile(path, content)
		if errors.Is(err, os.ErrExist) {
			return nil, lockHeld(path)
		}
	}
	if err != nil {
		return nil, err
	}

	return &Lock{path: path}, nil
}

// writeLockFile exclusively creates path with content. Partial files are
// removed on failure.
func writeLockFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			return err
		}
		return fmt.Errorf("create lock file: %w", err)
	}

	_, err = f.WriteString(content)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("write lock file: %w", err)
	}
	return nil
}

// lockHeld builds the contention error, naming the holder when the lock
// file says who it is.
func lockHeld(path string) error {
	if owner := lockOwner(path); owner != "" {
		return fmt.Errorf("%w (held by %s)", ErrLockExists, owner)
	}
	return ErrLockExists
}

func lockOwner(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if owner, ok := strings.CutPrefix(scanner.Text(), "owner="); ok {
			return owner
		}
	}
	return ""
}

// Release removes the lock file. Calling it more than once is harmless.
func (l *Lock) Release() error {
	if l.path == "" {
		return nil
	}

	path := l.path
	l.path = ""
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

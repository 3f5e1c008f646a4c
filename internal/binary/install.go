package binary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"code.cloudfoundry.org/clock"
	"github.com/google/uuid"

	"github.com/ZebulonRouseFrantzich/degoss/internal/release"
)

// BinaryName is the file name of the installed validator.
const BinaryName = "goss"

// Config configures an Installer. Zero values select the defaults.
type Config struct {
	Client    *http.Client
	UserAgent string
	Verifier  Verifier
	// InvocationID is written to the install lock. Generated when empty.
	InvocationID string
	Clock        clock.Clock
	Logger       *slog.Logger
}

// Installer places a goss release artifact into a directory.
type Installer struct {
	downloader *Downloader
	verifier   Verifier
	owner      string
	clock      clock.Clock
	logger     *slog.Logger
}

// NewInstaller creates an installer from config.
func NewInstaller(config Config) *Installer {
	inst := &Installer{
		downloader: NewDownloader(config.Client, config.UserAgent),
		verifier:   config.Verifier,
		owner:      config.InvocationID,
		clock:      config.Clock,
		logger:     config.Logger,
	}

	if inst.owner == "" {
		inst.owner = uuid.NewString()
	}
	if inst.clock == nil {
		inst.clock = clock.NewClock()
	}
	if inst.logger == nil {
		inst.logger = slog.New(slog.DiscardHandler)
	}

	return inst
}

// Path returns the install location of the binary inside dir.
func Path(dir string) string {
	return filepath.Join(dir, BinaryName)
}

// Install downloads desc into dir and returns the path of the installed
// binary. An existing binary is replaced atomically.
func (i *Installer) Install(ctx context.Context, desc *release.Descriptor, dir string) (string, error) {
	if desc == nil {
		return "", fmt.Errorf("release descriptor is required")
	}

	if err := checkTargetDir(dir); err != nil {
		return "", err
	}

	lock, err := AcquireLock(dir, i.owner, i.clock)
	if err != nil {
		if errors.Is(err, ErrLockExists) {
			return "", err
		}
		return "", &DownloadError{Path: dir, Err: err}
	}
	defer func() {
		if err := lock.Release(); err != nil {
			i.logger.Warn("failed to release install lock", "error", err)
		}
	}()

	i.logger.Debug("downloading goss binary", "url", desc.URL, "version", desc.Version)

	tmpPath, err := i.downloader.DownloadTemp(ctx, desc.URL, dir)
	if err != nil {
		return "", err
	}

	// Track whether we need to clean up the temp file
	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if err := i.verify(ctx, tmpPath, desc.URL); err != nil {
		return "", err
	}

	if err := SetExecutable(tmpPath); err != nil {
		return "", &DownloadError{URL: desc.URL, Path: tmpPath, Err: err}
	}

	target := Path(dir)
	if err := os.Rename(tmpPath, target); err != nil {
		return "", &DownloadError{URL: desc.URL, Path: target, Err: fmt.Errorf("rename temp file: %w", err)}
	}
	cleanupNeeded = false

	i.logger.Debug("installed goss binary", "path", target)

	return target, nil
}

// verify runs the configured checks against the downloaded file.
func (i *Installer) verify(ctx context.Context, binaryPath, url string) error {
	if i.verifier.Checksum {
		sums, err := i.downloader.Fetch(ctx, url+checksumSuffix)
		if err != nil {
			return &VerificationError{URL: url, Method: VerificationSHA256, Err: err}
		}
		if err := verifySHA256(binaryPath, sums, release.TagFromURL(url)); err != nil {
			return &VerificationError{URL: url, Method: VerificationSHA256, Err: err}
		}
		i.logger.Debug("verified goss binary", "method", VerificationSHA256.String())
	}

	if i.verifier.KeyringPath != "" {
		sig, err := i.downloader.Fetch(ctx, url+signatureSuffix)
		if err != nil {
			return &VerificationError{URL: url, Method: VerificationGPG, Err: err}
		}
		keyID, err := verifyGPG(binaryPath, sig, i.verifier.KeyringPath)
		if err != nil {
			return &VerificationError{URL: url, Method: VerificationGPG, Err: err}
		}
		i.logger.Debug("verified goss binary", "method", VerificationGPG.String(), "key", keyID)
	}

	return nil
}

// Remove deletes the installed binary from dir. A missing binary is not an
// error.
func (i *Installer) Remove(dir string) error {
	target := Path(dir)
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove goss binary: %w", err)
	}

	i.logger.Debug("removed goss binary", "path", target)
	return nil
}

// SetExecutable makes the downloaded validator runnable by everyone and
// writable only by its owner (0755).
func SetExecutable(path string) error {
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}

func checkTargetDir(dir string) error {
	if dir == "" {
		return &DownloadError{Path: dir, Err: fmt.Errorf("install directory is undefined")}
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &DownloadError{Path: dir, Err: fmt.Errorf("directory does not exist")}
		}
		return &DownloadError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return &DownloadError{Path: dir, Err: fmt.Errorf("not a directory")}
	}

	return nil
}

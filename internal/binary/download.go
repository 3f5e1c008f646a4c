package binary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "degoss"

	// maxSidecarSize caps .sha256 and .asc downloads.
	maxSidecarSize = 1 << 20
)

// Downloader performs single-attempt HTTP downloads.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader creates a new downloader. A nil client gets a default one
// with DefaultTimeout.
func NewDownloader(client *http.Client, userAgent string) *Downloader {
	if client == nil {
		client = &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Release assets redirect to a CDN
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Downloader{client: client, userAgent: userAgent}
}

// get issues a GET and returns the response when the status is 200.
func (d *Downloader) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &DownloadError{URL: url, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &DownloadError{URL: url, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &DownloadError{URL: url, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

// DownloadTemp streams url into a new temp file inside dir and returns its
// path. The caller owns the file; nothing is left behind on error.
func (d *Downloader) DownloadTemp(ctx context.Context, url, dir string) (string, error) {
	resp, err := d.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(dir, "."+BinaryName+"-*.tmp")
	if err != nil {
		return "", &DownloadError{URL: url, Path: dir, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpPath := tmpFile.Name()

	// Track whether we need to clean up the temp file
	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return "", &DownloadError{URL: url, Path: tmpPath, Err: fmt.Errorf("copy response body: %w", err)}
	}

	if err := tmpFile.Close(); err != nil {
		return "", &DownloadError{URL: url, Path: tmpPath, Err: fmt.Errorf("close temp file: %w", err)}
	}

	cleanupNeeded = false
	return tmpPath, nil
}

// Fetch downloads a small companion file (checksum or signature) into memory.
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := d.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSidecarSize))
	if err != nil {
		return nil, &DownloadError{URL: url, Err: fmt.Errorf("read response body: %w", err)}
	}

	return data, nil
}

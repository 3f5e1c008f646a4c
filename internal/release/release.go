// Package release turns a requested goss version into a concrete download URL.
//
// A literal version is used as-is. The "latest" sentinel is resolved by
// requesting the vendor's latest-release page and reading the tag off the
// URL the server redirects to.
package release

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/degoss/internal/platform"
)

const (
	// Latest requests dynamic resolution of the newest release.
	Latest = "latest"

	// DefaultLatestURL redirects to .../releases/tag/v<version>.
	DefaultLatestURL = "https://github.com/aelsabbahy/goss/releases/latest"

	// DefaultDownloadURLTemplate is the per-platform binary location.
	DefaultDownloadURLTemplate = "https://github.com/aelsabbahy/goss/releases/download/v{version}/goss-{os}-{arch}"

	// DefaultTimeout bounds a single latest-release lookup.
	DefaultTimeout = 5 * time.Minute

	// DefaultUserAgent is sent when no versioned agent is configured.
	DefaultUserAgent = "degoss"
)

// Descriptor identifies exactly which artifact to fetch.
type Descriptor struct {
	Version string
	URL     string
}

// ResolutionError reports that the latest release could not be determined.
type ResolutionError struct {
	URL        string
	StatusCode int   // set when the server answered with a non-200 status
	Err        error // set on transport or parse failures
}

func (e *ResolutionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("unable to determine latest goss release, HTTP status %d", e.StatusCode)
	}
	return fmt.Sprintf("unable to determine latest goss release from %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Config configures a Resolver. Zero values select the defaults.
type Config struct {
	LatestURL           string
	DownloadURLTemplate string
	Client              *http.Client
	UserAgent           string
	Logger              *slog.Logger
}

// Resolver produces release descriptors.
type Resolver struct {
	latestURL   string
	urlTemplate string
	client      *http.Client
	userAgent   string
	logger      *slog.Logger
}

// NewResolver creates a resolver from config.
func NewResolver(config Config) *Resolver {
	r := &Resolver{
		latestURL:   config.LatestURL,
		urlTemplate: config.DownloadURLTemplate,
		client:      config.Client,
		userAgent:   config.UserAgent,
		logger:      config.Logger,
	}

	if r.latestURL == "" {
		r.latestURL = DefaultLatestURL
	}
	if r.urlTemplate == "" {
		r.urlTemplate = DefaultDownloadURLTemplate
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: DefaultTimeout}
	}
	if r.userAgent == "" {
		r.userAgent = DefaultUserAgent
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}

	return r
}

// Resolve returns the descriptor for requested on the given platform.
// Only the "latest" sentinel (or an empty request) touches the network.
func (r *Resolver) Resolve(ctx context.Context, requested string, info *platform.Info) (*Descriptor, error) {
	if info == nil {
		return nil, fmt.Errorf("platform info is required")
	}

	version := requested
	if version == "" || version == Latest {
		r.logger.Debug("goss version requested is latest, detecting the latest available release", "url", r.latestURL)

		latest, err := r.latestVersion(ctx)
		if err != nil {
			return nil, err
		}
		version = latest

		r.logger.Info("detected latest goss version", "version", version)
	}

	return &Descriptor{
		Version: version,
		URL:     BuildDownloadURL(r.urlTemplate, version, info),
	}, nil
}

// latestVersion follows the latest-release redirect and reads the tag off
// the final URL.
func (r *Resolver) latestVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.latestURL, nil)
	if err != nil {
		return "", &ResolutionError{URL: r.latestURL, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &ResolutionError{URL: r.latestURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ResolutionError{URL: r.latestURL, StatusCode: resp.StatusCode}
	}

	finalURL := resp.Request.URL.String()
	tag := TagFromURL(finalURL)
	if tag == "" {
		return "", &ResolutionError{URL: finalURL, Err: fmt.Errorf("no release tag in final URL")}
	}

	return VersionFromTag(tag), nil
}

// TagFromURL returns the last "/"-separated segment of u, ignoring any
// query string or fragment.
func TagFromURL(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return u[strings.LastIndex(u, "/")+1:]
}

// VersionFromTag strips one leading "v" from a release tag.
//
//	VersionFromTag("v0.3.6") == "0.3.6"
//	VersionFromTag("0.3.6")  == "0.3.6"
func VersionFromTag(tag string) string {
	return strings.TrimPrefix(tag, "v")
}

// BuildDownloadURL substitutes {version}, {os} and {arch} in template.
func BuildDownloadURL(template, version string, info *platform.Info) string {
	return strings.NewReplacer(
		"{version}", version,
		"{os}", info.OS,
		"{arch}", info.Arch,
	).Replace(template)
}

package binary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDownloaderDownloadTemp(t *testing.T) {
	const artifact = "#!/bin/sh\nexit 0\n"

	tests := []struct {
		name       string
		path       string
		wantStatus int // 0 means success
	}{
		{name: "direct", path: "/goss-linux-amd64"},
		{name: "cdn_redirect", path: "/redirect"},
		{name: "not_found", path: "/missing", wantStatus: http.StatusNotFound},
		{name: "server_error", path: "/broken", wantStatus: http.StatusInternalServerError},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/goss-linux-amd64", func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "degoss/test" {
			t.Errorf("User-Agent = %q, want degoss/test", ua)
		}
		w.Write([]byte(artifact))
	})
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/goss-linux-amd64", http.StatusFound)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			tmpPath, err := NewDownloader(nil, "degoss/test").DownloadTemp(context.Background(), server.URL+tt.path, dir)

			if tt.wantStatus != 0 {
				var dlErr *DownloadError
				if !errors.As(err, &dlErr) || dlErr.StatusCode != tt.wantStatus {
					t.Fatalf("DownloadTemp() error = %v, want HTTP %d", err, tt.wantStatus)
				}
				assertDirEmpty(t, dir)
				return
			}
			if err != nil {
				t.Fatalf("DownloadTemp() error = %v", err)
			}

			if filepath.Dir(tmpPath) != dir {
				t.Errorf("temp file %s not created in %s", tmpPath, dir)
			}
			if got, _ := os.ReadFile(tmpPath); string(got) != artifact {
				t.Errorf("downloaded %q, want %q", got, artifact)
			}
		})
	}
}

func TestDownloaderNoRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	downloader := NewDownloader(nil, "")
	if _, err := downloader.DownloadTemp(context.Background(), server.URL, t.TempDir()); err == nil {
		t.Fatal("expected error")
	}

	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDownloaderContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Simulate slow response
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	downloader := NewDownloader(nil, "")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := downloader.DownloadTemp(ctx, server.URL, t.TempDir())
	if err == nil {
		t.Fatal("expected context cancellation error")
	}

	if !errors.Is(err, context.DeadlineExceeded) && !strings.Contains(err.Error(), "context") {
		t.Errorf("expected context error, got: %v", err)
	}
}

func TestDownloaderFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("abc123  goss-linux-amd64\n"))
	}))
	defer server.Close()

	downloader := NewDownloader(nil, "")

	data, err := downloader.Fetch(context.Background(), server.URL+"/goss-linux-amd64.sha256")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != "abc123  goss-linux-amd64\n" {
		t.Errorf("Fetch() = %q", data)
	}

	_, err = downloader.Fetch(context.Background(), server.URL+"/missing")
	var dlErr *DownloadError
	if !errors.As(err, &dlErr) || dlErr.StatusCode != http.StatusNotFound {
		t.Errorf("Fetch() error = %v, want 404 *DownloadError", err)
	}
}

func TestDownloadErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *DownloadError
		want string
	}{
		{
			name: "status",
			err:  &DownloadError{URL: "https://x/goss", StatusCode: 404},
			want: "unable to download goss binary from https://x/goss, HTTP status 404",
		},
		{
			name: "transport",
			err:  &DownloadError{URL: "https://x/goss", Err: errors.New("connection refused")},
			want: "unable to download goss binary from https://x/goss: connection refused",
		},
		{
			name: "target",
			err:  &DownloadError{Path: "/nope", Err: errors.New("directory does not exist")},
			want: "unable to install goss into /nope: directory does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected %s to be empty, found %v", dir, names)
	}
}

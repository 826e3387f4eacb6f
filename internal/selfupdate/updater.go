// Package selfupdate checks GitHub releases for a newer kumitate build
// and swaps the running binary in place.
package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

const (
	defaultOwner = "ayasuda"
	defaultRepo  = "kumitate"
)

// Updater checks for and applies releases.
type Updater struct {
	owner       string
	repo        string
	apiBaseURL  string
	downloadURL string
	client      *http.Client
	execPath    func() (string, error)
}

// Option configures an Updater.
type Option func(*Updater)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(u *Updater) { u.client.Timeout = d }
}

// WithBaseURLs overrides the GitHub API and download hosts, for tests.
func WithBaseURLs(api, download string) Option {
	return func(u *Updater) {
		u.apiBaseURL = api
		u.downloadURL = download
	}
}

// New creates an Updater for the kumitate release repository.
func New(opts ...Option) *Updater {
	u := &Updater{
		owner:       defaultOwner,
		repo:        defaultRepo,
		apiBaseURL:  "https://api.github.com",
		downloadURL: "https://github.com",
		client:      &http.Client{Timeout: 30 * time.Second},
		execPath:    os.Executable,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// CheckResult reports what the latest release is relative to the running
// version.
type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
}

// Check queries the latest release tag and compares semver.
func (u *Updater) Check(ctx context.Context, currentVersion string) (*CheckResult, error) {
	if currentVersion == "(devel)" {
		return nil, ErrDevBuild
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", u.apiBaseURL, u.owner, u.repo)
	raw, err := u.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("query latest release: %w", err)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(raw, &release); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}

	current := ensureV(currentVersion)
	latest := ensureV(release.TagName)
	if !semver.IsValid(latest) {
		return nil, fmt.Errorf("release tag %q is not valid semver", release.TagName)
	}

	return &CheckResult{
		CurrentVersion:  current,
		LatestVersion:   latest,
		UpdateAvailable: semver.IsValid(current) && semver.Compare(latest, current) > 0,
	}, nil
}

// Progress reports update stages to the caller.
type Progress struct {
	Stage   string
	Message string
}

// Update downloads the latest (or the given target) release, verifies its
// checksum, and replaces the running binary.
func (u *Updater) Update(ctx context.Context, currentVersion, targetVersion string, progress func(Progress)) error {
	tag := targetVersion
	if tag == "" {
		progress(Progress{Stage: "check", Message: "Checking for latest version..."})
		result, err := u.Check(ctx, currentVersion)
		if err != nil {
			return err
		}
		if !result.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = result.LatestVersion
	}

	asset, err := assetFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	base := strings.TrimRight(u.downloadURL, "/")
	assetURL := fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", base, u.owner, u.repo, tag, asset)
	checksumsURL := fmt.Sprintf("%s/%s/%s/releases/download/%s/checksums.txt", base, u.owner, u.repo, tag)

	progress(Progress{Stage: "download", Message: fmt.Sprintf("Downloading %s...", tag)})
	archive, err := u.fetch(ctx, assetURL)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	progress(Progress{Stage: "verify", Message: "Verifying checksum..."})
	checksums, err := u.fetch(ctx, checksumsURL)
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(checksums)[asset]
	if !ok {
		return fmt.Errorf("no checksum for %s in checksums.txt", asset)
	}
	sum := sha256.Sum256(archive)
	if hex.EncodeToString(sum[:]) != want {
		return fmt.Errorf("%w: archive hash mismatch", ErrChecksum)
	}

	progress(Progress{Stage: "extract", Message: "Extracting binary..."})
	binary, err := extractBinary(archive, asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	progress(Progress{Stage: "apply", Message: "Applying update..."})
	target, err := u.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if err := replaceBinary(binary, target); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	progress(Progress{Stage: "done", Message: fmt.Sprintf("Updated to %s", tag)})
	return nil
}

func (u *Updater) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// ensureV prefixes a bare version with "v" so semver accepts release tags
// written either way.
func ensureV(version string) string {
	if version == "" || strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

func assetFor(goos, goarch string) (string, error) {
	arch := releaseArch(goarch)
	if arch == "" {
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}
	switch goos {
	case "darwin":
		return "kumitate_Darwin_all.tar.gz", nil
	case "linux":
		return fmt.Sprintf("kumitate_Linux_%s.tar.gz", arch), nil
	case "windows":
		return fmt.Sprintf("kumitate_Windows_%s.zip", arch), nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", goos)
	}
}

func releaseArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "arm64"
	default:
		return ""
	}
}

func parseChecksums(data []byte) map[string]string {
	result := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 2 {
			result[fields[1]] = fields[0]
		}
	}
	return result
}

func extractBinary(archive []byte, asset string) ([]byte, error) {
	if strings.HasSuffix(asset, ".zip") {
		return extractFromZip(archive, "kumitate.exe")
	}
	return extractFromTarGz(archive, "kumitate")
}

func extractFromTarGz(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

func extractFromZip(data []byte, name string) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range r.File {
		if filepath.Base(f.Name) == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer func() { _ = rc.Close() }()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

// replaceBinary writes the new binary next to the target and renames it
// into place, preserving the original file mode.
func replaceBinary(binary []byte, targetPath string) error {
	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	tmpDir, err := os.MkdirTemp(filepath.Dir(targetPath), ".kumitate-update-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	tmpFile := filepath.Join(tmpDir, "kumitate-new")
	if err := os.WriteFile(tmpFile, binary, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, targetPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	if err := os.Chmod(targetPath, info.Mode()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return nil
}

// fetch.go
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// NewFetcher creates a new source archive fetcher
func NewFetcher(cfg *Config) *Fetcher {
	if cfg == nil {
		cfg = &Config{}
	}

	if cfg.DownloadDir == "" {
		cfg.DownloadDir = filepath.Join(os.TempDir(), "lwsrecipe", "downloads")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	f := &Fetcher{
		client: NewClient(cfg.Timeout),
		config: cfg,
		logger: logger.Named("source"),
	}

	f.logger.Debug("initialized fetcher", "download_dir", cfg.DownloadDir, "timeout", cfg.Timeout)
	return f
}

// Fetch downloads the archive, verifies it and leaves its root directory at opts.Dest
func (f *Fetcher) Fetch(ctx context.Context, archive Archive, opts FetchOptions) error {
	if archive.URL == "" {
		return fmt.Errorf("archive URL is required")
	}
	if opts.Dest == "" {
		return fmt.Errorf("destination is required")
	}

	f.logger.Info("fetching source", "url", archive.URL, "dest", opts.Dest)

	// 1. Download (or reuse the cached copy)
	f.logger.Debug("step 1: downloading archive")
	archivePath, err := f.download(ctx, archive, opts.Force)
	if err != nil {
		return fmt.Errorf("downloading archive: %w", err)
	}

	// 2. Verify hash
	if archive.SHA256 != "" {
		f.logger.Debug("step 2: verifying sha256")
		if err := verifyFileHash(archivePath, archive.SHA256); err != nil {
			os.Remove(archivePath)
			return err
		}
	} else {
		f.logger.Debug("step 2: skipping hash verification, no checksum pinned")
	}

	// 3. Extract next to the destination so the final rename stays on one filesystem
	f.logger.Debug("step 3: extracting archive")
	parent := filepath.Dir(opts.Dest)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("creating destination parent: %w", err)
	}
	staging, err := os.MkdirTemp(parent, ".extract-*")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := ExtractArchive(archivePath, staging, f.logger); err != nil {
		return fmt.Errorf("extracting archive: %w", err)
	}

	// 4. Move the archive root into place
	f.logger.Debug("step 4: moving archive root into place")
	root, err := archiveRoot(staging, archive.Root)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(opts.Dest); err != nil {
		return fmt.Errorf("removing previous sources: %w", err)
	}
	if err := os.Rename(root, opts.Dest); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", root, opts.Dest, err)
	}

	// 5. Cleanup archive if requested
	if !opts.KeepArchive {
		if err := os.Remove(archivePath); err != nil {
			f.logger.Warn("failed to remove archive", "path", archivePath, "error", err)
		}
	}

	f.logger.Info("sources ready", "dir", opts.Dest)
	return nil
}

// download fetches the archive into the download directory and returns its path
func (f *Fetcher) download(ctx context.Context, archive Archive, force bool) (string, error) {
	if err := os.MkdirAll(f.config.DownloadDir, 0755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}

	name, err := archiveFileName(archive.URL)
	if err != nil {
		return "", err
	}
	destPath := filepath.Join(f.config.DownloadDir, name)

	if !force {
		if _, err := os.Stat(destPath); err == nil {
			if archive.SHA256 == "" || verifyFileHash(destPath, archive.SHA256) == nil {
				f.logger.Debug("using cached archive", "path", destPath)
				return destPath, nil
			}
			f.logger.Warn("cached archive does not match checksum, downloading again", "path", destPath)
		}
	}

	tmp, err := os.CreateTemp(f.config.DownloadDir, name+".part-*")
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := f.client.Download(ctx, archive.URL, tmp)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("moving download into place: %w", err)
	}

	f.logger.Debug("downloaded archive", "bytes", written, "path", destPath)
	return destPath, nil
}

// archiveFileName derives a cache file name from the archive URL. GitHub archive URLs end in
// the bare tag ("v4.0-stable.tar.gz"), so the repository name is prefixed to keep them apart.
func archiveFileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing archive URL: %w", err)
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return "", fmt.Errorf("archive URL %q has no file name", rawURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "archive" && i > 0 {
			return parts[i-1] + "-" + base, nil
		}
	}
	return base, nil
}

// archiveRoot finds the directory to move into place after extraction
func archiveRoot(staging, want string) (string, error) {
	if want != "" {
		root, err := safeJoin(staging, want)
		if err != nil {
			return "", err
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			return "", fmt.Errorf("archive has no top-level directory %q", want)
		}
		return root, nil
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return "", fmt.Errorf("reading staging directory: %w", err)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(staging, entries[0].Name()), nil
	}
	return staging, nil
}

// verifyFileHash verifies the SHA256 hash of a downloaded file
func verifyFileHash(filePath, expectedHash string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return fmt.Errorf("computing hash: %w", err)
	}

	actualHash := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(actualHash, expectedHash) {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, expectedHash, actualHash)
	}

	return nil
}

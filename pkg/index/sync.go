package index

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/hashicorp/go-hclog"
)

const (
	RepoURL    = "https://github.com/arc-language/lwsrecipe-deps"
	RepoBranch = "main"
)

// Options configures a registry sync
type Options struct {
	URL      string // Defaults to RepoURL
	Branch   string // Defaults to RepoBranch
	Progress io.Writer
	Logger   hclog.Logger
}

// clone is replaced in tests
var clone = func(ctx context.Context, dir string, o *git.CloneOptions) error {
	_, err := git.PlainCloneContext(ctx, dir, false, o)
	return err
}

// Sync clones the registry repo and replaces the cached deps/ folder with its deps/
func Sync(ctx context.Context, cacheDir string, opts Options) error {
	if opts.URL == "" {
		opts.URL = RepoURL
	}
	if opts.Branch == "" {
		opts.Branch = RepoBranch
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("index")

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	tempDir, err := os.MkdirTemp(cacheDir, ".deps-clone-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	logger.Info("updating dependency registry", "url", opts.URL, "branch", opts.Branch)

	err = clone(ctx, tempDir, &git.CloneOptions{
		URL:           opts.URL,
		ReferenceName: plumbing.NewBranchReferenceName(opts.Branch),
		SingleBranch:  true,
		Depth:         1,
		Progress:      opts.Progress,
	})
	if err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}

	src := filepath.Join(tempDir, "deps")
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return fmt.Errorf("registry repo %s has no deps/ directory", opts.URL)
	}

	// Stage next to the live copy, then swap.
	staged := filepath.Join(cacheDir, ".deps-new")
	os.RemoveAll(staged)
	if err := copyDir(src, staged); err != nil {
		os.RemoveAll(staged)
		return fmt.Errorf("copying deps: %w", err)
	}

	dst := filepath.Join(cacheDir, "deps")
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("removing old deps: %w", err)
	}
	if err := os.Rename(staged, dst); err != nil {
		return fmt.Errorf("installing deps: %w", err)
	}

	logger.Info("dependency registry updated", "dir", dst)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

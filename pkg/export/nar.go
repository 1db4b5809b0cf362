// Package export writes the package folder out as a Nix archive (NAR).
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"zombiezen.com/go/nix/nar"
)

// NAR serializes dir to w
func NAR(w io.Writer, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if err := nar.DumpPath(w, dir); err != nil {
		return fmt.Errorf("dumping %s: %w", dir, err)
	}
	return nil
}

// WriteNAR writes dir to the file at path. A ".xz" suffix compresses the archive.
func WriteNAR(path, dir string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	bw := bufio.NewWriter(f)
	var w io.Writer = bw
	var xw *xz.Writer
	if strings.HasSuffix(path, ".xz") {
		xw, err = xz.NewWriter(bw)
		if err != nil {
			return fmt.Errorf("creating xz writer: %w", err)
		}
		w = xw
	}

	if err := NAR(w, dir); err != nil {
		return err
	}
	if xw != nil {
		if err := xw.Close(); err != nil {
			return fmt.Errorf("finishing xz stream: %w", err)
		}
	}
	return bw.Flush()
}

// Entry is one file system object listed from a NAR
type Entry struct {
	Path       string
	Mode       os.FileMode
	Size       int64
	LinkTarget string
}

// List reads a NAR (optionally xz compressed) and returns its entries in archive order
func List(r io.Reader, compressed bool) ([]Entry, error) {
	if compressed {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening xz stream: %w", err)
		}
		r = xr
	}

	nr := nar.NewReader(bufio.NewReader(r))
	var entries []Entry
	for {
		hdr, err := nr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading NAR entry: %w", err)
		}
		entries = append(entries, Entry{
			Path:       hdr.Path,
			Mode:       hdr.Mode,
			Size:       hdr.Size,
			LinkTarget: hdr.LinkTarget,
		})
	}
	return entries, nil
}

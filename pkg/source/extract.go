// extract.go
package source

import (
	"archive/tar"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicXZ   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// DetectCompression sniffs the compression format from the first bytes of an archive
func DetectCompression(header []byte) Compression {
	switch {
	case bytes.HasPrefix(header, magicGzip):
		return CompressionGzip
	case bytes.HasPrefix(header, magicXZ):
		return CompressionXZ
	case bytes.HasPrefix(header, magicZstd):
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// decompress wraps r in the decompressor matching its magic bytes
func decompress(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(len(magicXZ))
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("reading archive header: %w", err)
	}

	c := DetectCompression(header)
	switch c {
	case CompressionGzip:
		gzr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gzr, c, nil
	case CompressionXZ:
		xzr, err := xz.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("creating xz reader: %w", err)
		}
		return io.NopCloser(xzr), c, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("creating zstd reader: %w", err)
		}
		return zr.IOReadCloser(), c, nil
	default:
		return io.NopCloser(br), c, nil
	}
}

// extractStats counts what an extraction produced
type extractStats struct {
	Files    int
	Dirs     int
	Symlinks int
}

// ExtractArchive unpacks a (possibly compressed) tarball into dest
func ExtractArchive(archivePath, dest string, logger hclog.Logger) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	rc, c, err := decompress(f)
	if err != nil {
		return err
	}
	defer rc.Close()

	logger.Debug("extracting archive", "path", archivePath, "dest", dest, "compression", c)

	stats, err := extractTar(tar.NewReader(rc), dest, logger)
	if err != nil {
		return err
	}

	logger.Debug("extraction complete", "files", stats.Files, "dirs", stats.Dirs, "symlinks", stats.Symlinks)
	return nil
}

// safeJoin joins name under dest and rejects anything that would land outside it
func safeJoin(dest, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	target := filepath.Join(dest, name)
	root := filepath.Clean(dest)
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

// within reports whether path is root or lies beneath it
func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}

// checkResolved follows symlinks on the deepest existing ancestor of path and rejects
// anything whose real location falls outside root. Components that do not exist yet are
// created as plain directories, so resolving the existing prefix is enough.
func checkResolved(root, path string) error {
	existing := path
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		} else if !os.IsNotExist(err) {
			return err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		// Dangling links are never followed for writes.
		return fmt.Errorf("%w: %s", ErrUnsafePath, path)
	}
	if !within(root, resolved) {
		return fmt.Errorf("%w: %s resolves to %s", ErrUnsafePath, path, resolved)
	}
	return nil
}

// replaceLink removes an existing symlink at path so a later entry never writes through it
func replaceLink(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return os.Remove(path)
	}
	return nil
}

func extractTar(tr *tar.Reader, dest string, logger hclog.Logger) (extractStats, error) {
	var stats extractStats

	if err := os.MkdirAll(dest, 0755); err != nil {
		return stats, fmt.Errorf("creating destination: %w", err)
	}
	root, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return stats, fmt.Errorf("resolving destination: %w", err)
	}

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading tar entry: %w", err)
		}

		switch header.Typeflag {
		case tar.TypeXGlobalHeader, tar.TypeXHeader:
			// GitHub archives carry a pax_global_header with the commit id.
			continue
		}

		targetPath, err := safeJoin(dest, header.Name)
		if err != nil {
			return stats, err
		}
		if targetPath == filepath.Clean(dest) {
			// "./" entries name the destination itself.
			if header.Typeflag != tar.TypeDir {
				return stats, fmt.Errorf("%w: %s", ErrUnsafePath, header.Name)
			}
			continue
		}
		if err := checkResolved(root, filepath.Dir(targetPath)); err != nil {
			return stats, err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := checkResolved(root, targetPath); err != nil {
				return stats, err
			}
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return stats, fmt.Errorf("creating directory %s: %w", targetPath, err)
			}
			stats.Dirs++

		case tar.TypeSymlink:
			if filepath.IsAbs(header.Linkname) {
				return stats, fmt.Errorf("%w: symlink %s -> %s", ErrUnsafePath, header.Name, header.Linkname)
			}
			if _, err := safeJoin(dest, filepath.Join(filepath.Dir(header.Name), header.Linkname)); err != nil {
				return stats, fmt.Errorf("%w: symlink %s -> %s", ErrUnsafePath, header.Name, header.Linkname)
			}
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return stats, fmt.Errorf("creating parent directory for symlink: %w", err)
			}
			if err := replaceLink(targetPath); err != nil {
				return stats, fmt.Errorf("replacing symlink %s: %w", targetPath, err)
			}
			if err := os.Symlink(header.Linkname, targetPath); err != nil && !os.IsExist(err) {
				return stats, fmt.Errorf("creating symlink %s -> %s: %w", targetPath, header.Linkname, err)
			}
			stats.Symlinks++

		case tar.TypeLink:
			linkSource, err := safeJoin(dest, header.Linkname)
			if err != nil {
				return stats, err
			}
			if err := checkResolved(root, linkSource); err != nil {
				return stats, err
			}
			if err := replaceLink(targetPath); err != nil {
				return stats, fmt.Errorf("replacing symlink %s: %w", targetPath, err)
			}
			if err := copyFile(linkSource, targetPath); err != nil {
				return stats, fmt.Errorf("materialising hard link %s: %w", header.Name, err)
			}
			stats.Files++

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return stats, fmt.Errorf("creating parent directory: %w", err)
			}
			if err := replaceLink(targetPath); err != nil {
				return stats, fmt.Errorf("replacing symlink %s: %w", targetPath, err)
			}

			outFile, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode)&0777|0600)
			if err != nil {
				return stats, fmt.Errorf("creating file %s: %w", targetPath, err)
			}

			written, err := io.Copy(outFile, tr)
			outFile.Close()
			if err != nil {
				return stats, fmt.Errorf("writing file %s: %w", targetPath, err)
			}
			if written != header.Size {
				return stats, fmt.Errorf("file size mismatch for %s: expected %d, got %d", targetPath, header.Size, written)
			}
			stats.Files++

		default:
			logger.Warn("skipping unsupported tar entry", "name", header.Name, "type", string(header.Typeflag))
		}
	}

	return stats, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

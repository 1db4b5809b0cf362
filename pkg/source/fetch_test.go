package source

import (
	"archive/tar"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

type tarEntry struct {
	name     string
	body     string
	typeflag byte
	linkname string
}

func buildTar(t *testing.T, entries []tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0644, Typeflag: e.typeflag, Linkname: e.linkname}
		switch e.typeflag {
		case tar.TypeDir:
			hdr.Mode = 0755
		case tar.TypeReg:
			hdr.Size = int64(len(e.body))
		case tar.TypeXGlobalHeader:
			hdr.Mode = 0
			hdr.PAXRecords = map[string]string{"comment": "0123456789abcdef"}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if e.typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func compress(t *testing.T, c Compression, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch c {
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	case CompressionXZ:
		w, err = xz.NewWriter(&buf)
	case CompressionZstd:
		w, err = zstd.NewWriter(&buf)
	default:
		return data
	}
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func lwsTarball(t *testing.T) []byte {
	return buildTar(t, []tarEntry{
		{name: "pax_global_header", typeflag: tar.TypeXGlobalHeader},
		{name: "libwebsockets-4.0-stable/", typeflag: tar.TypeDir},
		{name: "libwebsockets-4.0-stable/LICENSE", body: "LGPL-2.1", typeflag: tar.TypeReg},
		{name: "libwebsockets-4.0-stable/CMakeLists.txt", body: "project(libwebsockets C)", typeflag: tar.TypeReg},
		{name: "libwebsockets-4.0-stable/lib/core/context.c", body: "int x;", typeflag: tar.TypeReg},
	})
}

func serve(t *testing.T, body []byte) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/warmcat/libwebsockets/archive/v4.0-stable.tar.gz" {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	return NewFetcher(&Config{
		DownloadDir: filepath.Join(t.TempDir(), "downloads"),
		Logger:      hclog.New(&hclog.LoggerOptions{Name: "fetch_test", Level: hclog.Trace, Output: io.Discard}),
	})
}

func sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func TestFetchExtractsAndRenamesRoot(t *testing.T) {
	for _, c := range []Compression{CompressionGzip, CompressionXZ, CompressionZstd, CompressionNone} {
		t.Run(string(c), func(t *testing.T) {
			body := compress(t, c, lwsTarball(t))
			srv, _ := serve(t, body)
			f := newTestFetcher(t)
			dest := filepath.Join(t.TempDir(), "source_subfolder")

			err := f.Fetch(context.Background(), Archive{
				URL:    srv.URL + "/warmcat/libwebsockets/archive/v4.0-stable.tar.gz",
				SHA256: sum(body),
				Root:   "libwebsockets-4.0-stable",
			}, FetchOptions{Dest: dest})
			if err != nil {
				t.Fatalf("Fetch returned error: %v", err)
			}

			data, err := os.ReadFile(filepath.Join(dest, "LICENSE"))
			if err != nil || string(data) != "LGPL-2.1" {
				t.Fatalf("LICENSE not extracted: %q, %v", data, err)
			}
			if _, err := os.Stat(filepath.Join(dest, "lib", "core", "context.c")); err != nil {
				t.Fatalf("nested file not extracted: %v", err)
			}
			if _, err := os.Stat(filepath.Join(dest, "pax_global_header")); !os.IsNotExist(err) {
				t.Fatalf("pax header must not be materialised")
			}
		})
	}
}

func TestFetchDetectsRootWhenUnset(t *testing.T) {
	body := compress(t, CompressionGzip, lwsTarball(t))
	srv, _ := serve(t, body)
	f := newTestFetcher(t)
	dest := filepath.Join(t.TempDir(), "src")

	err := f.Fetch(context.Background(), Archive{
		URL: srv.URL + "/warmcat/libwebsockets/archive/v4.0-stable.tar.gz",
	}, FetchOptions{Dest: dest})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "CMakeLists.txt")); err != nil {
		t.Fatalf("expected single root to be detected: %v", err)
	}
}

func TestFetchHashMismatch(t *testing.T) {
	body := compress(t, CompressionGzip, lwsTarball(t))
	srv, _ := serve(t, body)
	f := newTestFetcher(t)
	dest := filepath.Join(t.TempDir(), "src")

	err := f.Fetch(context.Background(), Archive{
		URL:    srv.URL + "/warmcat/libwebsockets/archive/v4.0-stable.tar.gz",
		SHA256: sum([]byte("something else")),
	}, FetchOptions{Dest: dest})
	if !errors.Is(err, ErrHashMismatch) {
		t.Fatalf("expected ErrHashMismatch, got %v", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("nothing should be extracted on hash mismatch")
	}
}

func TestFetchReusesCachedArchive(t *testing.T) {
	body := compress(t, CompressionGzip, lwsTarball(t))
	srv, hits := serve(t, body)
	f := newTestFetcher(t)
	archive := Archive{URL: srv.URL + "/warmcat/libwebsockets/archive/v4.0-stable.tar.gz", SHA256: sum(body)}

	for i := 0; i < 2; i++ {
		dest := filepath.Join(t.TempDir(), "src")
		if err := f.Fetch(context.Background(), archive, FetchOptions{Dest: dest, KeepArchive: true}); err != nil {
			t.Fatalf("Fetch #%d returned error: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Fatalf("expected one download, got %d", got)
	}
	if _, err := os.Stat(filepath.Join(f.config.DownloadDir, "libwebsockets-v4.0-stable.tar.gz")); err != nil {
		t.Fatalf("expected archive to be kept: %v", err)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv, _ := serve(t, nil)
	f := newTestFetcher(t)
	err := f.Fetch(context.Background(), Archive{URL: srv.URL + "/missing.tar.gz"}, FetchOptions{Dest: filepath.Join(t.TempDir(), "src")})
	if err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestExtractRejectsTraversal(t *testing.T) {
	tests := []struct {
		name    string
		entries []tarEntry
	}{
		{"dotdot", []tarEntry{{name: "../evil", body: "x", typeflag: tar.TypeReg}}},
		{"absolute", []tarEntry{{name: "/etc/evil", body: "x", typeflag: tar.TypeReg}}},
		{"symlink escape", []tarEntry{{name: "root/link", typeflag: tar.TypeSymlink, linkname: "../../outside"}}},
		{"chained symlinks", []tarEntry{
			{name: "l1", typeflag: tar.TypeSymlink, linkname: "."},
			{name: "l1/l2", typeflag: tar.TypeSymlink, linkname: ".."},
			{name: "l2/escaped.txt", body: "x", typeflag: tar.TypeReg},
		}},
		{"directory through chained symlinks", []tarEntry{
			{name: "l1", typeflag: tar.TypeSymlink, linkname: "."},
			{name: "l1/l2", typeflag: tar.TypeSymlink, linkname: ".."},
			{name: "l2/sub/", typeflag: tar.TypeDir},
		}},
		{"hard link through chained symlinks", []tarEntry{
			{name: "l1", typeflag: tar.TypeSymlink, linkname: "."},
			{name: "l1/l2", typeflag: tar.TypeSymlink, linkname: ".."},
			{name: "copy", typeflag: tar.TypeLink, linkname: "l2/secret"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "secret"), []byte("s"), 0644); err != nil {
				t.Fatal(err)
			}
			archivePath := filepath.Join(dir, "bad.tar")
			if err := os.WriteFile(archivePath, buildTar(t, tt.entries), 0644); err != nil {
				t.Fatal(err)
			}
			err := ExtractArchive(archivePath, filepath.Join(dir, "out"), hclog.NewNullLogger())
			if !errors.Is(err, ErrUnsafePath) {
				t.Fatalf("expected ErrUnsafePath, got %v", err)
			}
			for _, name := range []string{"escaped.txt", "sub", "evil"} {
				if _, err := os.Lstat(filepath.Join(dir, name)); err == nil {
					t.Fatalf("%s was written outside the destination", name)
				}
			}
		})
	}
}

func TestExtractAcceptsDotRoot(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "dot.tar")
	data := buildTar(t, []tarEntry{
		{name: "./", typeflag: tar.TypeDir},
		{name: "./include/", typeflag: tar.TypeDir},
		{name: "./include/libwebsockets.h", body: "#pragma once\n", typeflag: tar.TypeReg},
	})
	if err := os.WriteFile(archivePath, data, 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	if err := ExtractArchive(archivePath, out, hclog.NewNullLogger()); err != nil {
		t.Fatalf("ExtractArchive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "include", "libwebsockets.h")); err != nil {
		t.Fatalf("header not extracted: %v", err)
	}
}

func TestExtractReplacesSymlinkWithFile(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "links.tar")
	data := buildTar(t, []tarEntry{
		{name: "l1", typeflag: tar.TypeSymlink, linkname: "."},
		{name: "l3", typeflag: tar.TypeSymlink, linkname: "l1/l1/../outside.txt"},
		{name: "l3", body: "inside", typeflag: tar.TypeReg},
	})
	if err := os.WriteFile(archivePath, data, 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	if err := ExtractArchive(archivePath, out, hclog.NewNullLogger()); err != nil {
		t.Fatalf("ExtractArchive: %v", err)
	}

	info, err := os.Lstat(filepath.Join(out, "l3"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		t.Fatalf("l3 is still a symlink")
	}
	if _, err := os.Lstat(filepath.Join(dir, "outside.txt")); err == nil {
		t.Fatalf("regular file entry was written through a symlink")
	}
}

func TestDetectCompression(t *testing.T) {
	if DetectCompression([]byte{0x1f, 0x8b, 0x08}) != CompressionGzip {
		t.Fatalf("gzip magic not detected")
	}
	if DetectCompression([]byte{0xfd, '7', 'z', 'X', 'Z', 0x00}) != CompressionXZ {
		t.Fatalf("xz magic not detected")
	}
	if DetectCompression([]byte{0x28, 0xb5, 0x2f, 0xfd}) != CompressionZstd {
		t.Fatalf("zstd magic not detected")
	}
	if DetectCompression([]byte("ustar")) != CompressionNone {
		t.Fatalf("plain data should not be detected as compressed")
	}
}

func TestArchiveFileName(t *testing.T) {
	name, err := archiveFileName("https://github.com/warmcat/libwebsockets/archive/v4.0-stable.tar.gz")
	if err != nil || name != "libwebsockets-v4.0-stable.tar.gz" {
		t.Fatalf("archiveFileName = %q, %v", name, err)
	}
	name, err = archiveFileName("https://example.com/dl/lws-4.0.tar.xz")
	if err != nil || name != "lws-4.0.tar.xz" {
		t.Fatalf("archiveFileName = %q, %v", name, err)
	}
}

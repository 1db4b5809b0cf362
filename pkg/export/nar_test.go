package export

import (
	"os"
	"path/filepath"
	"testing"
)

func packageTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"include/libwebsockets.h": "#pragma once\n",
		"lib/libwebsockets.a":     "!<arch>\n",
		"licenses/LICENSE":        "LGPL-2.1\n",
	}
	for rel, body := range files {
		p := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestWriteNAR(t *testing.T) {
	for _, name := range []string{"pkg.nar", "pkg.nar.xz"} {
		t.Run(name, func(t *testing.T) {
			dir := packageTree(t)
			out := filepath.Join(t.TempDir(), name)

			if err := WriteNAR(out, dir); err != nil {
				t.Fatalf("WriteNAR returned error: %v", err)
			}

			f, err := os.Open(out)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			entries, err := List(f, filepath.Ext(name) == ".xz")
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}

			sizes := make(map[string]int64)
			for _, e := range entries {
				if e.Mode.IsRegular() {
					sizes[e.Path] = e.Size
				}
			}
			if sizes["lib/libwebsockets.a"] != int64(len("!<arch>\n")) {
				t.Fatalf("library missing from NAR: %v", entries)
			}
			if _, ok := sizes["licenses/LICENSE"]; !ok {
				t.Fatalf("license missing from NAR: %v", entries)
			}
		})
	}
}

func TestWriteNARMissingDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pkg.nar")
	if err := WriteNAR(out, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("partial output must be removed")
	}
}

package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arc-language/lwsrecipe/pkg/options"
)

func withLookPath(t *testing.T, found map[string]string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if p, ok := found[name]; ok {
			return p, nil
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestDetectMapsTarget(t *testing.T) {
	withLookPath(t, map[string]string{"cmake": "/usr/bin/cmake"})

	tests := map[string]options.Platform{
		"linux":   options.PlatformLinux,
		"windows": options.PlatformWindows,
		"darwin":  options.PlatformOther,
	}
	for goos, want := range tests {
		p, err := detect(goos, "amd64")
		if err != nil {
			t.Fatalf("detect(%s) returned error: %v", goos, err)
		}
		if p.Target != want {
			t.Fatalf("detect(%s) target = %s, want %s", goos, p.Target, want)
		}
		if !p.Has("cmake") || p.Has("ninja") {
			t.Fatalf("unexpected tools: %v", p.Available)
		}
	}
}

func TestResolveTool(t *testing.T) {
	withLookPath(t, map[string]string{"cmake": "/opt/bin/cmake"})

	got, err := ResolveTool("cmake", "")
	if err != nil || got != "/opt/bin/cmake" {
		t.Fatalf("ResolveTool = %q, %v", got, err)
	}

	if _, err := ResolveTool("ninja", ""); !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}

	exe := filepath.Join(t.TempDir(), "cmake")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	got, err = ResolveTool("cmake", exe)
	if err != nil || got != exe {
		t.Fatalf("override not honoured: %q, %v", got, err)
	}
	if _, err := ResolveTool("cmake", filepath.Join(t.TempDir(), "nope")); !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound for missing override, got %v", err)
	}
}

func TestResolveTarget(t *testing.T) {
	host := &Platform{OS: "linux", Target: options.PlatformLinux}
	if got, _ := ResolveTarget("", host); got != options.PlatformLinux {
		t.Fatalf("expected host target, got %s", got)
	}
	if got, _ := ResolveTarget("windows", host); got != options.PlatformWindows {
		t.Fatalf("expected explicit target, got %s", got)
	}
	if _, err := ResolveTarget("vms", host); !errors.Is(err, options.ErrInvalidConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

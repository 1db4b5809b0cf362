package registry

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/arc-language/lwsrecipe/pkg/resolver"
)

func writeEntry(t *testing.T, cache, name, body string) {
	t.Helper()
	dir := filepath.Join(cache, "deps", name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.toml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	cache := t.TempDir()
	writeEntry(t, cache, "openssl", `
name = "openssl"
versions = ["1.1.1e", "1.1.1g"]
libs = ["ssl", "crypto"]

[system_libs]
linux = ["pthread", "dl"]
windows = ["crypt32", "ws2_32"]

[backends]
apt = "libssl-dev"
brew = "openssl@1.1"
`)
	writeEntry(t, cache, "zlib", `
name = "zlib"
libs = ["z"]
`)
	writeEntry(t, cache, "mbedtls", `
versions = ["2.16.3-apache"]
libs = ["mbedtls", "mbedx509", "mbedcrypto"]
`)
	return New(cache)
}

func TestLoad(t *testing.T) {
	r := newTestRegistry(t)

	entry, err := r.Load("openssl")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(entry.Libs, []string{"ssl", "crypto"}) {
		t.Fatalf("libs = %v", entry.Libs)
	}
	if !entry.Offers("1.1.1e") || entry.Offers("3.0.0") {
		t.Fatalf("version check wrong for %v", entry.Versions)
	}

	entry, err = r.Load("mbedtls")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if entry.Name != "mbedtls" {
		t.Fatalf("name should default to the directory, got %q", entry.Name)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := New(t.TempDir()).Load("zlib"); !errors.Is(err, ErrNotSynced) {
		t.Fatalf("expected ErrNotSynced, got %v", err)
	}

	r := newTestRegistry(t)
	if _, err := r.Load("libuv"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := os.MkdirAll(filepath.Join(r.Dir(), "libevent"), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Load("libevent"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected missing index.toml error, got %v", err)
	}

	writeEntry(t, filepath.Dir(r.Dir()), "broken", "libs = [")
	if _, err := r.Load("broken"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestResolveBackend(t *testing.T) {
	r := newTestRegistry(t)

	name, err := r.Resolve("openssl", "apt")
	if err != nil || name != "libssl-dev" {
		t.Fatalf("Resolve = %q, %v", name, err)
	}
	if _, err := r.Resolve("zlib", "apt"); err == nil {
		t.Fatalf("expected error for missing backend entry")
	}
}

func TestLibs(t *testing.T) {
	r := newTestRegistry(t)
	deps := resolver.DependencySet{
		{Name: "libuv", Version: "1.34.2"},
		{Name: "openssl", Version: "1.1.1e"},
		{Name: "zlib", Version: "1.2.11"},
	}

	got, err := r.Libs(deps, "linux")
	if err != nil {
		t.Fatalf("Libs returned error: %v", err)
	}
	want := []string{"libuv", "ssl", "crypto", "pthread", "dl", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Libs = %v, want %v", got, want)
	}
}

func TestLibsRejectsUnofferedVersion(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Libs(resolver.DependencySet{{Name: "mbedtls", Version: "2.16.3"}}, "linux")
	if err == nil {
		t.Fatalf("expected version mismatch error")
	}
}

func TestList(t *testing.T) {
	got, err := newTestRegistry(t).List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"mbedtls", "openssl", "zlib"}) {
		t.Fatalf("List = %v", got)
	}
}

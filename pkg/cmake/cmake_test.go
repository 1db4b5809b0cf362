package cmake

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/arc-language/lwsrecipe/pkg/options"
	"github.com/arc-language/lwsrecipe/pkg/resolver"
)

type call struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	f.calls = append(f.calls, call{dir: dir, name: name, args: args})
	return f.err
}

func resolveDefaults(t *testing.T, p options.Platform) resolver.Definitions {
	t.Helper()
	r, err := resolver.Resolve(options.Defaults(p))
	if err != nil {
		t.Fatal(err)
	}
	return r.Definitions
}

func TestDefinitionArgsSortedAndRendered(t *testing.T) {
	args := DefinitionArgs(resolveDefaults(t, options.PlatformLinux))

	if !sort.StringsAreSorted(args) {
		t.Fatalf("arguments not sorted: %v", args)
	}

	want := []string{
		"-DLWS_WITH_SSL:BOOL=OFF",
		"-DLWS_WITH_STATIC:BOOL=ON",
		"-DLWS_STATIC_PIC:BOOL=ON",
		"-DLWS_WITH_BUNDLED_ZLIB:BOOL=OFF",
		"-DLWS_WITHOUT_EXTENSIONS:BOOL=ON",
	}
	joined := strings.Join(args, " ")
	for _, w := range want {
		if !strings.Contains(joined, w) {
			t.Fatalf("missing %s in %v", w, args)
		}
	}
}

func TestConfigureBuildInstall(t *testing.T) {
	runner := &fakeRunner{}
	tool := New(&Config{Runner: runner, Generator: "Ninja", Jobs: 4})
	buildDir := filepath.Join(t.TempDir(), "build_subfolder")
	ctx := context.Background()
	defs := resolveDefaults(t, options.PlatformWindows)

	if err := tool.Configure(ctx, "/src", buildDir, defs); err != nil {
		t.Fatalf("Configure returned error: %v", err)
	}
	if err := tool.Build(ctx, buildDir); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if err := tool.Install(ctx, buildDir, "/pkg"); err != nil {
		t.Fatalf("Install returned error: %v", err)
	}

	if len(runner.calls) != 3 {
		t.Fatalf("expected 3 invocations, got %d", len(runner.calls))
	}

	configure := runner.calls[0]
	if configure.name != "cmake" || configure.dir != buildDir {
		t.Fatalf("unexpected configure call: %+v", configure)
	}
	head := []string{"-S", "/src", "-B", buildDir, "-G", "Ninja", "-DCMAKE_BUILD_TYPE:STRING=Release"}
	if !reflect.DeepEqual(configure.args[:len(head)], head) {
		t.Fatalf("unexpected configure head: %v", configure.args[:len(head)])
	}
	for _, a := range configure.args {
		if strings.HasPrefix(a, "-DLWS_STATIC_PIC") {
			t.Fatalf("windows configure must not pass LWS_STATIC_PIC")
		}
	}

	wantBuild := []string{"--build", buildDir, "--config", "Release", "--parallel", "4"}
	if !reflect.DeepEqual(runner.calls[1].args, wantBuild) {
		t.Fatalf("build args = %v, want %v", runner.calls[1].args, wantBuild)
	}
	wantInstall := []string{"--install", buildDir, "--config", "Release", "--prefix", "/pkg"}
	if !reflect.DeepEqual(runner.calls[2].args, wantInstall) {
		t.Fatalf("install args = %v, want %v", runner.calls[2].args, wantInstall)
	}
}

func TestConfigureArgsInstallPrefix(t *testing.T) {
	tool := New(&Config{Runner: &fakeRunner{}, Prefix: "/pkg"})
	args := tool.ConfigureArgs("/src", "/build", resolveDefaults(t, options.PlatformLinux))

	want := []string{"-S", "/src", "-B", "/build", "-DCMAKE_BUILD_TYPE:STRING=Release", "-DCMAKE_INSTALL_PREFIX:PATH=/pkg"}
	if !reflect.DeepEqual(args[:len(want)], want) {
		t.Fatalf("configure head = %v, want %v", args[:len(want)], want)
	}
	if !sort.StringsAreSorted(args[len(want):]) {
		t.Fatalf("definitions must follow sorted: %v", args[len(want):])
	}
}

func TestRunnerErrorsAreWrapped(t *testing.T) {
	boom := errors.New("exit status 1")
	tool := New(&Config{Runner: &fakeRunner{err: boom}})
	err := tool.Build(context.Background(), t.TempDir())
	if !errors.Is(err, boom) {
		t.Fatalf("expected runner error to be wrapped, got %v", err)
	}
	if !strings.Contains(err.Error(), "cmake build") {
		t.Fatalf("expected step in error, got %v", err)
	}
}

func TestMissingCMake(t *testing.T) {
	tool := New(&Config{Path: filepath.Join(t.TempDir(), "no-cmake")})
	if tool.IsAvailable() {
		t.Fatalf("expected cmake to be unavailable")
	}
	if err := tool.Build(context.Background(), t.TempDir()); err == nil {
		t.Fatalf("expected error without cmake")
	}
}

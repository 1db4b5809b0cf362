// pkg/backend/types.go
package backend

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// BackendType represents the system package manager
type BackendType string

const (
	// BackendApt uses dpkg on Debian and Ubuntu
	BackendApt BackendType = "apt"
	// BackendApk uses the Alpine package manager
	BackendApk BackendType = "apk"
	// BackendDnf uses rpm on Fedora and RHEL
	BackendDnf BackendType = "dnf"
	// BackendZypper uses rpm on openSUSE
	BackendZypper BackendType = "zypper"
	// BackendPacman uses the Arch Linux package manager
	BackendPacman BackendType = "pacman"
	// BackendBrew uses Homebrew
	BackendBrew BackendType = "brew"
	// BackendWinget uses the Windows package manager
	BackendWinget BackendType = "winget"
	// BackendChoco uses Chocolatey
	BackendChoco BackendType = "choco"
	// BackendAuto detects the backend of the host
	BackendAuto BackendType = "auto"
)

var (
	// ErrNoBackend indicates no supported package manager was found on the host
	ErrNoBackend = errors.New("no supported package manager found")

	// ErrNotInstalled indicates a required system package is missing
	ErrNotInstalled = errors.New("dependency not installed")
)

// query describes how one package manager answers "is this package installed"
type query struct {
	tool    string
	args    func(pkg string) []string
	install string // command template shown to the user, %s is the package
	// installed decides from the command result; nil means a zero exit status is enough
	installed func(pkg string, out []byte) bool
}

var queries = map[BackendType]query{
	BackendApt: {
		tool:    "dpkg-query",
		args:    func(pkg string) []string { return []string{"-W", "-f=${Status}", pkg} },
		install: "sudo apt-get install %s",
		installed: func(pkg string, out []byte) bool {
			return strings.Contains(string(out), "install ok installed")
		},
	},
	BackendApk: {
		tool:    "apk",
		args:    func(pkg string) []string { return []string{"info", "-e", pkg} },
		install: "sudo apk add %s",
	},
	BackendDnf: {
		tool:    "rpm",
		args:    func(pkg string) []string { return []string{"-q", pkg} },
		install: "sudo dnf install %s",
	},
	BackendZypper: {
		tool:    "rpm",
		args:    func(pkg string) []string { return []string{"-q", pkg} },
		install: "sudo zypper install %s",
	},
	BackendPacman: {
		tool:    "pacman",
		args:    func(pkg string) []string { return []string{"-Q", pkg} },
		install: "sudo pacman -S %s",
	},
	BackendBrew: {
		tool:    "brew",
		args:    func(pkg string) []string { return []string{"list", "--versions", pkg} },
		install: "brew install %s",
		installed: func(pkg string, out []byte) bool {
			return strings.TrimSpace(string(out)) != ""
		},
	},
	BackendWinget: {
		tool:    "winget",
		args:    func(pkg string) []string { return []string{"list", "--exact", "--id", pkg} },
		install: "winget install --exact --id %s",
	},
	BackendChoco: {
		tool:    "choco",
		args:    func(pkg string) []string { return []string{"list", "--exact", "--limit-output", pkg} },
		install: "choco install %s",
		installed: func(pkg string, out []byte) bool {
			// --limit-output prints "name|version" per installed package
			for _, line := range strings.Split(string(out), "\n") {
				name, _, ok := strings.Cut(strings.TrimSpace(line), "|")
				if ok && strings.EqualFold(name, pkg) {
					return true
				}
			}
			return false
		},
	},
}

// Supported returns the backends a provider can be created for
func Supported() []BackendType {
	return []BackendType{BackendApt, BackendApk, BackendDnf, BackendZypper, BackendPacman, BackendBrew, BackendWinget, BackendChoco}
}

// ParseBackendType parses a backend name; "" and "auto" both mean auto-detection
func ParseBackendType(s string) (BackendType, error) {
	t := BackendType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" || t == BackendAuto {
		return BackendAuto, nil
	}
	if _, ok := queries[t]; !ok {
		return "", errors.New("unsupported backend: " + s)
	}
	return t, nil
}

// Runner runs a query command and returns its standard output
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Output runs name with args
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

var lookPath = exec.LookPath

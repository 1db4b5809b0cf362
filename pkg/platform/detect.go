// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"

	"github.com/arc-language/lwsrecipe/pkg/options"
)

// Platform represents the detected host platform
type Platform struct {
	OS        string           // linux, darwin, windows
	Arch      string           // amd64, arm64, 386, arm
	Target    options.Platform // Recipe platform the host maps onto
	Available []string         // Build tools found in PATH
}

// buildTools are the executables the recipe can drive
var buildTools = []string{"cmake", "ninja", "make"}

// Detect detects the current platform and the build tools available on it
func Detect() (*Platform, error) {
	return detect(runtime.GOOS, runtime.GOARCH)
}

func detect(goos, goarch string) (*Platform, error) {
	if goos == "" {
		return nil, fmt.Errorf("unsupported operating system: %q", goos)
	}

	p := &Platform{
		OS:        goos,
		Arch:      goarch,
		Target:    options.PlatformFromGOOS(goos),
		Available: []string{},
	}

	for _, tool := range buildTools {
		if commandExists(tool) {
			p.Available = append(p.Available, tool)
		}
	}

	return p, nil
}

// Has reports whether a build tool was found
func (p *Platform) Has(tool string) bool {
	return contains(p.Available, tool)
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s (target: %s, tools: %v)",
		p.OS, p.Arch, p.Target, p.Available)
}

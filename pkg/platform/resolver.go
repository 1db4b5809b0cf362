// pkg/platform/resolver.go
package platform

import (
	"errors"
	"fmt"
	"os"

	"github.com/arc-language/lwsrecipe/pkg/options"
)

// ErrToolNotFound indicates a required executable is not installed
var ErrToolNotFound = errors.New("tool not found")

// ResolveTool returns the executable to run for a tool.
// Priority:
// 1. Explicit path from configuration
// 2. Lookup in PATH
func ResolveTool(name, override string) (string, error) {
	if override != "" {
		info, err := os.Stat(override)
		if err != nil {
			return "", fmt.Errorf("%w: %s at %s: %v", ErrToolNotFound, name, override, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%w: %s at %s is a directory", ErrToolNotFound, name, override)
		}
		return override, nil
	}

	path, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not in PATH", ErrToolNotFound, name)
	}
	return path, nil
}

// ResolveTarget picks the recipe platform: an explicit name wins over the host
func ResolveTarget(explicit string, host *Platform) (options.Platform, error) {
	if explicit != "" {
		return options.ParsePlatform(explicit)
	}
	if host == nil {
		return "", fmt.Errorf("no platform given and host not detected")
	}
	return host.Target, nil
}

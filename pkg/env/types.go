package env

import "github.com/arc-language/lwsrecipe/pkg/options"

// PackageLayout defines where files are located within an installed package
type PackageLayout struct {
	Libraries []string // Relative paths to library directories
	Includes  []string // Relative paths to include directories
}

// Library represents a found library file
type Library struct {
	Name     string // Library name (e.g., "websockets")
	Path     string // Absolute path to library file
	Type     string // Extension: ".so", ".a", ".dylib", ".dll", ".lib"
	IsStatic bool   // True for .a files (and .lib, which may also be an import library)
}

// Environment is an installed package folder for a target platform
type Environment struct {
	PackageFolder string           // Install prefix of the package
	Platform      options.Platform // Target platform the package was built for
}

// CompilerFlags holds compiler and linker flags
type CompilerFlags struct {
	IncludeFlags []string // -I flags
	LibraryFlags []string // -L flags
	LinkFlags    []string // -l flags
}

// New creates an environment for a package folder
func New(packageFolder string, platform options.Platform) *Environment {
	return &Environment{
		PackageFolder: packageFolder,
		Platform:      platform,
	}
}

package env

import "github.com/arc-language/lwsrecipe/pkg/options"

// GetPackageLayout returns the directory structure CMake installs into for a platform.
// These are RELATIVE paths within the package folder.
func GetPackageLayout(p options.Platform) PackageLayout {
	switch p {
	case options.PlatformLinux:
		return PackageLayout{
			// GNUInstallDirs picks lib64 on some distributions
			Libraries: []string{"lib", "lib64"},
			Includes:  []string{"include"},
		}
	case options.PlatformWindows:
		return PackageLayout{
			Libraries: []string{"lib"},
			Includes:  []string{"include"},
		}
	default:
		return PackageLayout{
			Libraries: []string{"lib"},
			Includes:  []string{"include"},
		}
	}
}

// GetLibraryExtensions returns the file extensions that count as linkable libraries
func GetLibraryExtensions(p options.Platform) []string {
	switch p {
	case options.PlatformWindows:
		return []string{".lib", ".a"} // .a from MinGW builds
	case options.PlatformLinux:
		return []string{".so", ".a"}
	default:
		return []string{".dylib", ".so", ".a"}
	}
}

// GetStaticLibraryExtensions returns only static library extensions
func GetStaticLibraryExtensions(p options.Platform) []string {
	if p == options.PlatformWindows {
		return []string{".lib", ".a"} // .lib can be import lib or static lib
	}
	return []string{".a"}
}

// SystemLibs returns the system libraries consumers must link on the platform
func SystemLibs(p options.Platform) []string {
	switch p {
	case options.PlatformWindows:
		return []string{"ws2_32"}
	case options.PlatformLinux:
		return []string{"dl", "m"}
	default:
		return nil
	}
}

// pkg/env/library.go
package env

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GetLibraryPaths returns the library directories that exist in the package
func (e *Environment) GetLibraryPaths() []string {
	return e.existing(GetPackageLayout(e.Platform).Libraries)
}

// GetIncludePaths returns the include directories that exist in the package
func (e *Environment) GetIncludePaths() []string {
	return e.existing(GetPackageLayout(e.Platform).Includes)
}

func (e *Environment) existing(rel []string) []string {
	var paths []string
	for _, r := range rel {
		p := filepath.Join(e.PackageFolder, r)
		if dirExists(p) {
			paths = append(paths, p)
		}
	}
	return paths
}

// FindLibrary searches for a specific library by name
// Returns the first match found in library search paths
func (e *Environment) FindLibrary(name string) *Library {
	for _, dir := range e.GetLibraryPaths() {
		for _, ext := range GetLibraryExtensions(e.Platform) {
			for _, filename := range e.candidateNames(name, ext) {
				fullPath := filepath.Join(dir, filename)
				if fileExists(fullPath) {
					return e.newLibrary(name, fullPath, ext)
				}

				// Try versioned: lib{name}{ext}.* (e.g., libwebsockets.so.16)
				matches, _ := filepath.Glob(fullPath + ".*")
				if len(matches) > 0 {
					sort.Strings(matches)
					return e.newLibrary(name, matches[0], ext)
				}
			}
		}
	}
	return nil
}

// FindAllLibraries returns all libraries in the package
func (e *Environment) FindAllLibraries() []*Library {
	var libraries []*Library
	seen := make(map[string]bool)

	for _, dir := range e.GetLibraryPaths() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()

			for _, ext := range GetLibraryExtensions(e.Platform) {
				libName, ok := e.libraryName(name, ext)
				if !ok {
					continue
				}
				fullPath := filepath.Join(dir, name)
				if seen[fullPath] {
					break
				}
				seen[fullPath] = true
				libraries = append(libraries, e.newLibrary(libName, fullPath, ext))
				break
			}
		}
	}

	return libraries
}

// CollectLibs returns the sorted, unique names to hand to the linker
func (e *Environment) CollectLibs() ([]string, error) {
	if !dirExists(e.PackageFolder) {
		return nil, fmt.Errorf("package folder %s does not exist", e.PackageFolder)
	}

	seen := make(map[string]bool)
	var names []string
	for _, lib := range e.FindAllLibraries() {
		if !seen[lib.Name] {
			seen[lib.Name] = true
			names = append(names, lib.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// HasLibrary checks if a library exists in the package
func (e *Environment) HasLibrary(name string) bool {
	return e.FindLibrary(name) != nil
}

// candidateNames lists the file names a library can take for an extension
func (e *Environment) candidateNames(name, ext string) []string {
	if ext == ".lib" {
		// MSVC does not use the lib prefix
		return []string{name + ext, "lib" + name + ext}
	}
	return []string{"lib" + name + ext}
}

// libraryName extracts the link name from a file name, e.g. libwebsockets.so.16 -> websockets
func (e *Environment) libraryName(filename, ext string) (string, bool) {
	var base string
	switch {
	case strings.HasSuffix(filename, ext):
		base = strings.TrimSuffix(filename, ext)
	case ext != ".lib" && strings.Contains(filename, ext+"."):
		base = filename[:strings.Index(filename, ext+".")]
	default:
		return "", false
	}

	if ext != ".lib" {
		if !strings.HasPrefix(base, "lib") {
			return "", false
		}
		base = strings.TrimPrefix(base, "lib")
	}
	if base == "" {
		return "", false
	}
	return base, true
}

func (e *Environment) newLibrary(name, path, ext string) *Library {
	static := false
	for _, s := range GetStaticLibraryExtensions(e.Platform) {
		if ext == s {
			static = true
			break
		}
	}
	return &Library{
		Name:     name,
		Path:     path,
		Type:     ext,
		IsStatic: static,
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

package env

import "strings"

// GetCompilerFlags returns the flags a consumer needs to compile and link against the package
func (e *Environment) GetCompilerFlags() (*CompilerFlags, error) {
	libs, err := e.CollectLibs()
	if err != nil {
		return nil, err
	}

	flags := &CompilerFlags{}
	for _, dir := range e.GetIncludePaths() {
		flags.IncludeFlags = append(flags.IncludeFlags, "-I"+dir)
	}
	for _, dir := range e.GetLibraryPaths() {
		flags.LibraryFlags = append(flags.LibraryFlags, "-L"+dir)
	}
	for _, lib := range libs {
		flags.LinkFlags = append(flags.LinkFlags, "-l"+lib)
	}
	for _, lib := range SystemLibs(e.Platform) {
		flags.LinkFlags = append(flags.LinkFlags, "-l"+lib)
	}

	return flags, nil
}

// All returns every flag in include, library, link order
func (f *CompilerFlags) All() []string {
	out := make([]string, 0, len(f.IncludeFlags)+len(f.LibraryFlags)+len(f.LinkFlags))
	out = append(out, f.IncludeFlags...)
	out = append(out, f.LibraryFlags...)
	out = append(out, f.LinkFlags...)
	return out
}

// String renders the flags the way pkg-config --cflags --libs would
func (f *CompilerFlags) String() string {
	return strings.Join(f.All(), " ")
}

/*
Package env inspects an installed package folder the way a consumer links against it.

It handles:
  - Knowing where libraries, headers and pkg-config files land for each target platform
  - Collecting the library names produced by the build
  - Generating compiler and linker flags, including the platform's system libraries

Basic Usage:

	e := env.New("/work/package", options.PlatformLinux)

	libs, err := e.CollectLibs()      // ["websockets"]
	flags, err := e.GetCompilerFlags()
	for _, flag := range flags.LinkFlags {
		fmt.Println(flag) // -lwebsockets, -ldl, -lm
	}

Layouts:

CMake installs into a flat prefix (lib/, include/, bin/). On windows the
import libraries live in lib/ and the DLLs in bin/; only the former are
collected since that is what the linker is given.
*/
package env

package core

import "fmt"

// Folder names inside the work directory
const (
	SourceSubfolder  = "source_subfolder"
	BuildSubfolder   = "build_subfolder"
	PackageSubfolder = "package"
)

// Metadata describes the packaged library
type Metadata struct {
	Name        string   `yaml:"name" json:"name"`
	Version     string   `yaml:"version" json:"version"`
	Description string   `yaml:"description" json:"description"`
	URL         string   `yaml:"url" json:"url"`
	Homepage    string   `yaml:"homepage" json:"homepage"`
	License     string   `yaml:"license" json:"license"`
	Topics      []string `yaml:"topics" json:"topics"`
}

// ArchiveURL is the upstream source tarball for the release
func (m Metadata) ArchiveURL() string {
	return fmt.Sprintf("%s/archive/v%s-stable.tar.gz", m.Homepage, m.Version)
}

// ArchiveRoot is the top-level directory inside the upstream tarball
func (m Metadata) ArchiveRoot() string {
	return fmt.Sprintf("%s-%s-stable", m.Name, m.Version)
}

// PackageInfo is what consumers need to link against the package
type PackageInfo struct {
	Name         string   `yaml:"name" json:"name"`
	Version      string   `yaml:"version" json:"version"`
	Platform     string   `yaml:"platform" json:"platform"`
	Libs         []string `yaml:"libs" json:"libs"`
	SystemLibs   []string `yaml:"system_libs" json:"system_libs"`
	IncludeDirs  []string `yaml:"include_dirs" json:"include_dirs"`
	LibDirs      []string `yaml:"lib_dirs" json:"lib_dirs"`
	Requires     []string `yaml:"requires,omitempty" json:"requires,omitempty"`
	RequiredLibs []string `yaml:"required_libs,omitempty" json:"required_libs,omitempty"`
}

// Stage is a step of the recipe pipeline
type Stage int

const (
	StageOptionsDeclared Stage = iota
	StageResolved
	StageDependenciesFetched
	StageSourced
	StageBuilt
	StagePackaged
)

var stageNames = map[Stage]string{
	StageOptionsDeclared:     "options-declared",
	StageResolved:            "resolved",
	StageDependenciesFetched: "dependencies-fetched",
	StageSourced:             "sourced",
	StageBuilt:               "built",
	StagePackaged:            "packaged",
}

// String returns the stage name
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Reached reports whether s is at or past other
func (s Stage) Reached(other Stage) bool {
	return s >= other
}

package core

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvWorkDir overrides the configured work directory
const EnvWorkDir = "LWSRECIPE_WORK_DIR"

// SourceConfig pins the source archive
type SourceConfig struct {
	URL    string `yaml:"url,omitempty"`
	SHA256 string `yaml:"sha256,omitempty"`
}

// Config holds lwsrecipe configuration
type Config struct {
	WorkDir     string            `yaml:"work_dir"`
	CachePath   string            `yaml:"cache_path"`
	PackageDir  string            `yaml:"package_dir,omitempty"`
	BuildType   string            `yaml:"build_type"`
	Generator   string            `yaml:"generator,omitempty"`
	CMakePath   string            `yaml:"cmake_path,omitempty"`
	Jobs        int               `yaml:"jobs"`
	Platform    string            `yaml:"platform,omitempty"`
	LogLevel    string            `yaml:"log_level,omitempty"`
	Debug       bool              `yaml:"debug"`
	Source      SourceConfig      `yaml:"source,omitempty"`
	RegistryURL string            `yaml:"registry_url,omitempty"`
	DepsBackend string            `yaml:"deps_backend,omitempty"`
	Options     map[string]string `yaml:"options,omitempty"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		WorkDir:   getDefaultWorkDir(),
		CachePath: getDefaultCachePath(),
		BuildType: "Release",
		Jobs:      runtime.NumCPU(),
		Options:   make(map[string]string),
	}
}

// DefaultConfigPath returns $HOME/.config/lwsrecipe/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lwsrecipe", "config.yaml"), nil
}

// LoadConfig loads configuration from file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Decode over the defaults so that omitted keys keep their default value.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Options == nil {
		cfg.Options = make(map[string]string)
	}
	if dir := os.Getenv(EnvWorkDir); dir != "" {
		cfg.WorkDir = dir
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SourceDir is where the extracted sources live
func (c *Config) SourceDir() string {
	return filepath.Join(c.WorkDir, SourceSubfolder)
}

// BuildDir is the out-of-tree build directory
func (c *Config) BuildDir() string {
	return filepath.Join(c.WorkDir, BuildSubfolder)
}

// PackageFolder is the install prefix of the packaged library
func (c *Config) PackageFolder() string {
	if c.PackageDir != "" {
		return c.PackageDir
	}
	return filepath.Join(c.WorkDir, PackageSubfolder)
}

// DownloadDir is where fetched archives are cached
func (c *Config) DownloadDir() string {
	return filepath.Join(c.CachePath, "downloads")
}

func getDefaultWorkDir() string {
	if dir := os.Getenv(EnvWorkDir); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return filepath.Join(os.TempDir(), "lwsrecipe")
	}
	return filepath.Join(wd, "lwsrecipe-work")
}

func getDefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "lwsrecipe")
	}
	return filepath.Join(home, ".cache", "lwsrecipe")
}

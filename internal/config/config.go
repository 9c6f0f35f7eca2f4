package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"footage/internal/layout"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ProjectsDir string `toml:"projects_dir"`
	StateDir    string `toml:"state_dir"`
	LogDir      string `toml:"log_dir"`
}

// Probe contains configuration for media metadata extraction.
type Probe struct {
	FFprobeBinary  string `toml:"ffprobe_binary"`
	CacheEnabled   bool   `toml:"cache_enabled"`
	CachePath      string `toml:"cache_path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Layout overrides the extensions accepted per media type.
type Layout struct {
	VideoExtensions []string `toml:"video_extensions"`
	AudioExtensions []string `toml:"audio_extensions"`
}

// Watch contains configuration for the watch command.
type Watch struct {
	DebounceMS int `toml:"debounce_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	File       bool   `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Config encapsulates all configuration values for footage.
//
// Configuration sections by subsystem:
//   - Paths: projects root plus state and log directories
//   - Probe: ffprobe binary, per-call timeout, and the metadata cache
//   - Layout: extension overrides for video and audio
//   - Watch: debounce for the watch command
//   - Logging: log format, level, and file rotation
type Config struct {
	Paths   Paths   `toml:"paths"`
	Probe   Probe   `toml:"probe"`
	Layout  Layout  `toml:"layout"`
	Watch   Watch   `toml:"watch"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/footage/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("footage.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories. The projects root
// is created too so a fresh install can run `footage init` immediately.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ProjectsDir, c.Paths.StateDir, c.Paths.LogDir, c.LockDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Probe.CacheEnabled && strings.TrimSpace(c.Probe.CachePath) != "" {
		if err := os.MkdirAll(filepath.Dir(c.Probe.CachePath), 0o755); err != nil {
			return fmt.Errorf("create probe cache directory: %w", err)
		}
	}
	return nil
}

// LockDir returns the directory holding per-project run locks.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StateDir, "locks")
}

// LogFile returns the rotating log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.Paths.LogDir, "footage.log")
}

// FFprobeBinary returns the ffprobe executable used for metadata extraction.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Probe.FFprobeBinary); bin != "" {
		return bin
	}
	return defaultFFprobeBinary
}

// ProbeTimeout returns the per-file ffprobe timeout, or 0 for none.
func (c *Config) ProbeTimeout() time.Duration {
	if c.Probe.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Probe.TimeoutSeconds) * time.Second
}

// WatchDebounce returns the quiet period the watch command waits for.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// MediaLayout builds the immutable layer/type layout with any extension overrides applied.
func (c *Config) MediaLayout() (layout.Layout, error) {
	return layout.New(c.Layout.VideoExtensions, c.Layout.AudioExtensions)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ErrSampleExists reports that WriteSample found a file at the target and
// overwrite was not requested.
var ErrSampleExists = errors.New("config file already exists")

// WriteSample writes the sample configuration to path, or to the default
// location when path is blank, and returns the resolved destination.
func WriteSample(path string, overwrite bool) (string, error) {
	var resolved string
	var err error
	if target := strings.TrimSpace(path); target != "" {
		resolved, err = expandPath(target)
	} else {
		resolved, err = DefaultConfigPath()
	}
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(resolved, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return resolved, fmt.Errorf("%w at %s", ErrSampleExists, resolved)
		}
		return "", fmt.Errorf("open %s: %w", resolved, err)
	}
	if _, err := f.WriteString(sampleConfig); err != nil {
		f.Close()
		return "", fmt.Errorf("write sample config: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return resolved, nil
}

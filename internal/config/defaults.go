package config

const (
	defaultProjectsDir     = "~/footage/projects"
	defaultStateDir        = "~/.local/share/footage"
	defaultLogDirName      = "logs"
	defaultProbeCacheName  = "probe_cache.db"
	defaultFFprobeBinary   = "ffprobe"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLogMaxSizeMB    = 10
	defaultLogMaxBackups   = 5
	defaultLogMaxAgeDays   = 60
	defaultWatchDebounceMS = 2000

	projectsDirEnv = "FOOTAGE_PROJECTS_DIR"
)

// Default returns a Config populated with repository defaults. ProjectsDir is
// left empty so normalization can apply the environment fallback.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Probe: Probe{
			FFprobeBinary: defaultFFprobeBinary,
			CacheEnabled:  true,
		},
		Watch: Watch{
			DebounceMS: defaultWatchDebounceMS,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			File:       true,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}

package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"footage/internal/config"
	"footage/internal/layout"
	"footage/internal/logging"
	"footage/internal/manifest"
	"footage/internal/probe"
	"footage/internal/project"
	"footage/internal/reconcile"
	"footage/internal/services"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		verbose := c.verboseFlag != nil && *c.verboseFlag
		logger, err := logging.NewFromConfig(cfg, verbose)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) mediaLayout() (layout.Layout, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return layout.Layout{}, err
	}
	l, err := cfg.MediaLayout()
	if err != nil {
		return layout.Layout{}, fmt.Errorf("layout: %w", err)
	}
	return l, nil
}

// locate resolves a project fragment under the configured projects root.
func (c *commandContext) locate(fragment string) (project.Project, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return project.Project{}, err
	}
	return project.Locate(cfg.Paths.ProjectsDir, fragment)
}

// newProber builds the ffprobe prober, fronted by the metadata cache when it
// is enabled and opens cleanly. The returned func closes the cache.
func (c *commandContext) newProber(logger *slog.Logger) (probe.Prober, func()) {
	cfg := c.configValue()
	var prober probe.Prober = probe.NewFFprobe(cfg.FFprobeBinary(), cfg.ProbeTimeout(), logger)
	if !cfg.Probe.CacheEnabled {
		return prober, func() {}
	}
	cache, err := probe.OpenCache(cfg.Probe.CachePath)
	if err != nil {
		logging.WarnWithContext(logger, "probe cache unavailable", "probe_cache_unavailable",
			logging.String(logging.FieldPath, cfg.Probe.CachePath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the cache file or set probe.cache_enabled = false"),
			logging.String(logging.FieldImpact, "every file is probed with ffprobe"))
		return prober, func() {}
	}
	return probe.NewCached(prober, cache, logger), func() { _ = cache.Close() }
}

// newEngine wires a reconciliation engine from config. Callers must invoke
// the returned func once the engine is no longer used.
func (c *commandContext) newEngine() (*reconcile.Engine, func(), error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	l, err := c.mediaLayout()
	if err != nil {
		return nil, nil, err
	}
	prober, closeProber := c.newProber(logger)
	engine, err := reconcile.NewEngine(l, prober, manifest.NewStore(logger), logger)
	if err != nil {
		closeProber()
		return nil, nil, err
	}
	return engine, closeProber, nil
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

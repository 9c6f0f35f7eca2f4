// Package config loads, normalizes, and validates footage configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the FOOTAGE_PROJECTS_DIR
// environment fallback. The Config type centralizes every knob the CLI needs:
// where projects live, where state (locks, probe cache, logs) is kept, how
// ffprobe is invoked, and which extensions each media type accepts.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

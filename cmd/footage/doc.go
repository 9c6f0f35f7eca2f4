// Package main hosts the footage CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the internal
// packages: project scaffolding, reconciliation runs, the status dashboard,
// archival, and the filesystem watcher. Configuration resolution, logger
// construction, and prober wiring live in commandContext so subcommands stay
// focused on presenting results.
package main

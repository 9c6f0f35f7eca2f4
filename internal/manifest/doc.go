// Package manifest defines the persisted per-project inventory record, the
// lifecycle state machine derived from layer occupancy, and the store that
// loads and saves manifest.json.
//
// The manifest is a projection of the directory tree: every reconciliation
// rebuilds Files from disk. Only State carries history, and only once it is
// ARCHIVED.
package manifest

// Package services defines shared utilities consumed by the reconciliation
// engine, the project collaborators, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, project names, layers, and media
//     types for logging.
//   - Structured error markers plus the Wrap helper so callers can classify a
//     failure (not found, corrupt state, rename failure) with errors.Is.
//
// Use these helpers when wiring new components so failure classification and
// log correlation stay uniform across commands.
package services

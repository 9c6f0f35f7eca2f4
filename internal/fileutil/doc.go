// Package fileutil holds the filesystem primitives the rest of footage relies
// on for no-data-loss guarantees: atomic whole-file replacement for manifests
// and archive records, and renames that refuse to overwrite an existing file.
package fileutil

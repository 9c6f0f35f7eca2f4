// Package archive finalizes a project: it locks the manifest state to
// ARCHIVED and writes the human-readable README_ARCHIVE.txt record.
package archive

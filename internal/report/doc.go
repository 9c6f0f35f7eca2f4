// Package report renders read-only views of project manifests: the status
// dashboard and the projects table.
package report

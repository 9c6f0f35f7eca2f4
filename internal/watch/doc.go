// Package watch reruns reconciliation when files land in a project's layer
// directories.
//
// Events are coalesced: a run starts once the tree has been quiet for the
// debounce period, and runs never overlap. The renames a run performs raise
// their own events, which produce one follow-up run that finds nothing to do.
package watch

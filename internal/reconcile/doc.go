// Package reconcile brings a project's manifest in line with its directory
// tree.
//
// A run walks every layer/type directory, keeps files that already carry the
// canonical prefix, numbers newly dropped files in chronological order,
// renames them, probes every final file, and writes the rebuilt inventory and
// derived lifecycle state back to manifest.json.
//
// Per-file problems never abort a run: probe failures degrade to filesystem
// metadata and rename failures are reported in Result.Failures. Running again
// with no filesystem changes is a no-op apart from fresh probe data.
package reconcile

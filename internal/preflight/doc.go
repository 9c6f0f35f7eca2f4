// Package preflight provides readiness checks for the filesystem paths and
// external binaries footage depends on.
//
// The CLI "footage check" command runs every check and prints the results.
// footage update runs CheckSystemDeps before probing so a missing ffprobe
// is reported up front.
package preflight

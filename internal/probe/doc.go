// Package probe extracts media metadata for footage files.
//
// Prober is the capability the reconciliation engine depends on. FFprobe is
// the production implementation backed by internal/media/ffprobe; Cached adds
// a SQLite lookup keyed by path, size and modification time; Static is a
// deterministic double for tests. A probe never fails its caller: errors are
// logged and the degraded record from Degraded is returned instead.
package probe

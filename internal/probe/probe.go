package probe

import (
	"context"
	"os"
	"time"

	"footage/internal/manifest"
)

// Result is the outcome of probing one file.
type Result struct {
	Metadata manifest.Metadata
	// Degraded is set when the metadata came from the filesystem fallback.
	Degraded bool
	// Err carries the underlying failure for degraded results.
	Err error
}

// Prober extracts metadata for a media file.
type Prober interface {
	Probe(ctx context.Context, path string) Result
}

// Func adapts a plain function to Prober.
type Func func(ctx context.Context, path string) Result

// Probe implements Prober.
func (f Func) Probe(ctx context.Context, path string) Result {
	return f(ctx, path)
}

// Degraded returns the fallback record for a file whose metadata could not
// be extracted: no duration, unknown resolution, and the modification time
// as the creation timestamp (empty when the file cannot be stat'ed).
func Degraded(path string, cause error) Result {
	meta := manifest.Metadata{Resolution: manifest.ResolutionUnknown}
	if info, err := os.Stat(path); err == nil {
		meta.Created = info.ModTime().UTC().Format(time.RFC3339Nano)
	}
	return Result{Metadata: meta, Degraded: true, Err: cause}
}

package probe

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"footage/internal/logging"
	"footage/internal/manifest"
	"footage/internal/media/ffprobe"
	"footage/internal/services"
)

type inspectFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// FFprobe probes files by running the ffprobe binary.
type FFprobe struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
	inspect inspectFunc
}

// NewFFprobe returns a prober that runs binary with an optional per-file timeout.
func NewFFprobe(binary string, timeout time.Duration, logger *slog.Logger) *FFprobe {
	return &FFprobe{
		binary:  binary,
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "probe"),
		inspect: ffprobe.Inspect,
	}
}

// Probe implements Prober.
func (p *FFprobe) Probe(ctx context.Context, path string) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	probeCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	parsed, err := p.inspect(probeCtx, p.binary, path)
	if err != nil {
		return p.degrade(ctx, path, err)
	}
	duration := parsed.DurationSeconds()
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		return p.degrade(ctx, path, fmt.Errorf("invalid duration %q", parsed.Format.Duration))
	}

	meta := manifest.Metadata{
		Duration:   duration,
		Created:    parsed.CreationTime(),
		Resolution: manifest.ResolutionUnknown,
	}
	if res, ok := parsed.Resolution(); ok {
		meta.Resolution = res
	}
	return Result{Metadata: meta}
}

func (p *FFprobe) degrade(ctx context.Context, path string, cause error) Result {
	err := services.Wrap(services.ErrProbeFailure, "probe", "ffprobe", path, cause)
	logging.WarnWithContext(logging.WithContext(ctx, p.logger), "metadata probe failed; using filesystem fallback", "probe_failed",
		logging.String(logging.FieldPath, path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check that ffprobe is installed and the file is a readable media file"),
		logging.String(logging.FieldImpact, "duration recorded as 0 and resolution as N/A"))
	return Degraded(path, err)
}

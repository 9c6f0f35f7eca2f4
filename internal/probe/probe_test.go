package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"footage/internal/logging"
	"footage/internal/manifest"
	"footage/internal/media/ffprobe"
)

func writeMedia(t *testing.T, name string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	return path
}

func stubbedFFprobe(fn inspectFunc) *FFprobe {
	p := NewFFprobe("ffprobe", 0, logging.NewNop())
	p.inspect = fn
	return p
}

func TestFFprobeExtractsMetadata(t *testing.T) {
	p := stubbedFFprobe(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{
			Streams: []ffprobe.Stream{{CodecType: "audio"}, {CodecType: "video", Width: 1920, Height: 1080}},
			Format:  ffprobe.Format{Duration: "12.5", Tags: map[string]string{"creation_time": "2026-02-01T09:00:00.000000Z"}},
		}, nil
	})
	result := p.Probe(context.Background(), "/media/clip.mp4")
	if result.Degraded || result.Err != nil {
		t.Fatalf("unexpected degraded result: %+v", result)
	}
	want := manifest.Metadata{Duration: 12.5, Created: "2026-02-01T09:00:00.000000Z", Resolution: "1920x1080"}
	if result.Metadata != want {
		t.Fatalf("metadata = %+v, want %+v", result.Metadata, want)
	}
}

func TestFFprobeAudioOnlyHasUnknownResolution(t *testing.T) {
	p := stubbedFFprobe(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "audio"}}, Format: ffprobe.Format{Duration: "3"}}, nil
	})
	result := p.Probe(context.Background(), "/media/take.wav")
	if result.Metadata.Resolution != manifest.ResolutionUnknown || result.Metadata.Created != "" {
		t.Fatalf("unexpected metadata: %+v", result.Metadata)
	}
}

func TestFFprobeFailureFallsBackToMtime(t *testing.T) {
	mtime := time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)
	path := writeMedia(t, "broken.mov", mtime)
	p := stubbedFFprobe(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{}, errors.New("exit status 1")
	})
	result := p.Probe(context.Background(), path)
	if !result.Degraded || result.Err == nil {
		t.Fatalf("expected degraded result, got %+v", result)
	}
	want := manifest.Metadata{Duration: 0, Created: mtime.Format(time.RFC3339Nano), Resolution: manifest.ResolutionUnknown}
	if result.Metadata != want {
		t.Fatalf("metadata = %+v, want %+v", result.Metadata, want)
	}
}

func TestFFprobeRejectsUnparsableDuration(t *testing.T) {
	p := stubbedFFprobe(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{Format: ffprobe.Format{Duration: "N/A"}}, nil
	})
	result := p.Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if !result.Degraded {
		t.Fatal("expected degraded result for unparsable duration")
	}
	if result.Metadata.Created != "" {
		t.Fatalf("expected empty created for missing file, got %q", result.Metadata.Created)
	}
}

func TestFFprobeAppliesTimeout(t *testing.T) {
	p := NewFFprobe("ffprobe", time.Minute, logging.NewNop())
	p.inspect = func(ctx context.Context, _, _ string) (ffprobe.Result, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatal("expected deadline on probe context")
		}
		return ffprobe.Result{Format: ffprobe.Format{Duration: "1"}}, nil
	}
	if result := p.Probe(context.Background(), "/x.mp4"); result.Degraded {
		t.Fatalf("unexpected degraded result: %+v", result)
	}
}

func TestStaticMatchesPathThenBasename(t *testing.T) {
	s := NewStatic(map[string]manifest.Metadata{
		"/a/clip.mp4": {Duration: 1, Resolution: "1x1"},
		"clip.mp4":    {Duration: 2, Resolution: "2x2"},
	})
	if got := s.Probe(context.Background(), "/a/clip.mp4").Metadata.Duration; got != 1 {
		t.Fatalf("expected full-path fixture, got %v", got)
	}
	if got := s.Probe(context.Background(), "/b/clip.mp4").Metadata.Duration; got != 2 {
		t.Fatalf("expected basename fixture, got %v", got)
	}
	if !s.Probe(context.Background(), "/b/other.mp4").Degraded {
		t.Fatal("expected degraded result without fixture")
	}
	if s.TotalCalls() != 3 || s.Calls("/a/clip.mp4") != 1 {
		t.Fatalf("unexpected call counts: total=%d", s.TotalCalls())
	}
}

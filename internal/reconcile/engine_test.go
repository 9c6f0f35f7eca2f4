package reconcile_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"footage/internal/layout"
	"footage/internal/logging"
	"footage/internal/manifest"
	"footage/internal/probe"
	"footage/internal/project"
	"footage/internal/reconcile"
	"footage/internal/testsupport"
)

var shootDay = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func newEngine(t *testing.T, prober probe.Prober, opts ...reconcile.Option) *reconcile.Engine {
	t.Helper()
	opts = append([]reconcile.Option{reconcile.WithRunIDFunc(func() string { return "run-test" })}, opts...)
	engine, err := reconcile.NewEngine(layout.Default(), prober, manifest.NewStore(logging.NewNop()), logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func newProject(t *testing.T) project.Project {
	t.Helper()
	return testsupport.NewProject(t, t.TempDir(), "beach", shootDay)
}

func dir(p project.Project, layer layout.Layer, mediaType layout.MediaType) string {
	return reconcile.LayerDir(p.Path, layer, mediaType)
}

func names(records []manifest.FileRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func loadManifest(t *testing.T, p project.Project) *manifest.Manifest {
	t.Helper()
	m, err := manifest.NewStore(logging.NewNop()).LoadExisting(p.Path, layout.Default())
	if err != nil {
		t.Fatalf("LoadExisting: %v", err)
	}
	return m
}

func TestRunNumbersNewFilesChronologically(t *testing.T) {
	p := newProject(t)
	video := dir(p, layout.Raw, layout.Video)
	for _, name := range []string{"A.mov", "B.mov", "C.mov"} {
		testsupport.WriteMedia(t, filepath.Join(video, name), shootDay)
	}
	prober := probe.NewStatic(map[string]manifest.Metadata{
		"A.mov": {Created: "2026-02-01T12:00:00Z"},
		"B.mov": {Created: "2026-02-01T10:00:00Z"},
		"C.mov": {Created: "2026-02-01T11:00:00Z"},
	})

	res, err := newEngine(t, prober).Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		"20260201_beach_RAW_VID_001.mov",
		"20260201_beach_RAW_VID_002.mov",
		"20260201_beach_RAW_VID_003.mov",
	}
	if diff := cmp.Diff(want, testsupport.ListNames(t, video)); diff != "" {
		t.Fatalf("files on disk (-want +got):\n%s", diff)
	}
	if got := []string{filepath.Base(res.Renames[0].From), filepath.Base(res.Renames[1].From), filepath.Base(res.Renames[2].From)}; !cmp.Equal(got, []string{"B.mov", "C.mov", "A.mov"}) {
		t.Fatalf("unexpected assignment order: %v", got)
	}
	if res.State != manifest.StateRawCaptured || res.PreviousState != manifest.StateInit {
		t.Fatalf("unexpected state transition %s -> %s", res.PreviousState, res.State)
	}
	m := loadManifest(t, p)
	if diff := cmp.Diff(want, names(m.Files.Records(layout.Raw, layout.Video))); diff != "" {
		t.Fatalf("manifest records (-want +got):\n%s", diff)
	}
	if rel := m.Files.Records(layout.Raw, layout.Video)[0].RelPath; rel != "raw/video/20260201_beach_RAW_VID_001.mov" {
		t.Fatalf("unexpected rel_path %q", rel)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	p := newProject(t)
	testsupport.WriteMedia(t, filepath.Join(dir(p, layout.Raw, layout.Video), "clip1.mp4"), shootDay)
	testsupport.WriteMedia(t, filepath.Join(dir(p, layout.Processed, layout.Audio), "voice.wav"), shootDay.Add(time.Minute))
	engine := newEngine(t, probe.NewStatic(nil))

	first, err := engine.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	before, err := os.ReadFile(manifest.Path(p.Path))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	second, err := engine.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	after, err := os.ReadFile(manifest.Path(p.Path))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	if len(second.Renames) != 0 || len(second.Failures) != 0 {
		t.Fatalf("expected no-op second run, got %+v", second)
	}
	if diff := cmp.Diff(first.Files, second.Files); diff != "" {
		t.Fatalf("files changed between runs (-first +second):\n%s", diff)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("manifest bytes changed:\n%s\n---\n%s", before, after)
	}
	if second.State != manifest.StateProcessed {
		t.Fatalf("unexpected state %s", second.State)
	}
}

func TestRunContinuesAfterHighestExistingIndex(t *testing.T) {
	p := newProject(t)
	video := dir(p, layout.Raw, layout.Video)
	testsupport.WriteMedia(t, filepath.Join(video, "20260201_beach_RAW_VID_004.mp4"), shootDay)
	testsupport.WriteMedia(t, filepath.Join(video, "20260201_beach_RAW_VID_001.mp4"), shootDay)
	testsupport.WriteMedia(t, filepath.Join(video, "new.MP4"), shootDay.Add(time.Hour))

	res, err := newEngine(t, probe.NewStatic(nil)).Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		"20260201_beach_RAW_VID_001.mp4",
		"20260201_beach_RAW_VID_004.mp4",
		"20260201_beach_RAW_VID_005.MP4",
	}
	if diff := cmp.Diff(want, names(res.Files.Records(layout.Raw, layout.Video))); diff != "" {
		t.Fatalf("records (-want +got):\n%s", diff)
	}
}

func TestRunReusesIndexAfterRenameFailure(t *testing.T) {
	p := newProject(t)
	video := dir(p, layout.Raw, layout.Video)
	for i, name := range []string{"a.mov", "b.mov", "c.mov"} {
		testsupport.WriteMedia(t, filepath.Join(video, name), shootDay.Add(time.Duration(i)*time.Minute))
	}
	failB := func(src, dst string) error {
		if filepath.Base(src) == "b.mov" {
			return errors.New("permission denied")
		}
		return os.Rename(src, dst)
	}

	res, err := newEngine(t, probe.NewStatic(nil), reconcile.WithRenameFunc(failB)).Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Failures) != 1 || filepath.Base(res.Failures[0].Path) != "b.mov" || res.Failures[0].Index != 2 {
		t.Fatalf("unexpected failures: %+v", res.Failures)
	}
	if res.Failures[0].Error == "" {
		t.Fatal("expected failure message for JSON output")
	}
	want := []string{"20260201_beach_RAW_VID_001.mov", "20260201_beach_RAW_VID_002.mov"}
	if diff := cmp.Diff(want, names(res.Files.Records(layout.Raw, layout.Video))); diff != "" {
		t.Fatalf("records (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(video, "b.mov")); err != nil {
		t.Fatalf("failed file must keep its name: %v", err)
	}

	retry, err := newEngine(t, probe.NewStatic(nil)).Run(context.Background(), p)
	if err != nil {
		t.Fatalf("retry Run: %v", err)
	}
	if len(retry.Renames) != 1 || filepath.Base(retry.Renames[0].To) != "20260201_beach_RAW_VID_003.mov" {
		t.Fatalf("expected retry to take the next index, got %+v", retry.Renames)
	}
}

func TestRunUsesFilesystemFallbackWhenProbeFails(t *testing.T) {
	p := newProject(t)
	audio := dir(p, layout.Raw, layout.Audio)
	later := shootDay.Add(2 * time.Hour)
	earlier := shootDay.Add(time.Hour)
	testsupport.WriteMedia(t, filepath.Join(audio, "zoom_a.wav"), later)
	testsupport.WriteMedia(t, filepath.Join(audio, "zoom_b.wav"), earlier)

	res, err := newEngine(t, probe.NewStatic(nil)).Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	records := res.Files.Records(layout.Raw, layout.Audio)
	if len(records) != 2 {
		t.Fatalf("expected two records, got %d", len(records))
	}
	want := manifest.Metadata{Duration: 0, Created: earlier.Format(time.RFC3339Nano), Resolution: manifest.ResolutionUnknown}
	if records[0].Name != "20260201_beach_RAW_AUD_001.wav" || records[0].Meta != want {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
}

func TestRunStateFollowsOccupancyAndRegresses(t *testing.T) {
	p := newProject(t)
	engine := newEngine(t, probe.NewStatic(nil))
	testsupport.WriteMedia(t, filepath.Join(dir(p, layout.Raw, layout.Video), "a.mp4"), shootDay)
	export := testsupport.WriteMedia(t, filepath.Join(dir(p, layout.Export, layout.Video), "final.mp4"), shootDay)

	res, err := engine.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State != manifest.StateExported {
		t.Fatalf("expected EXPORTED, got %s", res.State)
	}

	exported := filepath.Join(filepath.Dir(export), "20260201_beach_EXP_VID_001.mp4")
	if err := os.Remove(exported); err != nil {
		t.Fatalf("remove export: %v", err)
	}
	res, err = engine.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State != manifest.StateRawCaptured || !res.Regressed {
		t.Fatalf("expected regression to RAW_CAPTURED, got %s regressed=%v", res.State, res.Regressed)
	}
}

func TestRunKeepsArchivedState(t *testing.T) {
	p := newProject(t)
	store := manifest.NewStore(logging.NewNop())
	m := loadManifest(t, p)
	m.State = manifest.StateArchived
	if err := store.Save(p.Path, m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	testsupport.WriteMedia(t, filepath.Join(dir(p, layout.Raw, layout.Video), "late.mov"), shootDay)

	res, err := newEngine(t, probe.NewStatic(nil)).Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State != manifest.StateArchived || loadManifest(t, p).State != manifest.StateArchived {
		t.Fatalf("archived projects must stay archived, got %s", res.State)
	}
	if len(res.Renames) != 1 {
		t.Fatalf("expected the late file to be renamed, got %+v", res.Renames)
	}
}

func TestRunKeepsArchivedStateWhenInventoryMalformed(t *testing.T) {
	p := newProject(t)
	body := `{"project":"` + p.DirName() + `","created":"2026-02-01T09:00:00Z","state":"ARCHIVED",` +
		`"files":{"raw":{"video":[{"name":"old.mov","rel_path":"raw/video/old.mov","meta":{"duration":"12.5","created":"","resolution":"N/A"}}]}}}`
	if err := os.WriteFile(manifest.Path(p.Path), []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	testsupport.WriteMedia(t, filepath.Join(dir(p, layout.Raw, layout.Video), "late.mov"), shootDay)

	res, err := newEngine(t, probe.NewStatic(nil)).Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ManifestRecovered {
		t.Fatal("a readable header must not be reported as recovered")
	}
	if res.PreviousState != manifest.StateArchived || res.State != manifest.StateArchived {
		t.Fatalf("archived state lost: prev=%s state=%s", res.PreviousState, res.State)
	}
	m := loadManifest(t, p)
	if m.State != manifest.StateArchived || m.Created != "2026-02-01T09:00:00Z" {
		t.Fatalf("unexpected manifest header: %+v", m)
	}
	if got := names(m.Files.Records(layout.Raw, layout.Video)); len(got) != 1 || got[0] != "20260201_beach_RAW_VID_001.mov" {
		t.Fatalf("expected inventory rebuilt from disk, got %v", got)
	}
}

func TestRunRecoversCorruptManifest(t *testing.T) {
	p := newProject(t)
	if err := os.WriteFile(manifest.Path(p.Path), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	testsupport.WriteMedia(t, filepath.Join(dir(p, layout.Processed, layout.Video), "edit.mov"), shootDay)

	res, err := newEngine(t, probe.NewStatic(nil)).Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.ManifestRecovered {
		t.Fatal("expected recovered flag")
	}
	m := loadManifest(t, p)
	if m.Project != p.DirName() || m.Created != "" || m.State != manifest.StateProcessed {
		t.Fatalf("unexpected rebuilt manifest: %+v", m)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	p := newProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newEngine(t, probe.NewStatic(nil)).Run(ctx, p); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewEngineRequiresCollaborators(t *testing.T) {
	if _, err := reconcile.NewEngine(layout.Default(), nil, manifest.NewStore(nil), nil); err == nil {
		t.Fatal("expected error without prober")
	}
	if _, err := reconcile.NewEngine(layout.Default(), probe.NewStatic(nil), nil, nil); err == nil {
		t.Fatal("expected error without store")
	}
}

package archive_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"footage/internal/archive"
	"footage/internal/layout"
	"footage/internal/logging"
	"footage/internal/manifest"
	"footage/internal/probe"
	"footage/internal/project"
	"footage/internal/reconcile"
	"footage/internal/services"
	"footage/internal/testsupport"
)

var day = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func TestRenderRecordLayout(t *testing.T) {
	l := layout.Default()
	m := manifest.New("2026-02-01_beach", "", l)
	m.Files.Set(layout.Raw, layout.Video, []manifest.FileRecord{
		{Name: "20260201_beach_RAW_VID_001.mov", Meta: manifest.Metadata{Duration: 12.54, Resolution: "3840x2160"}},
		{Name: "20260201_beach_RAW_VID_002.mov", Meta: manifest.Metadata{Duration: 3, Resolution: ""}},
	})

	want := strings.Join([]string{
		"PROJECT ARCHIVE RECORD",
		"Project:  2026-02-01_beach",
		"Created:  N/A",
		"Status:   ARCHIVED",
		strings.Repeat("=", 50),
		"",
		"[RAW]",
		"  VIDEO (2 files):",
		"    - 20260201_beach_RAW_VID_001.mov (12.5s, 3840x2160)",
		"    - 20260201_beach_RAW_VID_002.mov (3.0s, N/A)",
		"",
		"[PROCESSED]",
		"  (Empty)",
		"",
		"[EXPORT]",
		"  (Empty)",
		"",
		"",
	}, "\n")
	if diff := cmp.Diff(want, archive.RenderRecord(m, l)); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestFinalizeRequiresManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "2026-02-01_empty")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p, err := project.Locate(filepath.Dir(dir), "empty")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	a := archive.New(manifest.NewStore(logging.NewNop()), layout.Default(), logging.NewNop())
	if _, err := a.Finalize(p, nil); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := os.WriteFile(manifest.Path(dir), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := a.Finalize(p, nil); !errors.Is(err, services.ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
}

func TestFinalizeWithoutExportsNeedsConfirmation(t *testing.T) {
	p := testsupport.NewProject(t, t.TempDir(), "beach", day)
	store := manifest.NewStore(logging.NewNop())
	a := archive.New(store, layout.Default(), logging.NewNop())

	_, err := a.Finalize(p, func() (bool, error) { return false, nil })
	if !archive.Declined(err) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected declined validation error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(p.Path, archive.RecordName)); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("declined archive must not write a record")
	}
	m, _ := store.LoadExisting(p.Path, layout.Default())
	if m.State != manifest.StateInit {
		t.Fatalf("declined archive must not change state, got %s", m.State)
	}

	res, err := a.Finalize(p, func() (bool, error) { return true, nil })
	if err != nil {
		t.Fatalf("confirmed Finalize: %v", err)
	}
	if !res.MissingExports {
		t.Fatal("expected missing exports flag")
	}
}

func TestLifecycleScenario(t *testing.T) {
	l := layout.Default()
	store := manifest.NewStore(logging.NewNop())
	p := testsupport.NewProject(t, t.TempDir(), "beach", day)
	m, err := store.LoadExisting(p.Path, l)
	if err != nil || m.State != manifest.StateInit {
		t.Fatalf("expected INIT manifest, got %+v err=%v", m, err)
	}

	engine, err := reconcile.NewEngine(l, probe.NewStatic(nil), store, logging.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	raw := reconcile.LayerDir(p.Path, layout.Raw, layout.Video)
	testsupport.WriteMedia(t, filepath.Join(raw, "C0001.MP4"), day)
	testsupport.WriteMedia(t, filepath.Join(raw, "C0002.MP4"), day.Add(time.Minute))
	res, err := engine.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State != manifest.StateRawCaptured {
		t.Fatalf("expected RAW_CAPTURED, got %s", res.State)
	}
	if diff := cmp.Diff([]string{"20260201_beach_RAW_VID_001.MP4", "20260201_beach_RAW_VID_002.MP4"}, testsupport.ListNames(t, raw)); diff != "" {
		t.Fatalf("raw names (-want +got):\n%s", diff)
	}

	testsupport.WriteMedia(t, filepath.Join(reconcile.LayerDir(p.Path, layout.Export, layout.Video), "final.mp4"), day.Add(time.Hour))
	if res, err = engine.Run(context.Background(), p); err != nil || res.State != manifest.StateExported {
		t.Fatalf("expected EXPORTED, got %s err=%v", res.State, err)
	}

	archived, err := archive.New(store, l, logging.NewNop()).Finalize(p, nil)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if archived.PreviousState != manifest.StateExported || archived.Files != 3 {
		t.Fatalf("unexpected archive result: %+v", archived)
	}
	record, err := os.ReadFile(archived.RecordPath)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	for _, name := range []string{"20260201_beach_RAW_VID_001.MP4", "20260201_beach_RAW_VID_002.MP4", "20260201_beach_EXP_VID_001.mp4"} {
		if !strings.Contains(string(record), "    - "+name+" (0.0s, N/A)") {
			t.Fatalf("record missing %s:\n%s", name, record)
		}
	}

	testsupport.WriteMedia(t, filepath.Join(reconcile.LayerDir(p.Path, layout.Processed, layout.Audio), "mix.wav"), day.Add(2*time.Hour))
	if res, err = engine.Run(context.Background(), p); err != nil || res.State != manifest.StateArchived {
		t.Fatalf("expected ARCHIVED to stick, got %s err=%v", res.State, err)
	}
}

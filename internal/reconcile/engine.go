package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"footage/internal/layout"
	"footage/internal/logging"
	"footage/internal/manifest"
	"footage/internal/naming"
	"footage/internal/probe"
	"footage/internal/project"
	"footage/internal/services"
)

// Engine runs reconciliation passes.
type Engine struct {
	layout layout.Layout
	prober probe.Prober
	store  *manifest.Store
	logger *slog.Logger
	rename RenameFunc
	runID  func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRenameFunc replaces the no-replace filesystem rename.
func WithRenameFunc(fn RenameFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.rename = fn
		}
	}
}

// WithRunIDFunc replaces the run identifier generator.
func WithRunIDFunc(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.runID = fn
		}
	}
}

// NewEngine wires an engine.
func NewEngine(l layout.Layout, prober probe.Prober, store *manifest.Store, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if prober == nil {
		return nil, errors.New("reconcile: prober is required")
	}
	if store == nil {
		return nil, errors.New("reconcile: manifest store is required")
	}
	e := &Engine{
		layout: l,
		prober: prober,
		store:  store,
		logger: logging.NewComponentLogger(logger, "reconcile"),
		runID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run reconciles one project and persists its manifest. Only whole-project
// failures (unreadable manifest, unreadable layer directory, failed save,
// cancellation) are returned as errors.
func (e *Engine) Run(ctx context.Context, p project.Project) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	runID := e.runID()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithProject(ctx, p.DirName())
	logger := logging.WithContext(ctx, e.logger)

	m, recovered, err := e.store.Load(p.Path, p.DirName(), e.layout)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Project:           m.Project,
		RunID:             runID,
		PreviousState:     m.State.Normalize(),
		ManifestRecovered: recovered,
		Renames:           []Rename{},
		Failures:          []RenameFailure{},
	}
	files := manifest.NewFiles(e.layout)

	for _, layer := range e.layout.Layers() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		for _, t := range e.layout.Types() {
			typeCtx := services.WithMediaType(services.WithLayer(ctx, string(layer.Name)), string(t.Name))
			records, err := e.reconcileDir(typeCtx, p, layer, t, &result)
			if err != nil {
				return Result{}, err
			}
			files.Set(layer.Name, t.Name, records)
		}
	}

	next := manifest.DeriveState(m.State, files)
	if manifest.Regressed(result.PreviousState, next) {
		result.Regressed = true
		logger.Info("lifecycle state regressed",
			logging.String(logging.FieldEventType, "state_regressed"),
			logging.String("from", string(result.PreviousState)),
			logging.String("to", string(next)))
	}
	m.State = next
	m.Files = files
	if m.Project == "" {
		m.Project = p.DirName()
	}
	if err := e.store.Save(p.Path, m); err != nil {
		return Result{}, err
	}

	result.Project = m.Project
	result.State = next
	result.Files = files
	logger.Info("reconciliation complete",
		logging.String(logging.FieldEventType, "reconcile_complete"),
		logging.String("state", string(next)),
		logging.Int("files", files.Count()),
		logging.Int("renamed", len(result.Renames)),
		logging.Int("failed", len(result.Failures)))
	return result, nil
}

func (e *Engine) reconcileDir(ctx context.Context, p project.Project, layer layout.LayerSpec, t layout.TypeSpec, result *Result) ([]manifest.FileRecord, error) {
	logger := logging.WithContext(ctx, e.logger)

	scan, err := ScanLayer(e.layout, p.Path, layer.Name, t.Name)
	if err != nil {
		return nil, err
	}
	for _, skipped := range scan.Skipped {
		result.Skipped = append(result.Skipped, skipped.Path)
		logging.WarnWithContext(logger, "skipping unreadable path", "scan_skipped",
			logging.String(logging.FieldPath, skipped.Path),
			logging.Error(skipped.Err),
			logging.String(logging.FieldErrorHint, "check directory permissions"),
			logging.String(logging.FieldImpact, "files below this path are not inventoried"))
	}

	prefix := naming.Prefix(p.Date, p.Label, layer.Abbr, t.Abbr)
	canonical, fresh := naming.Partition(scan.Paths, prefix)
	start := naming.NextIndex(canonical)
	sorted := OrderChronologically(ctx, e.prober, fresh)
	outcome := RenameSequential(sorted, prefix, start, e.rename)

	renamed := make([]string, 0, len(outcome.Renamed))
	for _, r := range outcome.Renamed {
		renamed = append(renamed, r.To)
		logger.Info("renamed file",
			logging.String(logging.FieldEventType, "file_renamed"),
			logging.String("from", filepath.Base(r.From)),
			logging.String("to", filepath.Base(r.To)))
	}
	for _, f := range outcome.Failures {
		logging.WarnWithContext(logger, "rename failed; keeping original name", "rename_failed",
			logging.String(logging.FieldPath, f.Path),
			logging.String("target", filepath.Base(f.Target)),
			logging.Error(f.Err),
			logging.String(logging.FieldErrorHint, "resolve the conflict and run update again"),
			logging.String(logging.FieldImpact, "file is left out of the manifest until renamed"))
	}
	result.Renames = append(result.Renames, outcome.Renamed...)
	result.Failures = append(result.Failures, outcome.Failures...)

	return BuildInventory(ctx, e.prober, p.Path, canonical, renamed), nil
}

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"footage/internal/fileutil"
	"footage/internal/layout"
	"footage/internal/logging"
	"footage/internal/services"
)

// Store loads and persists manifest.json files. It performs no locking.
type Store struct {
	logger *slog.Logger
}

// NewStore returns a store that reports recovered corruption through logger.
func NewStore(logger *slog.Logger) *Store {
	return &Store{logger: logging.NewComponentLogger(logger, "manifest")}
}

// Path returns the manifest path for a project directory.
func Path(projectDir string) string {
	return filepath.Join(projectDir, FileName)
}

// Load reads the project's manifest for reconciliation. A missing file yields
// a fresh manifest. An unparsable file is discarded: the fresh manifest is
// returned with recovered=true, since a full reconciliation rebuilds it.
// When only the files section is malformed, the header (project, created,
// state) is kept and files is rebuilt empty.
func (s *Store) Load(projectDir, projectName string, l layout.Layout) (*Manifest, bool, error) {
	path := Path(projectDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(projectName, "", l), false, nil
		}
		return nil, false, fmt.Errorf("read manifest: %w", err)
	}

	m, filesErr, err := decode(data)
	if err != nil {
		logging.WarnWithContext(s.logger, "manifest corrupt; starting fresh", "manifest_corrupt",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the next save rewrites the manifest from disk contents"),
			logging.String(logging.FieldImpact, "previous lifecycle state is lost"))
		return New(projectName, "", l), true, nil
	}
	if filesErr != nil {
		logging.WarnWithContext(s.logger, "manifest file inventory malformed; rebuilding it", "manifest_files_reset",
			logging.String(logging.FieldPath, path),
			logging.String("state", string(m.State)),
			logging.Error(filesErr),
			logging.String(logging.FieldErrorHint, "the next save rewrites the inventory from disk contents"),
			logging.String(logging.FieldImpact, "project, created and state are kept"))
	}
	fill(m, projectName, l)
	return m, false, nil
}

// LoadExisting reads a manifest that must already exist and parse, as the
// status and archive commands require.
func (s *Store) LoadExisting(projectDir string, l layout.Layout) (*Manifest, error) {
	path := Path(projectDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "manifest", "load", fmt.Sprintf("no manifest at %s; run `footage update` first", path), nil)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, filesErr, err := decode(data)
	if err == nil {
		err = filesErr
	}
	if err != nil {
		return nil, services.Wrap(services.ErrCorruptState, "manifest", "load", path, err)
	}
	fill(m, filepath.Base(projectDir), l)
	return m, nil
}

// Save overwrites the manifest with deterministic 2-space indented JSON.
func (s *Store) Save(projectDir string, m *Manifest) error {
	if m == nil {
		return errors.New("save manifest: nil manifest")
	}
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(projectDir, FileName, data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Encode renders m exactly as Save writes it.
func Encode(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// envelope is the manifest with files left undecoded, so a malformed
// inventory cannot take the header down with it.
type envelope struct {
	Project string          `json:"project"`
	Created string          `json:"created"`
	State   State           `json:"state"`
	Files   json.RawMessage `json:"files"`
}

// decode parses data in two steps. err reports a document whose header
// cannot be read; filesErr reports a readable header with a malformed files
// section, in which case m carries the header and nil Files.
func decode(data []byte) (m *Manifest, filesErr error, err error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, err
	}
	m = &Manifest{Project: env.Project, Created: env.Created, State: env.State}
	if len(env.Files) == 0 {
		return m, nil, nil
	}
	var files Files
	if err := json.Unmarshal(env.Files, &files); err != nil {
		return m, fmt.Errorf("decode files: %w", err), nil
	}
	m.Files = files
	return m, nil, nil
}

func fill(m *Manifest, projectName string, l layout.Layout) {
	if m.Project == "" {
		m.Project = projectName
	}
	if m.State == "" {
		m.State = StateInit
	}
	if m.Files == nil {
		m.Files = NewFiles(l)
		return
	}
	for _, layer := range l.Layers() {
		for _, t := range l.Types() {
			if m.Files.Records(layer.Name, t.Name) == nil {
				m.Files.Set(layer.Name, t.Name, nil)
			}
		}
	}
}

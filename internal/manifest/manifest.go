package manifest

import (
	"footage/internal/layout"
)

// FileName is the manifest file name at the project root.
const FileName = "manifest.json"

// ResolutionUnknown is the resolution sentinel for files without a video stream.
const ResolutionUnknown = "N/A"

// Metadata is the media metadata recorded for one file.
type Metadata struct {
	Duration   float64 `json:"duration"`
	Created    string  `json:"created"`
	Resolution string  `json:"resolution"`
}

// FileRecord is one media asset in canonical on-disk form.
type FileRecord struct {
	Name    string   `json:"name"`
	RelPath string   `json:"rel_path"`
	Meta    Metadata `json:"meta"`
}

// Files is the layer → type → records inventory.
type Files map[layout.Layer]map[layout.MediaType][]FileRecord

// Manifest is the persisted project record.
type Manifest struct {
	Project string `json:"project"`
	Created string `json:"created"`
	State   State  `json:"state"`
	Files   Files  `json:"files"`
}

// New returns a manifest with every layer/type key present and empty.
func New(project, created string, l layout.Layout) *Manifest {
	return &Manifest{
		Project: project,
		Created: created,
		State:   StateInit,
		Files:   NewFiles(l),
	}
}

// NewFiles returns an inventory with every layer/type key present and empty.
func NewFiles(l layout.Layout) Files {
	files := make(Files, len(l.Layers()))
	for _, layer := range l.Layers() {
		types := make(map[layout.MediaType][]FileRecord, len(l.Types()))
		for _, t := range l.Types() {
			types[t.Name] = []FileRecord{}
		}
		files[layer.Name] = types
	}
	return files
}

// Records returns the records for a layer/type pair, or nil.
func (f Files) Records(layer layout.Layer, mediaType layout.MediaType) []FileRecord {
	if f == nil {
		return nil
	}
	return f[layer][mediaType]
}

// Set stores the records for a layer/type pair, creating the layer map as needed.
func (f Files) Set(layer layout.Layer, mediaType layout.MediaType, records []FileRecord) {
	if records == nil {
		records = []FileRecord{}
	}
	types, ok := f[layer]
	if !ok {
		types = make(map[layout.MediaType][]FileRecord)
		f[layer] = types
	}
	types[mediaType] = records
}

// LayerCount returns the number of records across all types of a layer.
func (f Files) LayerCount(layer layout.Layer) int {
	total := 0
	for _, records := range f[layer] {
		total += len(records)
	}
	return total
}

// Count returns the total number of records.
func (f Files) Count() int {
	total := 0
	for layer := range f {
		total += f.LayerCount(layer)
	}
	return total
}

// TotalDuration sums the recorded durations of a set of records.
func TotalDuration(records []FileRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.Meta.Duration
	}
	return total
}

// Package layout describes the fixed layer/type grid of a footage project and
// the file extensions each media type accepts.
//
// A Layout is an immutable value. Build one with Default or New and pass it to
// the components that need it; nothing in the module reads process-wide
// layer or extension tables.
package layout

import (
	"errors"
	"fmt"
	"strings"
)

// Layer is a processing stage directory inside a project.
type Layer string

const (
	Raw       Layer = "raw"
	Processed Layer = "processed"
	Export    Layer = "export"
)

// MediaType is a media category directory inside a layer.
type MediaType string

const (
	Video MediaType = "video"
	Audio MediaType = "audio"
)

var (
	// DefaultVideoExtensions lists the extensions accepted under <layer>/video.
	DefaultVideoExtensions = []string{".mov", ".mp4", ".m4v"}
	// DefaultAudioExtensions lists the extensions accepted under <layer>/audio.
	DefaultAudioExtensions = []string{".wav", ".mp3", ".m4a", ".aac", ".aiff"}
)

// LayerSpec ties a layer directory to its filename abbreviation.
type LayerSpec struct {
	Name Layer
	Abbr string
}

// TypeSpec ties a media type directory to its filename abbreviation and the
// extensions it accepts.
type TypeSpec struct {
	Name       MediaType
	Abbr       string
	Extensions []string
}

// Layout is the immutable layer × type grid.
type Layout struct {
	layers []LayerSpec
	types  []TypeSpec
}

// Default returns the stock layout.
func Default() Layout {
	l, _ := New(nil, nil)
	return l
}

// New builds a layout with the provided extension sets. Empty sets fall back
// to the defaults. Extensions are lowercased and given a leading dot.
func New(videoExts, audioExts []string) (Layout, error) {
	if len(videoExts) == 0 {
		videoExts = DefaultVideoExtensions
	}
	if len(audioExts) == 0 {
		audioExts = DefaultAudioExtensions
	}
	video, err := normalizeExtensions(videoExts)
	if err != nil {
		return Layout{}, fmt.Errorf("video extensions: %w", err)
	}
	audio, err := normalizeExtensions(audioExts)
	if err != nil {
		return Layout{}, fmt.Errorf("audio extensions: %w", err)
	}
	for _, ext := range video {
		if contains(audio, ext) {
			return Layout{}, fmt.Errorf("extension %q is listed for both video and audio", ext)
		}
	}
	return Layout{
		layers: []LayerSpec{
			{Name: Raw, Abbr: "RAW"},
			{Name: Processed, Abbr: "PROC"},
			{Name: Export, Abbr: "EXP"},
		},
		types: []TypeSpec{
			{Name: Video, Abbr: "VID", Extensions: video},
			{Name: Audio, Abbr: "AUD", Extensions: audio},
		},
	}, nil
}

// Layers returns the layers in pipeline order (raw, processed, export).
func (l Layout) Layers() []LayerSpec {
	out := make([]LayerSpec, len(l.layers))
	copy(out, l.layers)
	return out
}

// Types returns the media types in display order (video, audio).
func (l Layout) Types() []TypeSpec {
	out := make([]TypeSpec, len(l.types))
	for i, t := range l.types {
		t.Extensions = append([]string(nil), t.Extensions...)
		out[i] = t
	}
	return out
}

// Type returns the TypeSpec for a media type.
func (l Layout) Type(name MediaType) (TypeSpec, bool) {
	for _, t := range l.types {
		if t.Name == name {
			t.Extensions = append([]string(nil), t.Extensions...)
			return t, true
		}
	}
	return TypeSpec{}, false
}

// Allows reports whether ext (any case, with or without dot) belongs to the
// media type.
func (l Layout) Allows(name MediaType, ext string) bool {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return false
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, t := range l.types {
		if t.Name == name {
			return contains(t.Extensions, ext)
		}
	}
	return false
}

func normalizeExtensions(values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, raw := range values {
		ext := strings.ToLower(strings.TrimSpace(raw))
		if ext == "" || ext == "." {
			return nil, errors.New("empty extension")
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.ContainsAny(ext[1:], "./\\ ") {
			return nil, fmt.Errorf("invalid extension %q", raw)
		}
		if contains(out, ext) {
			continue
		}
		out = append(out, ext)
	}
	return out, nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

package layout_test

import (
	"testing"

	"footage/internal/layout"
)

func TestDefaultLayoutOrder(t *testing.T) {
	l := layout.Default()
	layers := l.Layers()
	if len(layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(layers))
	}
	want := []struct {
		name layout.Layer
		abbr string
	}{{layout.Raw, "RAW"}, {layout.Processed, "PROC"}, {layout.Export, "EXP"}}
	for i, w := range want {
		if layers[i].Name != w.name || layers[i].Abbr != w.abbr {
			t.Fatalf("layer %d: got %+v want %+v", i, layers[i], w)
		}
	}
	types := l.Types()
	if len(types) != 2 || types[0].Abbr != "VID" || types[1].Abbr != "AUD" {
		t.Fatalf("unexpected types: %+v", types)
	}
}

func TestAllowsIsCaseInsensitive(t *testing.T) {
	l := layout.Default()
	cases := []struct {
		media layout.MediaType
		ext   string
		want  bool
	}{
		{layout.Video, ".MP4", true},
		{layout.Video, "mov", true},
		{layout.Video, ".wav", false},
		{layout.Audio, ".AIFF", true},
		{layout.Audio, ".mp4", false},
		{layout.Audio, "", false},
	}
	for _, tc := range cases {
		if got := l.Allows(tc.media, tc.ext); got != tc.want {
			t.Fatalf("Allows(%s, %q) = %v, want %v", tc.media, tc.ext, got, tc.want)
		}
	}
}

func TestNewOverridesExtensions(t *testing.T) {
	l, err := layout.New([]string{"MXF", ".mov"}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !l.Allows(layout.Video, ".mxf") {
		t.Fatal("expected mxf to be allowed")
	}
	if l.Allows(layout.Video, ".mp4") {
		t.Fatal("expected mp4 to be replaced by the override")
	}
	if !l.Allows(layout.Audio, ".wav") {
		t.Fatal("expected audio defaults to remain")
	}
}

func TestNewRejectsOverlapAndGarbage(t *testing.T) {
	if _, err := layout.New([]string{".wav"}, []string{".wav"}); err == nil {
		t.Fatal("expected overlap error")
	}
	if _, err := layout.New([]string{"a/b"}, nil); err == nil {
		t.Fatal("expected invalid extension error")
	}
	if _, err := layout.New([]string{" "}, nil); err == nil {
		t.Fatal("expected empty extension error")
	}
}

func TestTypesReturnsCopies(t *testing.T) {
	l := layout.Default()
	types := l.Types()
	types[0].Extensions[0] = ".bogus"
	if l.Allows(layout.Video, ".bogus") {
		t.Fatal("layout must not be mutable through Types()")
	}
}

package reconcile

import (
	"context"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"footage/internal/probe"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a metadata creation timestamp. RFC 3339 with or
// without fraction, ffprobe's creation_time form, a space-separated local
// form and unix-epoch seconds are accepted.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(secs) && !math.IsInf(secs, 0) {
		whole, frac := math.Modf(secs)
		return time.Unix(int64(whole), int64(frac*1e9)).UTC(), true
	}
	return time.Time{}, false
}

type sortKey struct {
	path string
	at   time.Time
}

// OrderChronologically sorts paths by creation time ascending. The probe's
// created value is used when it parses; otherwise the file's modification
// time. Ties keep input order.
func OrderChronologically(ctx context.Context, prober probe.Prober, paths []string) []string {
	keys := make([]sortKey, 0, len(paths))
	for _, path := range paths {
		keys = append(keys, sortKey{path: path, at: creationTime(ctx, prober, path)})
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].at.Before(keys[j].at)
	})
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.path
	}
	return out
}

func creationTime(ctx context.Context, prober probe.Prober, path string) time.Time {
	if prober != nil {
		if t, ok := ParseTimestamp(prober.Probe(ctx, path).Metadata.Created); ok {
			return t
		}
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}

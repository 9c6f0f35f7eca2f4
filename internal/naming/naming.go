// Package naming implements the canonical media filename convention:
//
//	<YYYYMMDD>_<label>_<LAYER>_<TYPE>_<NNN><ext>
//
// Prefix, Format and Parse are the only places that know the grammar.
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// IndexWidth is the minimum zero-padded width of a sequence number.
const IndexWidth = 3

var canonicalPattern = regexp.MustCompile(`^(\d{8})_(.+)_(RAW|PROC|EXP)_(VID|AUD)_(\d{3,})(\.[^./\\]+)$`)

// Name holds the decoded parts of a canonical filename.
type Name struct {
	Date      string
	Label     string
	LayerAbbr string
	TypeAbbr  string
	Index     int
	Ext       string
}

// Prefix returns the canonical prefix, ending in "_", for files of one
// layer/type. date is the project date in YYYY-MM-DD or YYYYMMDD form.
func Prefix(date, label, layerAbbr, typeAbbr string) string {
	return strings.ReplaceAll(date, "-", "") + "_" + label + "_" + layerAbbr + "_" + typeAbbr + "_"
}

// Format returns the full canonical name. ext is kept exactly as found.
func Format(prefix string, index int, ext string) string {
	return fmt.Sprintf("%s%0*d%s", prefix, IndexWidth, index, ext)
}

// Parse decodes a canonical basename.
func Parse(name string) (Name, bool) {
	m := canonicalPattern.FindStringSubmatch(name)
	if m == nil {
		return Name{}, false
	}
	index, err := strconv.Atoi(m[5])
	if err != nil {
		return Name{}, false
	}
	return Name{
		Date:      m[1],
		Label:     m[2],
		LayerAbbr: m[3],
		TypeAbbr:  m[4],
		Index:     index,
		Ext:       m[6],
	}, true
}

// Prefix returns the prefix the name was built from.
func (n Name) Prefix() string {
	return Prefix(n.Date, n.Label, n.LayerAbbr, n.TypeAbbr)
}

// String formats the name back to its canonical form.
func (n Name) String() string {
	return Format(n.Prefix(), n.Index, n.Ext)
}

// Partition splits paths into those whose basename already carries prefix and
// those that do not. Both slices keep input order.
func Partition(paths []string, prefix string) (canonical, fresh []string) {
	for _, p := range paths {
		if strings.HasPrefix(filepath.Base(p), prefix) {
			canonical = append(canonical, p)
			continue
		}
		fresh = append(fresh, p)
	}
	return canonical, fresh
}

// SequenceNumber returns the numeric last "_" segment of the file stem.
func SequenceNumber(path string) (int, bool) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	idx := strings.LastIndex(stem, "_")
	if idx < 0 {
		return 0, false
	}
	segment := stem[idx+1:]
	if segment == "" {
		return 0, false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextIndex returns one past the highest sequence number among canonical, or
// 1 when none carries a number.
func NextIndex(canonical []string) int {
	highest := 0
	for _, p := range canonical {
		if n, ok := SequenceNumber(p); ok && n > highest {
			highest = n
		}
	}
	return highest + 1
}

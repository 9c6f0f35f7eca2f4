package report

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"footage/internal/layout"
	"footage/internal/manifest"
)

// PreviewLimit is the number of files listed per type in the dashboard.
const PreviewLimit = 2

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// title upper-cases the first letter of each word. Casers are stateful, so
// each call gets its own.
func title(s string) string {
	return cases.Title(language.Und).String(s)
}

// TypeSummary describes one non-empty media type within a layer.
type TypeSummary struct {
	Type     layout.MediaType
	Count    int
	Duration float64
	Preview  []manifest.FileRecord
}

// More returns how many files the preview leaves out.
func (t TypeSummary) More() int {
	return t.Count - len(t.Preview)
}

// LayerSummary lists the non-empty types of one layer.
type LayerSummary struct {
	Layer layout.Layer
	Types []TypeSummary
}

// Dashboard is the status view of a manifest.
type Dashboard struct {
	Project string
	Created string
	State   manifest.State
	Layers  []LayerSummary
	Total   float64
}

// Build summarizes m in layout order.
func Build(m *manifest.Manifest, l layout.Layout) Dashboard {
	d := Dashboard{
		Project: m.Project,
		Created: strings.SplitN(m.Created, "T", 2)[0],
		State:   m.State,
	}
	for _, layer := range l.Layers() {
		summary := LayerSummary{Layer: layer.Name}
		for _, t := range l.Types() {
			records := m.Files.Records(layer.Name, t.Name)
			if len(records) == 0 {
				continue
			}
			duration := manifest.TotalDuration(records)
			d.Total += duration
			preview := records
			if len(preview) > PreviewLimit {
				preview = preview[:PreviewLimit]
			}
			summary.Types = append(summary.Types, TypeSummary{
				Type:     t.Name,
				Count:    len(records),
				Duration: duration,
				Preview:  append([]manifest.FileRecord(nil), preview...),
			})
		}
		d.Layers = append(d.Layers, summary)
	}
	return d
}

// FormatDuration renders seconds as "<m>m <s>s", truncating fractions.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	return strconv.FormatInt(total/60, 10) + "m " + strconv.FormatInt(total%60, 10) + "s"
}

// Render draws the dashboard. colorize adds ANSI colour to the state.
func (d Dashboard) Render(colorize bool) string {
	heavy := strings.Repeat("=", 40)
	light := strings.Repeat("-", 40)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(heavy + "\n")
	b.WriteString(" PROJECT DASHBOARD\n")
	b.WriteString(heavy + "\n")
	fmt.Fprintf(&b, " Name:    %s\n", d.Project)
	fmt.Fprintf(&b, " Created: %s\n", d.Created)
	fmt.Fprintf(&b, " State:   %s\n", paint("["+string(d.State)+"]", stateColor(d.State), colorize))
	b.WriteString(light + "\n")

	for _, layer := range d.Layers {
		fmt.Fprintf(&b, " %s\n", strings.ToUpper(string(layer.Layer)))
		if len(layer.Types) == 0 {
			b.WriteString("   (Empty)\n")
		}
		for _, t := range layer.Types {
			fmt.Fprintf(&b, "   * %s: %d files (%s)\n", title(string(t.Type)), t.Count, FormatDuration(t.Duration))
			for _, r := range t.Preview {
				res := r.Meta.Resolution
				if res == "" {
					res = "-"
				}
				fmt.Fprintf(&b, "       - %s [%s]\n", r.Name, res)
			}
			if more := t.More(); more > 0 {
				fmt.Fprintf(&b, "       ... (+%d more)\n", more)
			}
		}
		b.WriteString(light + "\n")
	}

	fmt.Fprintf(&b, " TOTAL FOOTAGE: %s\n", FormatDuration(d.Total))
	b.WriteString(heavy + "\n")
	return b.String()
}

func stateColor(state manifest.State) string {
	switch state {
	case manifest.StateArchived:
		return ansiBlue
	case manifest.StateExported:
		return ansiGreen
	case manifest.StateInit:
		return ansiYellow
	case manifest.StateRawCaptured, manifest.StateProcessed:
		return ""
	default:
		return ansiRed
	}
}

func paint(s, color string, colorize bool) string {
	if !colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}

// Table renders the per-layer counts as a table. Empty layers get one row.
func (d Dashboard) Table() string {
	rows := make([][]string, 0, len(d.Layers)*2+1)
	for _, layer := range d.Layers {
		name := title(string(layer.Layer))
		if len(layer.Types) == 0 {
			rows = append(rows, []string{name, "-", "0", FormatDuration(0)})
			continue
		}
		for _, t := range layer.Types {
			rows = append(rows, []string{name, title(string(t.Type)), strconv.Itoa(t.Count), FormatDuration(t.Duration)})
		}
	}
	rows = append(rows, []string{"Total", "", "", FormatDuration(d.Total)})
	return RenderTable(
		[]string{"Layer", "Type", "Files", "Duration"},
		rows,
		[]Alignment{AlignLeft, AlignLeft, AlignRight, AlignRight},
	)
}

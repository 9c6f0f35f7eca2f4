package report

import (
	"strconv"

	"footage/internal/layout"
	"footage/internal/manifest"
)

// ProjectRow is one line of the projects table.
type ProjectRow struct {
	Project  string
	State    string
	Counts   []int
	Duration float64
	Problem  string
}

// NewProjectRow summarizes a loaded manifest in layer order.
func NewProjectRow(m *manifest.Manifest, l layout.Layout) ProjectRow {
	row := ProjectRow{Project: m.Project, State: string(m.State)}
	for _, layer := range l.Layers() {
		row.Counts = append(row.Counts, m.Files.LayerCount(layer.Name))
		for _, t := range l.Types() {
			row.Duration += manifest.TotalDuration(m.Files.Records(layer.Name, t.Name))
		}
	}
	return row
}

// ProjectsTable renders rows with one count column per layer.
func ProjectsTable(rows []ProjectRow, l layout.Layout) string {
	headers := []string{"Project", "State"}
	aligns := []Alignment{AlignLeft, AlignLeft}
	for _, layer := range l.Layers() {
		headers = append(headers, title(string(layer.Name)))
		aligns = append(aligns, AlignRight)
	}
	headers = append(headers, "Footage")
	aligns = append(aligns, AlignRight)

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := []string{r.Project, r.State}
		if r.Problem != "" {
			line[1] = r.Problem
		}
		for i := range l.Layers() {
			if i < len(r.Counts) {
				line = append(line, strconv.Itoa(r.Counts[i]))
			} else {
				line = append(line, "-")
			}
		}
		if r.Problem != "" {
			line = append(line, "-")
		} else {
			line = append(line, FormatDuration(r.Duration))
		}
		cells = append(cells, line)
	}
	return RenderTable(headers, cells, aligns)
}

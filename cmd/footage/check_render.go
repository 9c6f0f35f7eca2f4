package main

import (
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"footage/internal/deps"
	"footage/internal/preflight"
)

type verdict string

const (
	verdictOK   verdict = "ok"
	verdictWarn verdict = "warn"
	verdictFail verdict = "fail"
)

var verdictColors = map[verdict]text.Colors{
	verdictOK:   {text.FgGreen},
	verdictWarn: {text.FgYellow},
	verdictFail: {text.FgRed, text.Bold},
}

// checkRow is one line of `footage check` output.
type checkRow struct {
	name    string
	verdict verdict
	detail  string
}

func directoryRows(results []preflight.Result) []checkRow {
	rows := make([]checkRow, 0, len(results))
	for _, r := range results {
		v := verdictOK
		if !r.Passed {
			v = verdictFail
		}
		rows = append(rows, checkRow{name: r.Name, verdict: v, detail: r.Detail})
	}
	return rows
}

// dependencyRows marks missing optional tools as warnings; only required
// tools fail.
func dependencyRows(statuses []deps.Status) []checkRow {
	rows := make([]checkRow, 0, len(statuses))
	for _, dep := range statuses {
		row := checkRow{name: dep.Name, verdict: verdictOK, detail: "ready"}
		switch {
		case dep.Available:
			if dep.Command != "" {
				row.detail = "ready (" + dep.Command + ")"
			}
		case dep.Optional:
			row.verdict = verdictWarn
		default:
			row.verdict = verdictFail
		}
		if !dep.Available {
			row.detail = strings.TrimSpace(dep.Detail)
			if row.detail == "" {
				row.detail = "not available"
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func renderChecks(title string, rows []checkRow, colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)
	tw.AppendHeader(table.Row{"Check", "Result", "Detail"})
	for _, row := range rows {
		result := string(row.verdict)
		if colorize {
			result = verdictColors[row.verdict].Sprint(result)
		}
		tw.AppendRow(table.Row{row.name, result, row.detail})
	}
	return tw.Render()
}

func failedRows(rows []checkRow) int {
	n := 0
	for _, row := range rows {
		if row.verdict == verdictFail {
			n++
		}
	}
	return n
}

func colorEnabled(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

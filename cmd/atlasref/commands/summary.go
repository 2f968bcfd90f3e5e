package commands

import (
	"io"

	"atlasref/internal/pipeline"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func renderSummary(out io.Writer, result pipeline.Result) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Export", "Entries"})
	t.AppendRow(table.Row{"cards", result.Cards})
	t.AppendRow(table.Row{"cards without rate", result.RateMiss})
	t.AppendRow(table.Row{"maps", result.Maps})
	t.AppendRow(table.Row{"templates", result.Templates})
	t.AppendFooter(table.Row{"files written", len(result.Written)})
	t.Render()

	if len(result.Written) == 0 {
		return
	}
	files := newTable(out)
	files.AppendHeader(table.Row{"File"})
	for _, path := range result.Written {
		files.AppendRow(table.Row{path})
	}
	files.Render()
}

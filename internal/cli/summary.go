package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mydehq/organizer/internal/types"
	"github.com/mydehq/organizer/internal/ui"
)

// newCountTable returns a rounded two-column table with a right-aligned count.
func newCountTable(label string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{label, "Files"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw
}

// renderSummary renders the per-category breakdown followed by the run totals.
func renderSummary(s *types.Summary, dryRun bool) string {
	out := ""

	cats := newCountTable("Category")
	for _, c := range types.Categories {
		if n := s.PerCategory[c]; n > 0 {
			cats.AppendRow(table.Row{ui.StyleCategory.Render(string(c)), n})
		}
	}
	if cats.Length() > 0 {
		out = cats.Render() + "\n"
	}

	totals := newCountTable("Result")
	if dryRun {
		totals.AppendRow(table.Row{"Would move", s.Planned})
	} else {
		totals.AppendRow(table.Row{"Moved", s.Moved})
	}
	totals.AppendRow(table.Row{"Skipped", s.Skipped})
	totals.AppendRow(table.Row{"Failed", s.Failed})
	if !dryRun {
		totals.AppendSeparator()
		totals.AppendRow(table.Row{"Empty folders removed", len(s.RemovedDirs)})
		totals.AppendRow(table.Row{"Folders not removed", s.CleanupErrors})
	}

	return out + totals.Render()
}

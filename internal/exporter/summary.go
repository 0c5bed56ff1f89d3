package exporter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"cvtransform/pkg/contracts/domain"
)

// WriteSummary renders the per-input outcomes of a run followed by totals.
// outputPath is empty when nothing was written.
func WriteSummary(w io.Writer, result *domain.BatchResult, outputPath string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Input", "Status", "Records", "Reason"})

	var outcomes []domain.FileOutcome
	if result != nil {
		outcomes = result.Outcomes
	}
	for _, o := range outcomes {
		t.AppendRow(table.Row{o.Name, o.Status, o.Records, o.Reason})
	}

	records := 0
	if result != nil {
		records = result.Table.Len()
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d processed, %d skipped", len(result.Processed()), len(result.Skipped())),
		"",
		records,
		outputLabel(outputPath),
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 80},
	})
	style := table.StyleLight
	style.Options.DrawBorder = false
	style.Format.Footer = text.FormatDefault
	t.SetStyle(style)
	t.Render()
}

func outputLabel(outputPath string) string {
	if outputPath == "" {
		return "no output written"
	}
	return "written to " + outputPath
}

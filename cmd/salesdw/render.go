package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	pipelinedomain "github.com/smallbiznis/salesdw/internal/pipeline/domain"
	referencedomain "github.com/smallbiznis/salesdw/internal/reference/domain"
)

func renderSummary(w io.Writer, summary pipelinedomain.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("run %s: %s", summary.RunID, summary.Status))
	t.AppendHeader(table.Row{"Phase", "Result", "Duration", "Error"})

	for _, phase := range summary.Phases {
		t.AppendRow(table.Row{phase.Phase, result(phase.Success), fmt.Sprintf("%dms", phase.DurationMs), phase.Error})
	}
	for _, phase := range summary.Skipped {
		t.AppendRow(table.Row{phase, "skipped", "", ""})
	}

	t.AppendFooter(table.Row{"total", "", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond).String(), ""})
	t.Render()
}

func renderVerify(w io.Writer, results ...referencedomain.VerifyResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Dimension", "Rows", "Result", "Detail"})

	for _, res := range results {
		detail := res.Message
		if len(res.Missing) > 0 {
			detail = "missing: " + strings.Join(res.Missing, ", ")
		}
		t.AppendRow(table.Row{res.Dimension, res.RowCount, result(res.Success), detail})
	}
	t.Render()
}

func renderSeed(w io.Writer, results ...referencedomain.SeedResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Dimension", "Requested", "Inserted"})

	for _, res := range results {
		t.AppendRow(table.Row{res.Dimension, res.Requested, res.Inserted})
	}
	t.Render()
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

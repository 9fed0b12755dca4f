// Package console renders tables and build progress and asks the user
// questions.
package console

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/axekit/axe/internal/builder"
	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/state"
	"github.com/axekit/axe/internal/workbook"
)

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	return tw
}

// RenderOrder lists items with their position.
func RenderOrder(title string, items []string) string {
	tw := newTable()
	tw.SetTitle(title)
	tw.AppendHeader(table.Row{"#", "Item"})
	for i, it := range items {
		tw.AppendRow(table.Row{i + 1, it})
	}
	return tw.Render() + "\n"
}

// RenderPlan shows the libraries a build will go through.
func RenderPlan(cfg config.Config, st *state.Manager, p builder.Plan) string {
	var b strings.Builder
	tw := newTable()
	tw.AppendHeader(table.Row{"#", "Library", "Kind", "Source", "Last built"})
	for i, name := range p.Libraries {
		lib, _ := cfg.Library(name)
		last := "-"
		if st != nil {
			if ls, ok := st.Get(name); ok && ls.BuiltAt != "" {
				last = ls.BuiltAt
			}
		}
		tw.AppendRow(table.Row{i + 1, name, lib.Kind, lib.SourceDir, last})
	}
	b.WriteString(tw.Render())
	b.WriteString("\n")
	if len(p.External) > 0 {
		b.WriteString(text.FgHiBlack.Sprint("external: "+strings.Join(p.External, ", ")) + "\n")
	}
	return b.String()
}

// RenderSheet prints the rows of a worksheet, at most limit of them when
// limit is positive.
func RenderSheet(s *workbook.Sheet, limit int) string {
	tw := newTable()
	tw.SetTitle(s.Name)
	header := table.Row{workbook.RowNumberTitle}
	for _, t := range s.Titles {
		header = append(header, t)
	}
	tw.AppendHeader(header)
	for i, r := range s.Rows {
		if limit > 0 && i >= limit {
			tw.AppendFooter(table.Row{"", fmt.Sprintf("... %d more rows", len(s.Rows)-limit)})
			break
		}
		row := table.Row{r.Number}
		for _, c := range r.Cells() {
			row = append(row, c)
		}
		tw.AppendRow(row)
	}
	return tw.Render() + "\n"
}

// RenderQuery prints a SQL result set.
func RenderQuery(columns []string, rows [][]string) string {
	tw := newTable()
	header := make(table.Row, 0, len(columns))
	for _, c := range columns {
		header = append(header, c)
	}
	tw.AppendHeader(header)
	for _, r := range rows {
		row := make(table.Row, 0, len(r))
		for _, c := range r {
			row = append(row, c)
		}
		tw.AppendRow(row)
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%d rows", len(rows))})
	return tw.Render() + "\n"
}

// RenderKeyValue prints a two column table.
func RenderKeyValue(title string, rows [][2]string) string {
	tw := newTable()
	tw.SetTitle(title)
	for _, r := range rows {
		tw.AppendRow(table.Row{r[0], r[1]})
	}
	return tw.Render() + "\n"
}

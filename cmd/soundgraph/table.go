package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"soundgraph/internal/report"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

type outputFormat string

const (
	formatAuto     outputFormat = "auto"
	formatTable    outputFormat = "table"
	formatCSV      outputFormat = "csv"
	formatMarkdown outputFormat = "markdown"
)

func parseOutputFormat(value string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case "", formatAuto:
		return formatAuto, nil
	case formatTable, formatCSV, formatMarkdown:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use auto, table, csv or markdown)", value)
	}
}

// resolve picks a table for terminals and CSV for pipes and files.
func (f outputFormat) resolve(w io.Writer) outputFormat {
	if f != formatAuto {
		return f
	}
	if file, ok := w.(*os.File); ok {
		fd := file.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return formatTable
		}
	}
	return formatCSV
}

func writeReport(w io.Writer, t report.Table, format outputFormat, aligns []columnAlignment) error {
	format = format.resolve(w)
	if format == formatTable && t.Title != "" {
		if _, err := fmt.Fprintln(w, t.Title); err != nil {
			return err
		}
	}
	rendered := renderTable(t.Headers, t.Rows, aligns, format)
	if rendered == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, rendered)
	return err
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment, format outputFormat) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	switch format {
	case formatCSV:
		return tw.RenderCSV()
	case formatMarkdown:
		return tw.RenderMarkdown()
	default:
		return tw.Render()
	}
}

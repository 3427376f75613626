package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"diamondeda/domain/dataset"
	"diamondeda/internal"
	"diamondeda/internal/errors"
)

// Markdown renders a frame as a pipe table with padded columns. Numeric columns are
// right-aligned. Frames a pipe table cannot hold (ragged rows, line breaks inside a
// cell) return a SERIALIZATION_UNSUPPORTED error.
func Markdown(f *dataset.Frame) (string, error) {
	if len(f.Cells) != len(f.Index) {
		return "", errors.SerializationUnsupported(fmt.Sprintf("%d row labels for %d rows", len(f.Index), len(f.Cells)))
	}
	for i, row := range f.Cells {
		if len(row) != len(f.Columns) {
			return "", errors.SerializationUnsupported(fmt.Sprintf("row %s has %d cells, frame has %d columns", f.Index[i], len(row), len(f.Columns)))
		}
	}
	records := f.Records()
	width := len(records[0])
	for _, record := range records {
		for _, cell := range record {
			if strings.ContainsAny(cell, "\r\n") {
				return "", errors.SerializationUnsupported(fmt.Sprintf("cell %q contains a line break", cell))
			}
		}
	}

	numeric := numericColumns(f)
	widths := make([]int, width)
	for _, record := range records {
		for j, cell := range record {
			if w := utf8.RuneCountInString(escapePipes(cell)); w > widths[j] {
				widths[j] = w
			}
		}
	}

	var b strings.Builder
	for i, record := range records {
		b.WriteString("|")
		for j, cell := range record {
			b.WriteString(" ")
			b.WriteString(pad(escapePipes(cell), widths[j], numeric[j]))
			b.WriteString(" |")
		}
		b.WriteString("\n")
		if i == 0 {
			b.WriteString("|")
			for j := range record {
				b.WriteString(separator(widths[j], numeric[j]))
				b.WriteString("|")
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// CSV renders a frame as comma-separated text, header first
func CSV(f *dataset.Frame) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	// bytes.Buffer writes cannot fail
	_ = w.WriteAll(f.Records())
	return strings.TrimSuffix(buf.String(), "\n")
}

// Table renders a frame as a pipe table, falling back to a fenced CSV block when
// the frame cannot be represented as one.
func Table(f *dataset.Frame, logger *internal.Logger) string {
	md, err := Markdown(f)
	if err == nil {
		return md
	}
	logger.Warn("Falling back to CSV for table %q: %v", f.IndexName, err)
	return "```csv\n" + CSV(f) + "\n```"
}

// numericColumns flags, per record position, whether every cell is a number or blank
func numericColumns(f *dataset.Frame) []bool {
	flags := make([]bool, len(f.Columns)+1)
	for j := range f.Columns {
		numeric := len(f.Cells) > 0
		for _, row := range f.Cells {
			switch row[j].Kind {
			case dataset.CellInt, dataset.CellFloat, dataset.CellEmpty:
			default:
				numeric = false
			}
		}
		flags[j+1] = numeric
	}
	return flags
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func pad(s string, width int, right bool) string {
	gap := width - utf8.RuneCountInString(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

func separator(width int, right bool) string {
	if right {
		return strings.Repeat("-", width+1) + ":"
	}
	return ":" + strings.Repeat("-", width+1)
}

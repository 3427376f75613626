package dataset

import (
	"fmt"
	"math"
	"strconv"
)

// CellKind tells how a Frame cell is stored and printed
type CellKind int

const (
	CellEmpty CellKind = iota
	CellInt
	CellFloat
	CellText
)

// Cell is a single Frame value
type Cell struct {
	Kind     CellKind
	Num      float64
	Text     string
	Decimals int // fixed rounding applied to a float, -1 when unrounded
}

// Int makes a count cell
func Int(n int) Cell { return Cell{Kind: CellInt, Num: float64(n), Decimals: -1} }

// Float makes a floating point cell; NaN prints as "nan"
func Float(v float64) Cell { return Cell{Kind: CellFloat, Num: v, Decimals: -1} }

// Text makes a string cell
func Text(s string) Cell { return Cell{Kind: CellText, Text: s, Decimals: -1} }

// Empty makes a blank cell
func Empty() Cell { return Cell{Kind: CellEmpty, Decimals: -1} }

// String formats the cell the way it appears in report tables.
// Unrounded floats keep six significant digits.
func (c Cell) String() string {
	switch c.Kind {
	case CellInt:
		return strconv.FormatInt(int64(c.Num), 10)
	case CellFloat:
		if math.IsNaN(c.Num) {
			return "nan"
		}
		if c.Decimals >= 0 {
			return strconv.FormatFloat(c.Num, 'f', -1, 64)
		}
		return strconv.FormatFloat(c.Num, 'g', 6, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// Frame is a small labelled table: one index column followed by named value columns.
// Every statistics and aggregate table in the report is a Frame.
type Frame struct {
	IndexName string
	Columns   []string
	Index     []string
	Cells     [][]Cell
}

// NewFrame creates an empty frame with the given headers
func NewFrame(indexName string, columns ...string) *Frame {
	return &Frame{IndexName: indexName, Columns: columns}
}

// AddRow appends a labelled row; the cell count must match the column count
func (f *Frame) AddRow(label string, cells ...Cell) error {
	if len(cells) != len(f.Columns) {
		return fmt.Errorf("row %s has %d cells, frame has %d columns", label, len(cells), len(f.Columns))
	}
	f.Index = append(f.Index, label)
	f.Cells = append(f.Cells, cells)
	return nil
}

// NumRows returns the number of rows
func (f *Frame) NumRows() int { return len(f.Index) }

// ColumnIndex finds a column position by header
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at row label and column header
func (f *Frame) Cell(row, column string) (Cell, bool) {
	j := f.ColumnIndex(column)
	if j < 0 {
		return Cell{}, false
	}
	for i, label := range f.Index {
		if label == row {
			return f.Cells[i][j], true
		}
	}
	return Cell{}, false
}

// Round returns a copy with every float cell rounded to the given decimals
func (f *Frame) Round(decimals int) *Frame {
	scale := math.Pow(10, float64(decimals))
	out := &Frame{
		IndexName: f.IndexName,
		Columns:   append([]string(nil), f.Columns...),
		Index:     append([]string(nil), f.Index...),
		Cells:     make([][]Cell, len(f.Cells)),
	}
	for i, row := range f.Cells {
		out.Cells[i] = make([]Cell, len(row))
		for j, cell := range row {
			if cell.Kind == CellFloat && !math.IsNaN(cell.Num) {
				cell.Num = math.Round(cell.Num*scale) / scale
				cell.Decimals = decimals
			}
			out.Cells[i][j] = cell
		}
	}
	return out
}

// Header returns the index name followed by the column headers
func (f *Frame) Header() []string {
	return append([]string{f.IndexName}, f.Columns...)
}

// Records returns the header row followed by each row's label and formatted cells
func (f *Frame) Records() [][]string {
	records := make([][]string, 0, len(f.Index)+1)
	records = append(records, f.Header())
	for i, label := range f.Index {
		var row []Cell
		if i < len(f.Cells) {
			row = f.Cells[i]
		}
		record := make([]string, 0, len(row)+1)
		record = append(record, label)
		for _, cell := range row {
			record = append(record, cell.String())
		}
		records = append(records, record)
	}
	return records
}

package dataset

import (
	"encoding/binary"
	"fmt"
	"math"

	"diamondeda/domain/core"
)

// Kind distinguishes numeric from categorical columns
type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
)

func (k Kind) String() string {
	if k == KindCategorical {
		return "categorical"
	}
	return "numeric"
}

// MissingCode marks a missing categorical value
const MissingCode = -1

// Column is one named column of a Table. Numeric columns use Values with NaN
// for missing entries; categorical columns use Codes indexing into the ordered Levels.
type Column struct {
	Name   string
	Kind   Kind
	Values []float64
	Codes  []int
	Levels []string
}

// Len returns the number of rows held by the column
func (c *Column) Len() int {
	if c.Kind == KindCategorical {
		return len(c.Codes)
	}
	return len(c.Values)
}

// IsMissing reports whether row i has no value
func (c *Column) IsMissing(i int) bool {
	if c.Kind == KindCategorical {
		return c.Codes[i] == MissingCode
	}
	return math.IsNaN(c.Values[i])
}

// MissingCount counts rows without a value
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Label returns the level name for row i of a categorical column, "" when missing
func (c *Column) Label(i int) string {
	code := c.Codes[i]
	if code == MissingCode {
		return ""
	}
	return c.Levels[code]
}

// Present returns the non-missing values of a numeric column
func (c *Column) Present() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Table is the loaded dataset: ordered columns of equal length.
// It is not modified after load except for derived columns added with AddCategorical.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// AddNumeric appends a numeric column
func (t *Table) AddNumeric(name string, values []float64) error {
	return t.add(&Column{Name: name, Kind: KindNumeric, Values: values})
}

// AddCategorical appends a categorical column with ordered levels
func (t *Table) AddCategorical(name string, levels []string, codes []int) error {
	for i, code := range codes {
		if code != MissingCode && (code < 0 || code >= len(levels)) {
			return fmt.Errorf("column %s row %d: code %d outside %d levels", name, i, code, len(levels))
		}
	}
	return t.add(&Column{Name: name, Kind: KindCategorical, Codes: codes, Levels: levels})
}

func (t *Table) add(col *Column) error {
	if col.Name == "" {
		return fmt.Errorf("column name is required")
	}
	if _, exists := t.index[col.Name]; exists {
		return fmt.Errorf("column %s already exists", col.Name)
	}
	if len(t.columns) > 0 && col.Len() != t.rows {
		return fmt.Errorf("column %s has %d rows, table has %d", col.Name, col.Len(), t.rows)
	}
	t.rows = col.Len()
	t.index[col.Name] = len(t.columns)
	t.columns = append(t.columns, col)
	return nil
}

// Rows returns the row count
func (t *Table) Rows() int { return t.rows }

// Columns returns the columns in their original order
func (t *Table) Columns() []*Column { return t.columns }

// Names returns the column names in their original order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Numeric returns the values of a numeric column
func (t *Table) Numeric(name string) ([]float64, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("column %s not found", name)
	}
	if col.Kind != KindNumeric {
		return nil, fmt.Errorf("column %s is %s, want numeric", name, col.Kind)
	}
	return col.Values, nil
}

// Categorical returns a categorical column
func (t *Table) Categorical(name string) (*Column, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("column %s not found", name)
	}
	if col.Kind != KindCategorical {
		return nil, fmt.Errorf("column %s is %s, want categorical", name, col.Kind)
	}
	return col, nil
}

// NumericColumns returns the numeric columns in table order
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.Kind == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// Fingerprint hashes the column names, kinds, levels and cell values
func (t *Table) Fingerprint() core.Hash {
	var buf []byte
	for _, c := range t.columns {
		buf = append(buf, c.Name...)
		buf = append(buf, byte(c.Kind))
		for _, level := range c.Levels {
			buf = append(buf, level...)
			buf = append(buf, 0)
		}
		if c.Kind == KindCategorical {
			for _, code := range c.Codes {
				buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(code)))
			}
			continue
		}
		for _, v := range c.Values {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
	}
	return core.NewHash(buf)
}

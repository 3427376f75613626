package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"diamondeda/domain/dataset"
	"diamondeda/internal"
	"diamondeda/internal/analysis"
	"diamondeda/internal/errors"
)

// Title heads every report
const Title = "Diamonds EDA Report"

// Section headings, in document order
const (
	SummaryHeading        = "## Summary"
	StatisticsHeading     = "## Descriptive Statistics"
	VisualizationsHeading = "## Visualizations and Related Statistics"
)

// ChartSection is one chart block: heading, image reference and companion table
type ChartSection struct {
	Heading        string
	ImageName      string
	ImagePath      string // relative to the report file, forward slashes
	AggregateTitle string
	Aggregate      *dataset.Frame
}

// Document accumulates report parts in order; parts are joined by blank lines
type Document struct {
	parts  []string
	logger *internal.Logger
}

// NewDocument starts a report with its title
func NewDocument(logger *internal.Logger) *Document {
	d := &Document{logger: logger.With("report")}
	d.Add("# " + Title)
	return d
}

// Add appends a raw part
func (d *Document) Add(part string) {
	d.parts = append(d.parts, part)
}

// AddHeading appends a heading of the given level
func (d *Document) AddHeading(level int, text string) {
	d.Add(strings.Repeat("#", level) + " " + text)
}

// AddTable appends a frame as a pipe table, or as CSV text when it cannot be one
func (d *Document) AddTable(f *dataset.Frame) {
	d.Add(Table(f, d.logger))
}

// AddSummary appends the dataset shape and column list
func (d *Document) AddSummary(b *analysis.Bundle) {
	d.Add(SummaryHeading)
	d.Add(fmt.Sprintf("- Rows/Columns: %s\n- Columns: %s", b.Shape(), strings.Join(b.Columns, ", ")))
}

// AddStatistics appends the descriptive statistics section
func (d *Document) AddStatistics(b *analysis.Bundle) {
	d.Add(StatisticsHeading)
	d.AddHeading(3, "Describe (all columns)")
	d.AddTable(b.Describe)
	d.AddHeading(3, "Skewness")
	d.AddTable(b.Skewness)
	d.AddHeading(3, "Kurtosis")
	d.AddTable(b.Kurtosis)
	d.AddHeading(3, "Normality (D'Agostino K²)")
	d.AddTable(b.Normality)
	d.AddHeading(3, "Missing Values")
	d.AddTable(b.Missing)
	d.AddHeading(3, "Categorical Distributions")
	for _, vc := range b.ValueCounts {
		d.Add("**" + vc.Column + "**")
		d.AddTable(vc.Frame)
	}
	d.Add(VisualizationsHeading)
}

// AddChartSection appends one chart block: heading with image, then its aggregate
func (d *Document) AddChartSection(s ChartSection) {
	d.Add(fmt.Sprintf("### %s\n![%s](%s)", s.Heading, s.ImageName, s.ImagePath))
	d.AddHeading(4, s.AggregateTitle)
	d.AddTable(s.Aggregate)
}

// String joins the parts with blank lines
func (d *Document) String() string {
	return strings.Join(d.parts, "\n\n") + "\n"
}

// Bytes returns the document as written to disk
func (d *Document) Bytes() []byte {
	return []byte(d.String())
}

// WriteFile writes the document to path, replacing any previous content
func (d *Document) WriteFile(path string) error {
	return WriteBytes(path, d.Bytes())
}

// WriteBytes writes data to path, creating parent directories as needed
func WriteBytes(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WriteFailed(filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WriteFailed(path, err)
	}
	return nil
}

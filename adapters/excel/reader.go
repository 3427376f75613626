package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"diamondeda/domain/dataset"
	"diamondeda/internal"
	"diamondeda/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader reads a dataset from an Excel or CSV file into a Table
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader; the file type follows the extension
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: internal.DefaultLogger.With("reader")}
}

// ReadTable reads the file and converts it to a Table matching schema
func (r *DataReader) ReadTable(schema dataset.Schema) (*dataset.Table, error) {
	r.logger.Debug("Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, fmt.Errorf("%s file not accessible: %w", strings.ToUpper(r.fileType), err)
	}

	var (
		rows [][]string
		err  error
	)
	start := time.Now()
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("%s file read in %.2fms (%d rows)", strings.ToUpper(r.fileType),
		float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return ParseRecords(rows, schema)
}

// readExcelRows reads the first worksheet of the workbook
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no worksheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// ParseRecords converts a header row plus data rows into a Table. Columns are
// taken in schema order; extra columns in the file are ignored.
func ParseRecords(rows [][]string, schema dataset.Schema) (*dataset.Table, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidInput("file must have at least a header row and one data row")
	}

	position := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		position[strings.TrimSpace(header)] = i
	}

	table := dataset.NewTable()
	data := rows[1:]
	for _, spec := range schema {
		col, ok := position[spec.Name]
		if !ok {
			return nil, errors.InvalidInput(fmt.Sprintf("column %s missing from header", spec.Name))
		}

		var err error
		switch spec.Kind {
		case dataset.KindCategorical:
			var codes []int
			codes, err = parseCategorical(data, col, spec)
			if err == nil {
				err = table.AddCategorical(spec.Name, spec.Levels, codes)
			}
		default:
			var values []float64
			values, err = parseNumeric(data, col, spec.Name)
			if err == nil {
				err = table.AddNumeric(spec.Name, values)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return table, nil
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func isMissingToken(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "none":
		return true
	}
	return false
}

func parseNumeric(data [][]string, col int, name string) ([]float64, error) {
	values := make([]float64, len(data))
	for i, row := range data {
		cell := cellAt(row, col)
		if isMissingToken(cell) {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d column %s: %q is not numeric", i+2, name, cell))
		}
		values[i] = v
	}
	return values, nil
}

func parseCategorical(data [][]string, col int, spec dataset.ColumnSpec) ([]int, error) {
	lookup := make(map[string]int, len(spec.Levels))
	for i, level := range spec.Levels {
		lookup[level] = i
	}
	codes := make([]int, len(data))
	for i, row := range data {
		cell := cellAt(row, col)
		if isMissingToken(cell) {
			codes[i] = dataset.MissingCode
			continue
		}
		code, ok := lookup[cell]
		if !ok {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d column %s: unknown level %q", i+2, spec.Name, cell))
		}
		codes[i] = code
	}
	return codes, nil
}

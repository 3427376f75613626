package excel

import (
	"fmt"
	"math"
	"strings"

	"diamondeda/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// Sheet is one named frame destined for its own worksheet
type Sheet struct {
	Name  string
	Frame *dataset.Frame
}

// maxSheetName is Excel's limit on worksheet name length
const maxSheetName = 31

// WriteWorkbook writes each frame to its own worksheet, headers in bold.
// Numeric cells are stored as numbers so the workbook stays sortable.
func WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	used := make(map[string]bool)
	for i, sheet := range sheets {
		name := uniqueSheetName(sheet.Name, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("failed to rename first sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
		if err := writeFrame(f, name, sheet.Frame, bold); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeFrame(f *excelize.File, sheet string, frame *dataset.Frame, headerStyle int) error {
	header := frame.Header()
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet, err)
	}

	for i, label := range frame.Index {
		row := make([]interface{}, 0, len(frame.Columns)+1)
		row = append(row, label)
		for _, cell := range frame.Cells[i] {
			row = append(row, cellValue(cell))
		}
		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, anchor, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func cellValue(cell dataset.Cell) interface{} {
	switch cell.Kind {
	case dataset.CellInt:
		return int64(cell.Num)
	case dataset.CellFloat:
		if math.IsNaN(cell.Num) {
			return ""
		}
		return cell.Num
	default:
		return cell.String()
	}
}

// uniqueSheetName strips characters Excel rejects, truncates, and de-duplicates
func uniqueSheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if clean == "" {
		clean = "Sheet"
	}
	if len(clean) > maxSheetName {
		clean = clean[:maxSheetName]
	}
	candidate := clean
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf("_%d", n)
		base := clean
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = base + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

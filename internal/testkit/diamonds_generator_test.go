package testkit

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiamondsGenerator_Basic(t *testing.T) {
	generator := NewDiamondsGenerator(DefaultDiamondsConfig())
	table, err := generator.GenerateTable()
	if err != nil {
		t.Fatalf("Failed to generate table: %v", err)
	}

	if table.Rows() != 100 {
		t.Errorf("Expected 100 rows, got %d", table.Rows())
	}
	if len(table.Columns()) != 10 {
		t.Errorf("Expected 10 columns, got %d", len(table.Columns()))
	}

	price, err := table.Numeric("price")
	if err != nil {
		t.Fatalf("price column missing: %v", err)
	}
	for i, p := range price {
		if math.IsNaN(p) || p < 326 {
			t.Errorf("Row %d has invalid price %v", i, p)
		}
	}
}

func TestDiamondsGenerator_Deterministic(t *testing.T) {
	a, _ := NewDiamondsGenerator(DefaultDiamondsConfig()).GenerateTable()
	b, _ := NewDiamondsGenerator(DefaultDiamondsConfig()).GenerateTable()

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("Same seed produced different tables")
	}
}

func TestDiamondsGenerator_ExcludedLevelsNeverAppear(t *testing.T) {
	config := DefaultDiamondsConfig()
	config.Rows = 500
	config.ExcludeColors = []string{"J"}

	table, err := NewDiamondsGenerator(config).GenerateTable()
	if err != nil {
		t.Fatalf("Failed to generate table: %v", err)
	}
	color, _ := table.Categorical("color")
	for i := 0; i < color.Len(); i++ {
		if color.Label(i) == "J" {
			t.Fatalf("Row %d has excluded color J", i)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	config := DefaultDiamondsConfig()
	config.Rows = 3
	config.MissingPrice = 1
	rows := NewDiamondsGenerator(config).GenerateRows()

	path := filepath.Join(t.TempDir(), "diamonds.csv")
	if err := WriteCSV(path, rows); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "carat,cut,color,clarity,depth,table,price,x,y,z" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], ",,") {
		t.Errorf("Expected empty price field in first row: %s", lines[1])
	}
}

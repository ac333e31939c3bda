package pricelist

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := row
		if err := f.SetSheetRow("Sheet1", cell, &values); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestReadGrid_FirstSheet(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"title"},
		{},
		{"code", "article", "name"},
		{"", "", "", "", "price", "currency"},
		{nil, nil, "Binders"},
		{"P100", "ART1", "Binder Clip", "BC001", 10.5, "USD"},
	})

	grid, err := ReadGrid(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(grid) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(grid))
	}

	if grid[4][0] != nil {
		t.Errorf("expected empty cell to be nil, got %#v", grid[4][0])
	}
	if grid[4][2] != "Binders" {
		t.Errorf("expected category cell 'Binders', got %#v", grid[4][2])
	}
	if grid[5][4] != "10.5" {
		t.Errorf("expected raw price '10.5', got %#v", grid[5][4])
	}
	if grid[5][5] != "USD" {
		t.Errorf("expected currency 'USD', got %#v", grid[5][5])
	}
}

func TestReadGrid_OnlyFirstSheetIsRead(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetCellValue("Sheet1", "A1", "first"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NewSheet("Other"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Other", "A1", "second"); err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatal(err)
	}

	grid, err := ReadGrid(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grid) != 1 || grid[0][0] != "first" {
		t.Errorf("expected only the first sheet, got %#v", grid)
	}
}

func TestReadGrid_NotAWorkbook(t *testing.T) {
	_, err := ReadGrid(strings.NewReader("code;name\nP1;Pen\n"))
	if err == nil {
		t.Fatal("expected error for non-workbook input")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

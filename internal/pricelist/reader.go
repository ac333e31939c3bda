package pricelist

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrDecode is returned when the input is not a readable workbook.
var ErrDecode = errors.New("pricelist: not a readable workbook")

// ReadGrid decodes the first sheet of a workbook. Cell values are raw
// (unformatted) strings; empty cells are nil.
func ReadGrid(r io.Reader) (Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Grid{}, nil
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrDecode, sheets[0], err)
	}

	grid := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, v := range row {
			if v != "" {
				cells[j] = v
			}
		}
		grid[i] = cells
	}
	return grid, nil
}

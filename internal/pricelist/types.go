// Package pricelist turns a supplier price list workbook into product records.
//
// The layout is fixed: rows before HeaderRows are titles, column 0 holds the
// product code, column 1 the article, column 2 the name, column 3 the barcode
// and the remaining columns hold (price, currency) pairs, one per supplier.
// A row with an empty code and a non-empty name is a category marker and
// applies to every product row below it until the next marker.
package pricelist

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// HeaderRows is the number of leading rows that are never classified.
	HeaderRows = 4

	// UnnamedProduct replaces an empty name cell on a product row.
	UnnamedProduct = "Unnamed Product"

	colCode    = 0
	colArticle = 1
	colName    = 2
	colBarcode = 3
)

// Cell is an untyped spreadsheet value. nil means the cell is absent.
type Cell = any

// Grid is the first sheet of a workbook, row-major, zero-indexed.
type Grid [][]Cell

// SupplierPrice is one supplier quote for a product. At least one of Price
// or Currency is set.
type SupplierPrice struct {
	Supplier string
	Price    decimal.NullDecimal
	Currency string
}

// ProductRecord is a product row after extraction. Empty optional strings
// mean the value was absent in the source.
type ProductRecord struct {
	Row      int
	Code     string
	Article  string
	Name     string
	Barcode  string
	Category string
	Prices   []SupplierPrice
}

// RowError reports a product row that could not be extracted.
type RowError struct {
	Row int // 1-based spreadsheet row
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("Row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

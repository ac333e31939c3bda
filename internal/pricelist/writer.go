package pricelist

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

// WriteWorkbook renders products in the import layout: HeaderRows header
// rows, then products grouped under category marker rows. Products without a
// category come first, before any marker. Reading the result back with
// ReadGrid and Scan yields the same records.
func WriteWorkbook(w io.Writer, products []ProductRecord, suppliers []SupplierBinding) error {
	f := excelize.NewFile()
	defer f.Close()

	width := lastColumn(suppliers) + 1

	headerStyleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#548235"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	categoryStyleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Italic: true},
	})
	if err != nil {
		return fmt.Errorf("create category style: %w", err)
	}

	title := make([]any, width)
	title[colCode] = "Прайс-лист поставщиков"
	columns := make([]any, width)
	columns[colCode] = "Код"
	columns[colArticle] = "Артикул"
	columns[colName] = "Номенклатура"
	columns[colBarcode] = "Штрихкод"
	subHeader := make([]any, width)
	for _, s := range suppliers {
		columns[s.PriceColumn] = s.Name
		subHeader[s.PriceColumn] = "Цена"
		subHeader[s.CurrencyColumn] = "Валюта"
	}
	header := [HeaderRows][]any{title, make([]any, width), columns, subHeader}

	rowNum := 1
	setRow := func(values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", rowNum, err)
		}
		rowNum++
		return nil
	}

	for _, values := range header {
		if err := setRow(values); err != nil {
			return err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(width)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "A3", fmt.Sprintf("%s4", lastCol), headerStyleID); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for _, group := range groupByCategory(products) {
		if group.category != "" {
			marker := make([]any, width)
			marker[colName] = group.category
			if err := f.SetCellStyle(exportSheet, fmt.Sprintf("C%d", rowNum), fmt.Sprintf("C%d", rowNum), categoryStyleID); err != nil {
				return fmt.Errorf("style category: %w", err)
			}
			if err := setRow(marker); err != nil {
				return err
			}
		}
		for _, p := range group.products {
			row := rowNum
			if err := setRow(productValues(p, suppliers, width)); err != nil {
				return err
			}
			if err := setPrices(f, row, p, suppliers); err != nil {
				return err
			}
		}
	}

	for col, w := range map[string]float64{"A": 14, "B": 14, "C": 48, "D": 16} {
		if err := f.SetColWidth(exportSheet, col, col, w); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type categoryGroup struct {
	category string
	products []ProductRecord
}

func groupByCategory(products []ProductRecord) []categoryGroup {
	groups := []categoryGroup{{}}
	index := map[string]int{"": 0}
	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, categoryGroup{category: p.Category})
		}
		groups[i].products = append(groups[i].products, p)
	}
	return groups
}

func productValues(p ProductRecord, suppliers []SupplierBinding, width int) []any {
	values := make([]any, width)
	values[colCode] = p.Code
	values[colName] = p.Name
	if p.Article != "" {
		values[colArticle] = p.Article
	}
	if p.Barcode != "" {
		values[colBarcode] = p.Barcode
	}

	bySupplier := make(map[string]SupplierPrice, len(p.Prices))
	for _, sp := range p.Prices {
		bySupplier[sp.Supplier] = sp
	}
	for _, s := range suppliers {
		sp, ok := bySupplier[s.Name]
		if !ok {
			continue
		}
		if sp.Currency != "" {
			values[s.CurrencyColumn] = sp.Currency
		}
	}
	return values
}

// setPrices writes prices as numeric cells holding the exact decimal text,
// so no digits are lost to float64.
func setPrices(f *excelize.File, row int, p ProductRecord, suppliers []SupplierBinding) error {
	bySupplier := make(map[string]SupplierPrice, len(p.Prices))
	for _, sp := range p.Prices {
		bySupplier[sp.Supplier] = sp
	}
	for _, s := range suppliers {
		sp, ok := bySupplier[s.Name]
		if !ok || !sp.Price.Valid {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(s.PriceColumn+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellDefault(exportSheet, cell, sp.Price.Decimal.String()); err != nil {
			return fmt.Errorf("write price %s: %w", cell, err)
		}
	}
	return nil
}

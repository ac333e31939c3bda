package pricelist

import (
	"fmt"
)

// Extract builds a ProductRecord from a product row. rowIdx is zero-based.
// Prices are emitted only for suppliers with a parseable price or a
// currency; a currency without a usable price is kept with Price unset.
func Extract(rowIdx int, row []Cell, category string, suppliers []SupplierBinding) (ProductRecord, error) {
	code, err := cellText(cellAt(row, colCode))
	if err != nil {
		return ProductRecord{}, fmt.Errorf("code: %w", err)
	}
	if code == "" {
		return ProductRecord{}, fmt.Errorf("code is empty")
	}
	article, err := cellText(cellAt(row, colArticle))
	if err != nil {
		return ProductRecord{}, fmt.Errorf("article: %w", err)
	}
	name, err := cellText(cellAt(row, colName))
	if err != nil {
		return ProductRecord{}, fmt.Errorf("name: %w", err)
	}
	if name == "" {
		name = UnnamedProduct
	}
	barcode, err := cellText(cellAt(row, colBarcode))
	if err != nil {
		return ProductRecord{}, fmt.Errorf("barcode: %w", err)
	}

	record := ProductRecord{
		Row:      rowIdx + 1,
		Code:     code,
		Article:  article,
		Name:     name,
		Barcode:  barcode,
		Category: category,
	}

	for _, s := range suppliers {
		price := cellPrice(cellAt(row, s.PriceColumn))
		currency, err := cellText(cellAt(row, s.CurrencyColumn))
		if err != nil {
			return ProductRecord{}, fmt.Errorf("currency for %s: %w", s.Name, err)
		}
		if !price.Valid && currency == "" {
			continue
		}
		record.Prices = append(record.Prices, SupplierPrice{
			Supplier: s.Name,
			Price:    price,
			Currency: currency,
		})
	}

	return record, nil
}

package pricelist

// SupplierBinding maps a supplier to its price and currency columns.
type SupplierBinding struct {
	Name           string
	PriceColumn    int
	CurrencyColumn int
}

// Column 16 is unused in the source layout.
var defaultSuppliers = [...]SupplierBinding{
	{Name: "Реалист", PriceColumn: 4, CurrencyColumn: 5},
	{Name: "Комус", PriceColumn: 6, CurrencyColumn: 7},
	{Name: "Самсон", PriceColumn: 8, CurrencyColumn: 9},
	{Name: "ОфисМаг", PriceColumn: 10, CurrencyColumn: 11},
	{Name: "Берлога", PriceColumn: 12, CurrencyColumn: 13},
	{Name: "Канцбург", PriceColumn: 14, CurrencyColumn: 15},
	{Name: "Хатбер", PriceColumn: 17, CurrencyColumn: 18},
	{Name: "Attache", PriceColumn: 19, CurrencyColumn: 20},
	{Name: "Эрих Краузе", PriceColumn: 21, CurrencyColumn: 22},
	{Name: "Brauberg", PriceColumn: 23, CurrencyColumn: 24},
	{Name: "Пчёлка", PriceColumn: 25, CurrencyColumn: 26},
	{Name: "Альт", PriceColumn: 27, CurrencyColumn: 28},
}

// DefaultSuppliers returns the supplier column map of the price list layout.
// The returned slice is a copy.
func DefaultSuppliers() []SupplierBinding {
	out := make([]SupplierBinding, len(defaultSuppliers))
	copy(out, defaultSuppliers[:])
	return out
}

// lastColumn returns the highest column index referenced by the bindings.
func lastColumn(suppliers []SupplierBinding) int {
	last := colBarcode
	for _, s := range suppliers {
		if s.PriceColumn > last {
			last = s.PriceColumn
		}
		if s.CurrencyColumn > last {
			last = s.CurrencyColumn
		}
	}
	return last
}

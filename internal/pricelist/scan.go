package pricelist

// RowKind is the classification of a grid row.
type RowKind int

const (
	RowSkip RowKind = iota
	RowCategory
	RowProduct
)

// Classify inspects the code and name cells of a row.
func Classify(row []Cell) RowKind {
	if len(row) == 0 {
		return RowSkip
	}
	codeBlank := isBlank(cellAt(row, colCode))
	nameBlank := isBlank(cellAt(row, colName))
	switch {
	case !codeBlank:
		return RowProduct
	case !nameBlank:
		return RowCategory
	default:
		return RowSkip
	}
}

// ScanResult is the outcome of a single pass over a grid.
type ScanResult struct {
	Products   []ProductRecord
	Categories []string // distinct, in order of first appearance
	Processed  int      // product rows seen, including failed ones
	Errors     []RowError
}

// scanState is the accumulator threaded through the rows.
type scanState struct {
	suppliers []SupplierBinding
	category  string
	seen      map[string]struct{}
	result    ScanResult
}

func (st *scanState) step(rowIdx int, row []Cell) {
	switch Classify(row) {
	case RowCategory:
		name, err := cellText(cellAt(row, colName))
		if err != nil || name == "" {
			return
		}
		st.category = name
		if _, ok := st.seen[name]; !ok {
			st.seen[name] = struct{}{}
			st.result.Categories = append(st.result.Categories, name)
		}
	case RowProduct:
		st.result.Processed++
		record, err := Extract(rowIdx, row, st.category, st.suppliers)
		if err != nil {
			st.result.Errors = append(st.result.Errors, RowError{Row: rowIdx + 1, Err: err})
			return
		}
		st.result.Products = append(st.result.Products, record)
	}
}

// Scan classifies every row after HeaderRows in a single forward pass and
// extracts the product rows. Products before the first category marker have
// no category.
func Scan(grid Grid, suppliers []SupplierBinding) ScanResult {
	st := &scanState{
		suppliers: suppliers,
		seen:      make(map[string]struct{}),
	}
	for rowIdx := HeaderRows; rowIdx < len(grid); rowIdx++ {
		st.step(rowIdx, grid[rowIdx])
	}
	return st.result
}

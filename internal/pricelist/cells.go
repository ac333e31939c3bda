package pricelist

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// cellAt returns the cell at col or nil for ragged rows.
func cellAt(row []Cell, col int) Cell {
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

// cellText coerces a cell to a trimmed string.
func cellText(c Cell) (string, error) {
	switch v := c.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case bool:
		return strconv.FormatBool(v), nil
	case decimal.Decimal:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unsupported cell type %T", c)
	}
}

// isBlank reports whether a cell is absent or whitespace. Cells that cannot
// be coerced are not blank.
func isBlank(c Cell) bool {
	s, err := cellText(c)
	return err == nil && s == ""
}

// cellPrice parses a price cell. Anything that is not a finite number is
// reported as absent.
func cellPrice(c Cell) decimal.NullDecimal {
	switch v := c.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(v))
	case float32:
		return cellPrice(float64(v))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(v)))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(v))
	case int32:
		return decimal.NewNullDecimal(decimal.NewFromInt32(v))
	case decimal.Decimal:
		return decimal.NewNullDecimal(v)
	case string:
		d, err := decimal.NewFromString(normalizeNumber(v))
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	default:
		return decimal.NullDecimal{}
	}
}

var numberSpaces = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "\t", "")

// normalizeNumber rewrites a human formatted number into the form
// decimal.NewFromString reads. The last of "," and "." is the decimal
// separator; the other one is accepted only as a thousands separator between
// groups of three digits. A lone separator is a decimal point, except a single
// comma followed by exactly three digits ("1,234"), which is ambiguous.
// Input that fits none of these shapes yields "" so the price is absent.
func normalizeNumber(s string) string {
	s = numberSpaces.Replace(strings.TrimSpace(s))
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}

	commas, dots := strings.Count(s, ","), strings.Count(s, ".")
	switch {
	case commas == 0 && dots <= 1:
		// plain or exponent form, e.g. raw cell values
		return sign + s

	case commas > 0 && dots > 0:
		dec, group := ",", "."
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			dec, group = ".", ","
		}
		if strings.Count(s, dec) != 1 {
			return ""
		}
		intPart, frac, _ := strings.Cut(s, dec)
		digits, ok := ungroup(intPart, group)
		if !ok || !isDigits(frac) {
			return ""
		}
		return sign + digits + "." + frac
	}

	sep, n := ",", commas
	if dots > 0 {
		sep, n = ".", dots
	}
	if n > 1 {
		digits, ok := ungroup(s, sep)
		if !ok {
			return ""
		}
		return sign + digits
	}

	intPart, frac, _ := strings.Cut(s, ",")
	if len(frac) == 3 && strings.TrimLeft(intPart, "0") != "" {
		return ""
	}
	if (intPart != "" && !isDigits(intPart)) || !isDigits(frac) {
		return ""
	}
	return sign + intPart + "." + frac
}

// ungroup joins digit groups split by sep: 1-3 leading digits, then
// groups of exactly three.
func ungroup(s, sep string) (string, bool) {
	groups := strings.Split(s, sep)
	for i, g := range groups {
		if !isDigits(g) || len(g) > 3 || (i > 0 && len(g) != 3) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

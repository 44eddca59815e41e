package feature

import (
	"fmt"
	"strings"
)

// RequiredColumns are the raw input columns the engine cannot work without.
// Loaders validate these against the source header before any record is
// built; the predictor's prepare step fills defaults for everything else.
var RequiredColumns = []string{
	"product_id",
	"current_stock",
	"minimum_stock_level",
	"supplier_lead_time",
}

// MissingFieldError reports raw input that is structurally missing a column
// the engine requires. The caller decides whether to fill defaults before
// invoking the engine; the engine itself never guesses.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required columns missing from input: %s", strings.Join(e.Fields, ", "))
}

// ValidateColumns checks a source header against RequiredColumns.
func ValidateColumns(present []string) error {
	have := make(map[string]bool, len(present))
	for _, col := range present {
		have[strings.ToLower(strings.TrimSpace(col))] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !have[col] {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}
	return nil
}

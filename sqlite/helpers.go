package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// nullTime renders an optional timestamp for storage.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

// nullDecimal renders an optional amount for storage.
func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// scanNullTime converts a nullable timestamp column back to a pointer.
func scanNullTime(v sql.NullString, fieldName string) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := parseRFC3339(v.String, fieldName)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

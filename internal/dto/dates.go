package dto

import (
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire format for all date-only fields.
const DateLayout = "2006-01-02"

// FormatDate renders a date column in wire format.
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

// ParseDate parses a wire-format date into a date column value.
func ParseDate(value string) (datatypes.Date, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(parsed), nil
}

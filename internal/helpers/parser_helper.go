package helpers

import (
	"fmt"
	"strconv"
	"time"
)

// localDateTimeLayout matches the value of an HTML datetime-local input.
const localDateTimeLayout = "2006-01-02T15:04"

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ParseLocalDateTime parses a datetime-local form value as UTC.
func ParseLocalDateTime(s string) (time.Time, error) {
	t, err := time.Parse(localDateTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q: %w", s, err)
	}
	return t, nil
}

// ParsePrice parses a non-negative decimal price.
func ParsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if price < 0 {
		return 0, fmt.Errorf("price must not be negative")
	}
	return price, nil
}

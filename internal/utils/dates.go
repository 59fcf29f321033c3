package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/employeest/employeest-api/internal/constants"
)

// ParseDate parses a YYYY-MM-DD string as midnight UTC
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// ParseOptionalDate parses value unless it is empty
func ParseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.UTC().Format(constants.DateLayout)
}

// Today returns midnight UTC of the day containing now
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package models

import "time"

// DateLayout is the layout of session dates (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// ISODateLayout is the layout used for date columns in exports (YYYY-MM-DD).
const ISODateLayout = "2006-01-02"

// SessionDates is the fixed, ordered set of weekly session dates the
// register covers.
var SessionDates = []string{
	"04-01-2026", "11-01-2026", "18-01-2026", "25-01-2026",
	"01-02-2026", "08-02-2026", "15-02-2026", "22-02-2026",
	"01-03-2026", "08-03-2026", "15-03-2026", "22-03-2026", "29-03-2026",
	"05-04-2026", "12-04-2026", "19-04-2026", "26-04-2026",
}

// MonthHeader groups consecutive session dates under a month name.
type MonthHeader struct {
	Name string `json:"name"`
	Span int    `json:"span"`
}

// MonthHeaders derives the month spans of dates, in order.
func MonthHeaders(dates []string) []MonthHeader {
	var headers []MonthHeader
	for _, d := range dates {
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			continue
		}
		name := t.Month().String()
		if n := len(headers); n > 0 && headers[n-1].Name == name {
			headers[n-1].Span++
			continue
		}
		headers = append(headers, MonthHeader{Name: name, Span: 1})
	}
	return headers
}

// IsSessionDate reports whether date is one of SessionDates.
func IsSessionDate(date string) bool {
	for _, d := range SessionDates {
		if d == date {
			return true
		}
	}
	return false
}

// ToISODate converts DD-MM-YYYY to YYYY-MM-DD.
func ToISODate(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return t.Format(ISODateLayout), nil
}

// FromISODate converts YYYY-MM-DD to DD-MM-YYYY.
func FromISODate(iso string) (string, error) {
	t, err := time.Parse(ISODateLayout, iso)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

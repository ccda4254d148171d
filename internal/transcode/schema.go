// Package transcode converts groups to and from the flat spreadsheet layout
// used for bulk import and export: one row per member, group columns
// repeated on every row, one column per session date.
package transcode

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/rollbook/internal/models"
)

// Column positions of the flat layout.
const (
	colGroupName = iota
	colGroupID
	colLeader
	colCoLeader
	colPeriod
	colMemberName
	colPhone
	firstDateColumn
)

// minColumns is the narrowest header or row that can describe a group.
const minColumns = colPeriod + 1

var (
	// ErrBadHeader is returned when the header row cannot describe the layout.
	ErrBadHeader = errors.New("csv header has too few columns")
	// ErrNoGroups is returned when no row produced a group.
	ErrNoGroups = errors.New("no valid groups found in csv")
)

// DateColumn binds a column index to the session date it holds.
type DateColumn struct {
	Index int
	Date  string // DD-MM-YYYY
}

// Schema is the column mapping derived from a header row.
type Schema struct {
	Width int
	Dates []DateColumn
}

// MapSchema inspects a header row. Every column whose text starts with
// YYYY-MM-DD (a time suffix is allowed) becomes a date column, wherever it
// sits; date columns normally start at firstDateColumn. Other columns are
// ignored.
func MapSchema(header []string) (Schema, error) {
	if len(header) < minColumns {
		return Schema{}, fmt.Errorf("%w: got %d, want at least %d", ErrBadHeader, len(header), minColumns)
	}

	schema := Schema{Width: len(header)}
	seen := make(map[string]bool)
	for i := range header {
		date, ok := headerDate(header[i])
		if !ok || seen[date] {
			continue
		}
		seen[date] = true
		schema.Dates = append(schema.Dates, DateColumn{Index: i, Date: date})
	}
	return schema, nil
}

func headerDate(col string) (string, bool) {
	clean := strings.TrimSpace(strings.ReplaceAll(col, `"`, ""))
	if len(clean) < len(models.ISODateLayout) {
		return "", false
	}
	t, err := time.Parse(models.ISODateLayout, clean[:len(models.ISODateLayout)])
	if err != nil {
		return "", false
	}
	return t.Format(models.DateLayout), true
}

// DateStrings returns the mapped dates in column order.
func (s Schema) DateStrings() []string {
	out := make([]string, len(s.Dates))
	for i, d := range s.Dates {
		out[i] = d.Date
	}
	return out
}

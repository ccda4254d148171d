package models

import "fmt"

// Status is the attendance mark of one member on one session date.
// The zero value is StatusUnmarked.
type Status string

const (
	StatusUnmarked Status = ""
	StatusPresent  Status = "P"
	StatusAbsent   Status = "A"
)

// Next returns the status that follows s in the toggle cycle
// Unmarked -> Present -> Absent -> Unmarked.
func (s Status) Next() Status {
	switch s {
	case StatusUnmarked:
		return StatusPresent
	case StatusPresent:
		return StatusAbsent
	default:
		return StatusUnmarked
	}
}

// Marked reports whether s is Present or Absent.
func (s Status) Marked() bool {
	return s == StatusPresent || s == StatusAbsent
}

func (s Status) String() string {
	switch s {
	case StatusPresent:
		return "Present"
	case StatusAbsent:
		return "Absent"
	case StatusUnmarked:
		return "Unmarked"
	default:
		return fmt.Sprintf("Status(%q)", string(s))
	}
}

// ParseStatus maps a cell value to a Status. Only the literals "P" and "A"
// are marks; anything else is Unmarked.
func ParseStatus(v string) Status {
	switch v {
	case "P":
		return StatusPresent
	case "A":
		return StatusAbsent
	default:
		return StatusUnmarked
	}
}

// AttendanceTable maps member ID -> session date -> Status.
// A missing entry is Unmarked; tables never store StatusUnmarked.
type AttendanceTable map[string]map[string]Status

// Get returns the status of a cell, Unmarked when absent.
func (t AttendanceTable) Get(memberID, date string) Status {
	return t[memberID][date]
}

// With returns a copy of t with a single cell changed. Setting Unmarked
// removes the entry; a member row left empty is dropped.
func (t AttendanceTable) With(memberID, date string, s Status) AttendanceTable {
	out := make(AttendanceTable, len(t)+1)
	for id, row := range t {
		out[id] = row
	}

	row := make(map[string]Status, len(t[memberID])+1)
	for d, v := range t[memberID] {
		row[d] = v
	}
	if s.Marked() {
		row[date] = s
	} else {
		delete(row, date)
	}

	if len(row) == 0 {
		delete(out, memberID)
	} else {
		out[memberID] = row
	}
	return out
}

// Without returns a copy of t with the row of memberID removed.
func (t AttendanceTable) Without(memberID string) AttendanceTable {
	out := make(AttendanceTable, len(t))
	for id, row := range t {
		if id != memberID {
			out[id] = row
		}
	}
	return out
}

// Row returns a copy of the marks of one member.
func (t AttendanceTable) Row(memberID string) map[string]Status {
	src := t[memberID]
	if len(src) == 0 {
		return nil
	}
	row := make(map[string]Status, len(src))
	for d, v := range src {
		row[d] = v
	}
	return row
}

// Clone deep-copies the table. Explicit Unmarked entries are dropped.
func (t AttendanceTable) Clone() AttendanceTable {
	out := make(AttendanceTable, len(t))
	for id, row := range t {
		cp := make(map[string]Status, len(row))
		for d, v := range row {
			if v.Marked() {
				cp[d] = v
			}
		}
		if len(cp) > 0 {
			out[id] = cp
		}
	}
	return out
}

// Package attendance holds the pure attendance computations: toggling a
// cell and deriving per-date, per-group and organization-wide aggregates.
package attendance

import "github.com/mmynk/rollbook/internal/models"

// ToggleStatus advances one cell through the cycle
// Unmarked -> Present -> Absent -> Unmarked.
// It returns the updated group and the status the cell had before. The input
// group is not modified; only the toggled cell differs in the result.
func ToggleStatus(group models.Group, memberID, date string) (models.Group, models.Status) {
	previous := group.Attendance.Get(memberID, date)
	updated := group
	updated.Attendance = group.Attendance.With(memberID, date, previous.Next())
	return updated, previous
}

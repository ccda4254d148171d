package attendance

import "github.com/mmynk/rollbook/internal/models"

// Stat is the attendance count of one group on one date.
type Stat struct {
	Date         string
	PresentCount int
	AbsentCount  int
	Total        int // Current member count, not the number of marks
}

// Summary is the headline attendance of one group.
type Summary struct {
	AvgAttendance         float64 // Present / (Present + Absent) over all dates, in percent
	LastSessionAttendance float64 // Present on the last session / member count, in percent
}

// ComputeStats counts Present and Absent marks per date. Every date in dates
// yields exactly one Stat, in order, even when nobody was marked.
// Marks of people who are no longer members are ignored.
func ComputeStats(group models.Group, dates []string) []Stat {
	stats := make([]Stat, len(dates))
	for i, date := range dates {
		stat := Stat{Date: date, Total: len(group.Members)}
		for _, m := range group.Members {
			switch group.Attendance.Get(m.ID, date) {
			case models.StatusPresent:
				stat.PresentCount++
			case models.StatusAbsent:
				stat.AbsentCount++
			}
		}
		stats[i] = stat
	}
	return stats
}

// ComputeSummary computes the group's average attendance over dates and its
// attendance on the last session held by any of groups.
//
// Both values are percentages. With no marks, or no members, they are 0.
func ComputeSummary(group models.Group, groups []models.Group, dates []string) Summary {
	present, marked := countMarks(group, dates)

	var summary Summary
	if marked > 0 {
		summary.AvgAttendance = percent(present, marked)
	}

	last := LastSessionDate(groups, dates)
	if last != "" && len(group.Members) > 0 {
		lastPresent := 0
		for _, m := range group.Members {
			if group.Attendance.Get(m.ID, last) == models.StatusPresent {
				lastPresent++
			}
		}
		summary.LastSessionAttendance = percent(lastPresent, len(group.Members))
	}
	return summary
}

// LastSessionDate scans dates backwards and returns the latest one with at
// least one mark in any group. When nothing is marked it falls back to the
// first date; with no dates it returns "".
func LastSessionDate(groups []models.Group, dates []string) string {
	if len(dates) == 0 {
		return ""
	}
	for i := len(dates) - 1; i >= 0; i-- {
		for _, g := range groups {
			for _, row := range g.Attendance {
				if row[dates[i]].Marked() {
					return dates[i]
				}
			}
		}
	}
	return dates[0]
}

// countMarks returns the number of Present marks and of all marks of the
// current members over dates.
func countMarks(group models.Group, dates []string) (present, marked int) {
	for _, m := range group.Members {
		for _, date := range dates {
			switch group.Attendance.Get(m.ID, date) {
			case models.StatusPresent:
				present++
				marked++
			case models.StatusAbsent:
				marked++
			}
		}
	}
	return present, marked
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

package attendance

import (
	"math"
	"sort"

	"github.com/mmynk/rollbook/internal/models"
)

// GroupSummary is one row of the dashboard.
type GroupSummary struct {
	GroupID      string
	GroupName    string
	Leader       string
	TotalMembers int
	Summary
}

// Overview aggregates every group for the dashboard.
type Overview struct {
	Groups       []GroupSummary
	TotalMembers int
	AvgOverall   float64 // Mean of the groups' AvgAttendance
	LastSession  string
}

// Dashboard summarises all groups over dates.
func Dashboard(groups []models.Group, dates []string) Overview {
	overview := Overview{
		Groups:      make([]GroupSummary, 0, len(groups)),
		LastSession: LastSessionDate(groups, dates),
	}

	var sum float64
	for _, g := range groups {
		s := ComputeSummary(g, groups, dates)
		overview.Groups = append(overview.Groups, GroupSummary{
			GroupID:      g.ID,
			GroupName:    g.Name,
			Leader:       g.Leader,
			TotalMembers: len(g.Members),
			Summary:      s,
		})
		overview.TotalMembers += len(g.Members)
		sum += s.AvgAttendance
	}
	if len(groups) > 0 {
		overview.AvgOverall = sum / float64(len(groups))
	}
	return overview
}

// WeekGroup is one group's attendance on a single date.
type WeekGroup struct {
	GroupID   string
	GroupName string
	Leader    string
	Present   int
	Absent    int
	Total     int
	Rate      float64 // Present / Total, in percent
}

// Week is the organization-wide attendance on a single date.
type Week struct {
	Date          string
	Groups        []WeekGroup // Sorted by Rate, best first
	TotalPresent  int
	TotalAbsent   int
	TotalPossible int
	OverallRate   float64
}

// Weekly computes the attendance of every group on date.
func Weekly(groups []models.Group, date string) Week {
	week := Week{Date: date, Groups: make([]WeekGroup, 0, len(groups))}
	for _, g := range groups {
		wg := WeekGroup{
			GroupID:   g.ID,
			GroupName: g.Name,
			Leader:    g.Leader,
			Total:     len(g.Members),
		}
		for _, m := range g.Members {
			switch g.Attendance.Get(m.ID, date) {
			case models.StatusPresent:
				wg.Present++
			case models.StatusAbsent:
				wg.Absent++
			}
		}
		wg.Rate = percent(wg.Present, wg.Total)

		week.Groups = append(week.Groups, wg)
		week.TotalPresent += wg.Present
		week.TotalAbsent += wg.Absent
		week.TotalPossible += wg.Total
	}

	sort.SliceStable(week.Groups, func(i, j int) bool {
		return week.Groups[i].Rate > week.Groups[j].Rate
	})
	week.OverallRate = percent(week.TotalPresent, week.TotalPossible)
	return week
}

// GroupRate is a group's overall attendance rate over all of its marks.
type GroupRate struct {
	Name           string `json:"name"`
	Leader         string `json:"leader"`
	MemberCount    int    `json:"memberCount"`
	AttendanceRate int    `json:"attendanceRate"` // Rounded percent
}

// OrganizationRates computes each group's rate over every mark in its
// table, whatever the date. The rate is rounded to a whole percent.
func OrganizationRates(groups []models.Group) []GroupRate {
	rates := make([]GroupRate, 0, len(groups))
	for _, g := range groups {
		present, marked := 0, 0
		for _, row := range g.Attendance {
			for _, s := range row {
				if s == models.StatusPresent {
					present++
				}
				if s.Marked() {
					marked++
				}
			}
		}
		rates = append(rates, GroupRate{
			Name:           g.Name,
			Leader:         g.Leader,
			MemberCount:    len(g.Members),
			AttendanceRate: int(math.Round(percent(present, marked))),
		})
	}
	return rates
}

package service

import (
	"github.com/mmynk/rollbook/internal/attendance"
	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/transcode"
	"github.com/mmynk/rollbook/pkg/api"
)

func toAPIMember(m models.Member) api.Member {
	return api.Member{ID: m.ID, Name: m.Name, Phone: m.Phone}
}

func toAPIMembers(members []models.Member) []api.Member {
	out := make([]api.Member, len(members))
	for i, m := range members {
		out[i] = toAPIMember(m)
	}
	return out
}

func toAPIGroup(g models.Group) api.Group {
	table := make(map[string]map[string]string, len(g.Attendance))
	for memberID, row := range g.Attendance {
		cells := make(map[string]string, len(row))
		for date, status := range row {
			cells[date] = string(status)
		}
		table[memberID] = cells
	}
	return api.Group{
		ID:         g.ID,
		Name:       g.Name,
		Leader:     g.Leader,
		CoLeader:   g.CoLeader,
		Period:     g.Period,
		Members:    toAPIMembers(g.Members),
		Attendance: table,
	}
}

func toAPIActivity(a models.Activity) api.Activity {
	return api.Activity{
		ID:          a.ID,
		Timestamp:   a.Timestamp,
		Type:        string(a.Kind),
		GroupID:     a.GroupID,
		Description: a.Description,
		Revertible:  a.Kind != models.KindGroupAdd,
	}
}

func toAPISummary(s attendance.Summary) api.Summary {
	return api.Summary{
		AvgAttendance:         s.AvgAttendance,
		LastSessionAttendance: s.LastSessionAttendance,
	}
}

func toAPIStats(stats []attendance.Stat) []api.Stat {
	out := make([]api.Stat, len(stats))
	for i, s := range stats {
		out[i] = api.Stat{Date: s.Date, Present: s.PresentCount, Absent: s.AbsentCount, Total: s.Total}
	}
	return out
}

func toAPIMonths(headers []models.MonthHeader) []api.MonthHeader {
	out := make([]api.MonthHeader, len(headers))
	for i, h := range headers {
		out[i] = api.MonthHeader{Name: h.Name, Span: h.Span}
	}
	return out
}

func toAPIWeek(w attendance.Week) *api.GetWeeklyReportResponse {
	groups := make([]api.WeekGroup, len(w.Groups))
	for i, g := range w.Groups {
		groups[i] = api.WeekGroup{
			GroupID:   g.GroupID,
			GroupName: g.GroupName,
			Leader:    g.Leader,
			Present:   g.Present,
			Absent:    g.Absent,
			Total:     g.Total,
			Rate:      g.Rate,
		}
	}
	return &api.GetWeeklyReportResponse{
		Date:          w.Date,
		Groups:        groups,
		TotalPresent:  w.TotalPresent,
		TotalAbsent:   w.TotalAbsent,
		TotalPossible: w.TotalPossible,
		OverallRate:   w.OverallRate,
	}
}

func toAPIReport(r transcode.Report) api.ImportReport {
	skipped := make([]api.RowIssue, len(r.Skipped))
	for i, s := range r.Skipped {
		skipped[i] = api.RowIssue{Line: s.Line, Reason: s.Reason}
	}
	return api.ImportReport{
		Rows:        r.Rows,
		Imported:    r.Imported,
		Skipped:     skipped,
		Groups:      r.Groups,
		Members:     r.Members,
		DateColumns: r.DateColumns,
	}
}

package narrative

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strings"

	"github.com/mmynk/rollbook/internal/attendance"
	"github.com/mmynk/rollbook/internal/models"
)

// Fallback texts returned when generation fails or yields nothing.
const (
	GroupFallback        = "Could not perform AI analysis at this time. Please check your network or try again later."
	OrganizationFallback = "Could not generate global report. Please try again."
	WeeklyFallback       = "Weekly analysis error."
)

// Analyst builds report prompts from attendance data.
type Analyst struct {
	gen Generator
}

// NewAnalyst creates an Analyst. A nil generator behaves as DisabledGenerator.
func NewAnalyst(gen Generator) *Analyst {
	if gen == nil {
		gen = DisabledGenerator{}
	}
	return &Analyst{gen: gen}
}

// AnalyzeGroup reports on one group's attendance over dates.
func (a *Analyst) AnalyzeGroup(ctx context.Context, group models.Group, dates []string) string {
	prompt := strings.Join([]string{
		"Analyze the following attendance data for a group.",
		"Members: " + toJSON(group.Members),
		"Attendance Data: " + toJSON(group.Attendance),
		"Dates: " + toJSON(dates),
		"",
		"Provide a professional summary:",
		"1. Overall attendance health.",
		"2. Most consistent members.",
		"3. At-risk members (absent for more than 2 consecutive sessions).",
		"4. Suggested actions for the group leader " + leaderName(group) + ".",
		"",
		"Format the response as clear Markdown.",
	}, "\n")

	return a.generate(ctx, "group", prompt, GroupFallback, "group_id", group.ID)
}

// AnalyzeOrganization reports on every group, using each group's overall rate.
func (a *Analyst) AnalyzeOrganization(ctx context.Context, groups []models.Group) string {
	prompt := strings.Join([]string{
		"Act as a senior operations analyst. Analyze the attendance data for the following groups in the organization:",
		toJSON(attendance.OrganizationRates(groups)),
		"",
		"Provide a Consolidated Executive Report (Markdown) covering:",
		"1. **Organization Health**: Overall attendance trends across all groups.",
		"2. **Leader Performance**: Which group leaders are driving the best engagement?",
		"3. **Critical Areas**: Identify groups performing below 50% attendance.",
		"4. **Strategic Recommendations**: 3 key actionable steps for the main administrator to improve overall participation.",
		"",
		"Keep it concise, professional, and actionable.",
	}, "\n")

	return a.generate(ctx, "organization", prompt, OrganizationFallback, "groups", len(groups))
}

// weeklyRow is the per-group payload of the weekly briefing.
type weeklyRow struct {
	GroupName string `json:"groupName"`
	Leader    string `json:"leader"`
	Present   int    `json:"present"`
	Absent    int    `json:"absent"`
	Total     int    `json:"total"`
	Rate      int    `json:"rate"`
}

// WeeklyBriefing reports on every group's attendance on date.
func (a *Analyst) WeeklyBriefing(ctx context.Context, groups []models.Group, date string) string {
	week := attendance.Weekly(groups, date)
	rows := make([]weeklyRow, len(week.Groups))
	for i, g := range week.Groups {
		rows[i] = weeklyRow{
			GroupName: g.GroupName,
			Leader:    g.Leader,
			Present:   g.Present,
			Absent:    g.Absent,
			Total:     g.Total,
			Rate:      int(math.Round(g.Rate)),
		}
	}

	prompt := strings.Join([]string{
		"Analyze the attendance for the week of " + date + ".",
		"Data: " + toJSON(rows),
		"",
		`Provide a "Weekly Performance Briefing" (Markdown):`,
		"1. **Top Performers**: Highlight groups with 90%+ attendance.",
		"2. **Concern Groups**: Identify groups with less than 60% attendance this week.",
		"3. **Sudden Drops**: If you notice a group that usually performs well but had a bad week, mention it.",
		"4. **Weekly Action Goal**: One specific focus for all leaders next week.",
		"",
		"Format professionally with icons in headers.",
	}, "\n")

	return a.generate(ctx, "weekly", prompt, WeeklyFallback, "date", date)
}

func (a *Analyst) generate(ctx context.Context, report, prompt, fallback string, attrs ...any) string {
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		slog.Error("Narrative generation failed", append([]any{"report", report, "error", err}, attrs...)...)
		return fallback
	}
	if strings.TrimSpace(text) == "" {
		slog.Warn("Narrative generation returned no text", append([]any{"report", report}, attrs...)...)
		return fallback
	}
	return text
}

func leaderName(g models.Group) string {
	if g.Leader == "" {
		return "of this group"
	}
	return g.Leader
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

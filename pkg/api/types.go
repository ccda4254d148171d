// Package api defines the request and response messages of the rollbook
// Connect services. Messages travel as JSON; see package apiconnect.
package api

// Member is one person on a group's register.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Group is a register with its members and marks.
// Attendance maps member ID -> DD-MM-YYYY date -> "P" or "A".
type Group struct {
	ID         string                       `json:"id"`
	Name       string                       `json:"name"`
	Leader     string                       `json:"leader"`
	CoLeader   string                       `json:"coLeader"`
	Period     string                       `json:"period"`
	Members    []Member                     `json:"members"`
	Attendance map[string]map[string]string `json:"attendance"`
}

// Activity is one entry of the undo log.
type Activity struct {
	ID          string `json:"id"`
	Timestamp   int64  `json:"timestamp"`
	Type        string `json:"type"`
	GroupID     string `json:"groupId"`
	Description string `json:"description"`
	Revertible  bool   `json:"revertible"`
}

// Stat is the count of marks on one date.
type Stat struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Total   int    `json:"total"`
}

// Summary holds the headline percentages of a group.
type Summary struct {
	AvgAttendance         float64 `json:"avgAttendance"`
	LastSessionAttendance float64 `json:"lastSessionAttendance"`
}

// MonthHeader spans consecutive dates of one month.
type MonthHeader struct {
	Name string `json:"name"`
	Span int    `json:"span"`
}

// GroupSummary is one row of the dashboard.
type GroupSummary struct {
	GroupID      string  `json:"groupId"`
	GroupName    string  `json:"groupName"`
	Leader       string  `json:"leader"`
	TotalMembers int     `json:"totalMembers"`
	Summary      Summary `json:"summary"`
}

// WeekGroup is one group's attendance on a single date.
type WeekGroup struct {
	GroupID   string  `json:"groupId"`
	GroupName string  `json:"groupName"`
	Leader    string  `json:"leader"`
	Present   int     `json:"present"`
	Absent    int     `json:"absent"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"`
}

// RowIssue is a CSV row skipped during import.
type RowIssue struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportReport summarises a CSV import.
type ImportReport struct {
	Rows        int        `json:"rows"`
	Imported    int        `json:"imported"`
	Skipped     []RowIssue `json:"skipped"`
	Groups      int        `json:"groups"`
	Members     int        `json:"members"`
	DateColumns []string   `json:"dateColumns"`
}

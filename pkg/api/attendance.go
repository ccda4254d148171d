package api

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetGroupResponse struct {
	Group  Group         `json:"group"`
	Dates  []string      `json:"dates"`
	Months []MonthHeader `json:"months"`
}

type CreateGroupRequest struct {
	ID       string `json:"id" validate:"required,max=64"`
	Name     string `json:"name" validate:"required,max=200"`
	Leader   string `json:"leader" validate:"max=200"`
	CoLeader string `json:"coLeader" validate:"max=200"`
	Period   string `json:"period" validate:"max=200"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type ToggleAttendanceRequest struct {
	GroupID  string `json:"groupId" validate:"required"`
	MemberID string `json:"memberId" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=02-01-2006"`
}

type ToggleAttendanceResponse struct {
	// Status is "P", "A" or "" for unmarked.
	Status         string `json:"status"`
	PreviousStatus string `json:"previousStatus"`
}

type AddMemberRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"max=50"`
}

type AddMemberResponse struct {
	Member Member `json:"member"`
}

type BulkAddMembersRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	// Text holds one "name,phone" per line; "|" and tab also separate.
	Text string `json:"text" validate:"required"`
}

type BulkAddMembersResponse struct {
	Members []Member `json:"members"`
}

type EditMemberRequest struct {
	GroupID  string `json:"groupId" validate:"required"`
	MemberID string `json:"memberId" validate:"required"`
	Name     string `json:"name" validate:"required,max=200"`
	Phone    string `json:"phone" validate:"max=50"`
}

type EditMemberResponse struct {
	Member Member `json:"member"`
}

type DeleteMemberRequest struct {
	GroupID  string `json:"groupId" validate:"required"`
	MemberID string `json:"memberId" validate:"required"`
}

type DeleteMemberResponse struct{}

type GetGroupStatsRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetGroupStatsResponse struct {
	Stats   []Stat  `json:"stats"`
	Summary Summary `json:"summary"`
}

type GetDashboardRequest struct{}

type GetDashboardResponse struct {
	Groups       []GroupSummary `json:"groups"`
	TotalMembers int            `json:"totalMembers"`
	AvgOverall   float64        `json:"avgOverall"`
	LastSession  string         `json:"lastSession"`
	Dates        []string       `json:"dates"`
}

type GetWeeklyReportRequest struct {
	// Date defaults to the last session with any mark.
	Date string `json:"date" validate:"omitempty,datetime=02-01-2006"`
}

type GetWeeklyReportResponse struct {
	Date          string      `json:"date"`
	Groups        []WeekGroup `json:"groups"`
	TotalPresent  int         `json:"totalPresent"`
	TotalAbsent   int         `json:"totalAbsent"`
	TotalPossible int         `json:"totalPossible"`
	OverallRate   float64     `json:"overallRate"`
}

type ImportCSVRequest struct {
	CSV string `json:"csv" validate:"required"`
}

type ImportCSVResponse struct {
	Report ImportReport `json:"report"`
}

type ExportCSVRequest struct{}

type ExportCSVResponse struct {
	Filename string `json:"filename"`
	CSV      string `json:"csv"`
}

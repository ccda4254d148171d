package api

type AnalyzeGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type AnalyzeGroupResponse struct {
	Analysis string `json:"analysis"`
}

type AnalyzeOrganizationRequest struct{}

type AnalyzeOrganizationResponse struct {
	Report string `json:"report"`
}

type WeeklyBriefingRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=02-01-2006"`
}

type WeeklyBriefingResponse struct {
	Date     string `json:"date"`
	Briefing string `json:"briefing"`
}

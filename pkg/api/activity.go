package api

type ListActivitiesRequest struct{}

type ListActivitiesResponse struct {
	Activities []Activity `json:"activities"`
}

type RevertActivityRequest struct {
	ActivityID string `json:"activityId" validate:"required"`
}

type RevertActivityResponse struct {
	// Outcome is one of "reverted", "not_found", "target_missing" or "unsupported".
	Outcome  string `json:"outcome"`
	Reverted bool   `json:"reverted"`
}

package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/rollbook/internal/activity"
	"github.com/mmynk/rollbook/internal/tracker"
	"github.com/mmynk/rollbook/pkg/api"
	"github.com/mmynk/rollbook/pkg/api/apiconnect"
)

// ActivityService exposes the undo log.
type ActivityService struct {
	apiconnect.UnimplementedActivityServiceHandler
	tracker *tracker.Tracker
}

// NewActivityService creates a new ActivityService over the given tracker.
func NewActivityService(t *tracker.Tracker) *ActivityService {
	return &ActivityService{tracker: t}
}

// ListActivities returns the log, most recent first.
func (s *ActivityService) ListActivities(ctx context.Context, req *connect.Request[api.ListActivitiesRequest]) (*connect.Response[api.ListActivitiesResponse], error) {
	activities := s.tracker.Activities()

	out := make([]api.Activity, len(activities))
	for i, a := range activities {
		out[i] = toAPIActivity(a)
	}
	return connect.NewResponse(&api.ListActivitiesResponse{Activities: out}), nil
}

// RevertActivity undoes one entry. An unknown or non-revertible entry is not
// an error; the outcome says what happened.
func (s *ActivityService) RevertActivity(ctx context.Context, req *connect.Request[api.RevertActivityRequest]) (*connect.Response[api.RevertActivityResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	outcome := s.tracker.Revert(ctx, req.Msg.ActivityID)
	slog.Info("RevertActivity", "activity_id", req.Msg.ActivityID, "outcome", outcome)

	return connect.NewResponse(&api.RevertActivityResponse{
		Outcome:  string(outcome),
		Reverted: outcome == activity.OutcomeReverted,
	}), nil
}

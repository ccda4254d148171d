package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/rollbook/internal/narrative"
	"github.com/mmynk/rollbook/internal/tracker"
	"github.com/mmynk/rollbook/pkg/api"
	"github.com/mmynk/rollbook/pkg/api/apiconnect"
)

// InsightService serves generated attendance reports. Generation problems
// surface as fixed fallback texts, never as RPC errors.
type InsightService struct {
	apiconnect.UnimplementedInsightServiceHandler
	tracker *tracker.Tracker
	analyst *narrative.Analyst
}

// NewInsightService creates a new InsightService.
func NewInsightService(t *tracker.Tracker, analyst *narrative.Analyst) *InsightService {
	return &InsightService{tracker: t, analyst: analyst}
}

// AnalyzeGroup reports on one group.
func (s *InsightService) AnalyzeGroup(ctx context.Context, req *connect.Request[api.AnalyzeGroupRequest]) (*connect.Response[api.AnalyzeGroupResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.tracker.Group(req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.AnalyzeGroupResponse{
		Analysis: s.analyst.AnalyzeGroup(ctx, group, s.tracker.Dates()),
	}), nil
}

// AnalyzeOrganization reports on every group.
func (s *InsightService) AnalyzeOrganization(ctx context.Context, req *connect.Request[api.AnalyzeOrganizationRequest]) (*connect.Response[api.AnalyzeOrganizationResponse], error) {
	return connect.NewResponse(&api.AnalyzeOrganizationResponse{
		Report: s.analyst.AnalyzeOrganization(ctx, s.tracker.Groups()),
	}), nil
}

// WeeklyBriefing reports on one session date, the last marked one by default.
func (s *InsightService) WeeklyBriefing(ctx context.Context, req *connect.Request[api.WeeklyBriefingRequest]) (*connect.Response[api.WeeklyBriefingResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	week, err := s.tracker.Weekly(req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.WeeklyBriefingResponse{
		Date:     week.Date,
		Briefing: s.analyst.WeeklyBriefing(ctx, s.tracker.Groups(), week.Date),
	}), nil
}

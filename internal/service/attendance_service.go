package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/tracker"
	"github.com/mmynk/rollbook/pkg/api"
	"github.com/mmynk/rollbook/pkg/api/apiconnect"
)

// AttendanceService implements the Connect AttendanceService
type AttendanceService struct {
	apiconnect.UnimplementedAttendanceServiceHandler
	tracker *tracker.Tracker
}

// NewAttendanceService creates a new AttendanceService over the given tracker.
func NewAttendanceService(t *tracker.Tracker) *AttendanceService {
	return &AttendanceService{tracker: t}
}

// ListGroups retrieves all groups.
func (s *AttendanceService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	groups := s.tracker.Groups()

	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}

	slog.Info("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// GetGroup retrieves a group by ID together with the session calendar.
func (s *AttendanceService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.tracker.Group(req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	dates := s.tracker.Dates()
	return connect.NewResponse(&api.GetGroupResponse{
		Group:  toAPIGroup(group),
		Dates:  dates,
		Months: toAPIMonths(models.MonthHeaders(dates)),
	}), nil
}

// CreateGroup creates a new, empty group.
func (s *AttendanceService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received", "group_id", req.Msg.ID, "name", req.Msg.Name)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.tracker.CreateGroup(ctx, tracker.NewGroup{
		ID:       req.Msg.ID,
		Name:     req.Msg.Name,
		Leader:   req.Msg.Leader,
		CoLeader: req.Msg.CoLeader,
		Period:   req.Msg.Period,
	})
	if err != nil {
		slog.Error("CreateGroup failed", "group_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// ToggleAttendance advances one attendance cell.
func (s *AttendanceService) ToggleAttendance(ctx context.Context, req *connect.Request[api.ToggleAttendanceRequest]) (*connect.Response[api.ToggleAttendanceResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	next, previous, err := s.tracker.ToggleAttendance(ctx, req.Msg.GroupID, req.Msg.MemberID, req.Msg.Date)
	if err != nil {
		slog.Error("ToggleAttendance failed",
			"group_id", req.Msg.GroupID,
			"member_id", req.Msg.MemberID,
			"date", req.Msg.Date,
			"error", err,
		)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ToggleAttendanceResponse{
		Status:         string(next),
		PreviousStatus: string(previous),
	}), nil
}

// AddMember adds one member to a group.
func (s *AttendanceService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	member, err := s.tracker.AddMember(ctx, req.Msg.GroupID, req.Msg.Name, req.Msg.Phone)
	if err != nil {
		slog.Error("AddMember failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member added", "group_id", req.Msg.GroupID, "member_id", member.ID)
	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(member)}), nil
}

// BulkAddMembers adds every member of a pasted roster.
func (s *AttendanceService) BulkAddMembers(ctx context.Context, req *connect.Request[api.BulkAddMembersRequest]) (*connect.Response[api.BulkAddMembersResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	members, err := s.tracker.BulkAddMembers(ctx, req.Msg.GroupID, req.Msg.Text)
	if err != nil {
		slog.Error("BulkAddMembers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Members added", "group_id", req.Msg.GroupID, "count", len(members))
	return connect.NewResponse(&api.BulkAddMembersResponse{Members: toAPIMembers(members)}), nil
}

// EditMember updates a member's name and phone.
func (s *AttendanceService) EditMember(ctx context.Context, req *connect.Request[api.EditMemberRequest]) (*connect.Response[api.EditMemberResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	member, err := s.tracker.EditMember(ctx, req.Msg.GroupID, models.Member{
		ID:    req.Msg.MemberID,
		Name:  req.Msg.Name,
		Phone: req.Msg.Phone,
	})
	if err != nil {
		slog.Error("EditMember failed", "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.EditMemberResponse{Member: toAPIMember(member)}), nil
}

// DeleteMember removes a member and its marks.
func (s *AttendanceService) DeleteMember(ctx context.Context, req *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if err := s.tracker.DeleteMember(ctx, req.Msg.GroupID, req.Msg.MemberID); err != nil {
		slog.Error("DeleteMember failed", "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member deleted", "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID)
	return connect.NewResponse(&api.DeleteMemberResponse{}), nil
}

// GetGroupStats returns per-date counts and the headline rates of a group.
func (s *AttendanceService) GetGroupStats(ctx context.Context, req *connect.Request[api.GetGroupStatsRequest]) (*connect.Response[api.GetGroupStatsResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	stats, err := s.tracker.Stats(req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	summary, err := s.tracker.Summary(req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupStatsResponse{
		Stats:   toAPIStats(stats),
		Summary: toAPISummary(summary),
	}), nil
}

// GetDashboard summarises every group.
func (s *AttendanceService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	overview := s.tracker.Dashboard()

	groups := make([]api.GroupSummary, len(overview.Groups))
	for i, g := range overview.Groups {
		groups[i] = api.GroupSummary{
			GroupID:      g.GroupID,
			GroupName:    g.GroupName,
			Leader:       g.Leader,
			TotalMembers: g.TotalMembers,
			Summary:      toAPISummary(g.Summary),
		}
	}

	return connect.NewResponse(&api.GetDashboardResponse{
		Groups:       groups,
		TotalMembers: overview.TotalMembers,
		AvgOverall:   overview.AvgOverall,
		LastSession:  overview.LastSession,
		Dates:        s.tracker.Dates(),
	}), nil
}

// GetWeeklyReport returns every group's attendance on one session date.
func (s *AttendanceService) GetWeeklyReport(ctx context.Context, req *connect.Request[api.GetWeeklyReportRequest]) (*connect.Response[api.GetWeeklyReportResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	week, err := s.tracker.Weekly(req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toAPIWeek(week)), nil
}

// ImportCSV replaces all groups with the contents of a CSV document.
func (s *AttendanceService) ImportCSV(ctx context.Context, req *connect.Request[api.ImportCSVRequest]) (*connect.Response[api.ImportCSVResponse], error) {
	slog.Info("ImportCSV request received", "bytes", len(req.Msg.CSV))

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	report, err := s.tracker.ImportCSV(ctx, strings.NewReader(req.Msg.CSV))
	if err != nil {
		slog.Warn("ImportCSV failed", "skipped", len(report.Skipped), "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ImportCSVResponse{Report: toAPIReport(report)}), nil
}

// ExportCSV returns every group as a CSV document.
func (s *AttendanceService) ExportCSV(ctx context.Context, req *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error) {
	var buf bytes.Buffer
	if err := s.tracker.ExportCSV(&buf); err != nil {
		slog.Error("ExportCSV failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.ExportCSVResponse{
		Filename: exportFilename("csv"),
		CSV:      buf.String(),
	}), nil
}

func exportFilename(ext string) string {
	return fmt.Sprintf("attendance_%s.%s", time.Now().Format("20060102_150405"), ext)
}

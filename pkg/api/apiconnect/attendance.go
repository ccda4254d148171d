package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/rollbook/pkg/api"
)

// AttendanceServiceName is the fully-qualified name of the AttendanceService service.
const AttendanceServiceName = "rollbook.v1.AttendanceService"

// Procedure paths of the AttendanceService RPCs.
const (
	AttendanceServiceListGroupsProcedure       = "/rollbook.v1.AttendanceService/ListGroups"
	AttendanceServiceGetGroupProcedure         = "/rollbook.v1.AttendanceService/GetGroup"
	AttendanceServiceCreateGroupProcedure      = "/rollbook.v1.AttendanceService/CreateGroup"
	AttendanceServiceToggleAttendanceProcedure = "/rollbook.v1.AttendanceService/ToggleAttendance"
	AttendanceServiceAddMemberProcedure        = "/rollbook.v1.AttendanceService/AddMember"
	AttendanceServiceBulkAddMembersProcedure   = "/rollbook.v1.AttendanceService/BulkAddMembers"
	AttendanceServiceEditMemberProcedure       = "/rollbook.v1.AttendanceService/EditMember"
	AttendanceServiceDeleteMemberProcedure     = "/rollbook.v1.AttendanceService/DeleteMember"
	AttendanceServiceGetGroupStatsProcedure    = "/rollbook.v1.AttendanceService/GetGroupStats"
	AttendanceServiceGetDashboardProcedure     = "/rollbook.v1.AttendanceService/GetDashboard"
	AttendanceServiceGetWeeklyReportProcedure  = "/rollbook.v1.AttendanceService/GetWeeklyReport"
	AttendanceServiceImportCSVProcedure        = "/rollbook.v1.AttendanceService/ImportCSV"
	AttendanceServiceExportCSVProcedure        = "/rollbook.v1.AttendanceService/ExportCSV"
)

// AttendanceServiceClient is a client for the rollbook.v1.AttendanceService service.
type AttendanceServiceClient interface {
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	ToggleAttendance(context.Context, *connect.Request[api.ToggleAttendanceRequest]) (*connect.Response[api.ToggleAttendanceResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	BulkAddMembers(context.Context, *connect.Request[api.BulkAddMembersRequest]) (*connect.Response[api.BulkAddMembersResponse], error)
	EditMember(context.Context, *connect.Request[api.EditMemberRequest]) (*connect.Response[api.EditMemberResponse], error)
	DeleteMember(context.Context, *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error)
	GetGroupStats(context.Context, *connect.Request[api.GetGroupStatsRequest]) (*connect.Response[api.GetGroupStatsResponse], error)
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
	GetWeeklyReport(context.Context, *connect.Request[api.GetWeeklyReportRequest]) (*connect.Response[api.GetWeeklyReportResponse], error)
	ImportCSV(context.Context, *connect.Request[api.ImportCSVRequest]) (*connect.Response[api.ImportCSVResponse], error)
	ExportCSV(context.Context, *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error)
}

// NewAttendanceServiceClient constructs a client for the rollbook.v1.AttendanceService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewAttendanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AttendanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &attendanceServiceClient{
		listGroups: connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](
			httpClient,
			baseURL+AttendanceServiceListGroupsProcedure,
			opts...,
		),
		getGroup: connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](
			httpClient,
			baseURL+AttendanceServiceGetGroupProcedure,
			opts...,
		),
		createGroup: connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](
			httpClient,
			baseURL+AttendanceServiceCreateGroupProcedure,
			opts...,
		),
		toggleAttendance: connect.NewClient[api.ToggleAttendanceRequest, api.ToggleAttendanceResponse](
			httpClient,
			baseURL+AttendanceServiceToggleAttendanceProcedure,
			opts...,
		),
		addMember: connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](
			httpClient,
			baseURL+AttendanceServiceAddMemberProcedure,
			opts...,
		),
		bulkAddMembers: connect.NewClient[api.BulkAddMembersRequest, api.BulkAddMembersResponse](
			httpClient,
			baseURL+AttendanceServiceBulkAddMembersProcedure,
			opts...,
		),
		editMember: connect.NewClient[api.EditMemberRequest, api.EditMemberResponse](
			httpClient,
			baseURL+AttendanceServiceEditMemberProcedure,
			opts...,
		),
		deleteMember: connect.NewClient[api.DeleteMemberRequest, api.DeleteMemberResponse](
			httpClient,
			baseURL+AttendanceServiceDeleteMemberProcedure,
			opts...,
		),
		getGroupStats: connect.NewClient[api.GetGroupStatsRequest, api.GetGroupStatsResponse](
			httpClient,
			baseURL+AttendanceServiceGetGroupStatsProcedure,
			opts...,
		),
		getDashboard: connect.NewClient[api.GetDashboardRequest, api.GetDashboardResponse](
			httpClient,
			baseURL+AttendanceServiceGetDashboardProcedure,
			opts...,
		),
		getWeeklyReport: connect.NewClient[api.GetWeeklyReportRequest, api.GetWeeklyReportResponse](
			httpClient,
			baseURL+AttendanceServiceGetWeeklyReportProcedure,
			opts...,
		),
		importCSV: connect.NewClient[api.ImportCSVRequest, api.ImportCSVResponse](
			httpClient,
			baseURL+AttendanceServiceImportCSVProcedure,
			opts...,
		),
		exportCSV: connect.NewClient[api.ExportCSVRequest, api.ExportCSVResponse](
			httpClient,
			baseURL+AttendanceServiceExportCSVProcedure,
			opts...,
		),
	}
}

type attendanceServiceClient struct {
	listGroups       *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	getGroup         *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	createGroup      *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	toggleAttendance *connect.Client[api.ToggleAttendanceRequest, api.ToggleAttendanceResponse]
	addMember        *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	bulkAddMembers   *connect.Client[api.BulkAddMembersRequest, api.BulkAddMembersResponse]
	editMember       *connect.Client[api.EditMemberRequest, api.EditMemberResponse]
	deleteMember     *connect.Client[api.DeleteMemberRequest, api.DeleteMemberResponse]
	getGroupStats    *connect.Client[api.GetGroupStatsRequest, api.GetGroupStatsResponse]
	getDashboard     *connect.Client[api.GetDashboardRequest, api.GetDashboardResponse]
	getWeeklyReport  *connect.Client[api.GetWeeklyReportRequest, api.GetWeeklyReportResponse]
	importCSV        *connect.Client[api.ImportCSVRequest, api.ImportCSVResponse]
	exportCSV        *connect.Client[api.ExportCSVRequest, api.ExportCSVResponse]
}

func (c *attendanceServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) ToggleAttendance(ctx context.Context, req *connect.Request[api.ToggleAttendanceRequest]) (*connect.Response[api.ToggleAttendanceResponse], error) {
	return c.toggleAttendance.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) BulkAddMembers(ctx context.Context, req *connect.Request[api.BulkAddMembersRequest]) (*connect.Response[api.BulkAddMembersResponse], error) {
	return c.bulkAddMembers.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) EditMember(ctx context.Context, req *connect.Request[api.EditMemberRequest]) (*connect.Response[api.EditMemberResponse], error) {
	return c.editMember.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) DeleteMember(ctx context.Context, req *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error) {
	return c.deleteMember.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) GetGroupStats(ctx context.Context, req *connect.Request[api.GetGroupStatsRequest]) (*connect.Response[api.GetGroupStatsResponse], error) {
	return c.getGroupStats.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) GetWeeklyReport(ctx context.Context, req *connect.Request[api.GetWeeklyReportRequest]) (*connect.Response[api.GetWeeklyReportResponse], error) {
	return c.getWeeklyReport.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) ImportCSV(ctx context.Context, req *connect.Request[api.ImportCSVRequest]) (*connect.Response[api.ImportCSVResponse], error) {
	return c.importCSV.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) ExportCSV(ctx context.Context, req *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error) {
	return c.exportCSV.CallUnary(ctx, req)
}

// AttendanceServiceHandler is implemented by servers of the rollbook.v1.AttendanceService service.
type AttendanceServiceHandler interface {
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	ToggleAttendance(context.Context, *connect.Request[api.ToggleAttendanceRequest]) (*connect.Response[api.ToggleAttendanceResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	BulkAddMembers(context.Context, *connect.Request[api.BulkAddMembersRequest]) (*connect.Response[api.BulkAddMembersResponse], error)
	EditMember(context.Context, *connect.Request[api.EditMemberRequest]) (*connect.Response[api.EditMemberResponse], error)
	DeleteMember(context.Context, *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error)
	GetGroupStats(context.Context, *connect.Request[api.GetGroupStatsRequest]) (*connect.Response[api.GetGroupStatsResponse], error)
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
	GetWeeklyReport(context.Context, *connect.Request[api.GetWeeklyReportRequest]) (*connect.Response[api.GetWeeklyReportResponse], error)
	ImportCSV(context.Context, *connect.Request[api.ImportCSVRequest]) (*connect.Response[api.ImportCSVResponse], error)
	ExportCSV(context.Context, *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error)
}

// NewAttendanceServiceHandler builds an HTTP handler for svc. It returns the path
// prefix to mount the handler on.
func NewAttendanceServiceHandler(svc AttendanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listGroupsHandler := connect.NewUnaryHandler(
		AttendanceServiceListGroupsProcedure,
		svc.ListGroups,
		opts...,
	)
	getGroupHandler := connect.NewUnaryHandler(
		AttendanceServiceGetGroupProcedure,
		svc.GetGroup,
		opts...,
	)
	createGroupHandler := connect.NewUnaryHandler(
		AttendanceServiceCreateGroupProcedure,
		svc.CreateGroup,
		opts...,
	)
	toggleAttendanceHandler := connect.NewUnaryHandler(
		AttendanceServiceToggleAttendanceProcedure,
		svc.ToggleAttendance,
		opts...,
	)
	addMemberHandler := connect.NewUnaryHandler(
		AttendanceServiceAddMemberProcedure,
		svc.AddMember,
		opts...,
	)
	bulkAddMembersHandler := connect.NewUnaryHandler(
		AttendanceServiceBulkAddMembersProcedure,
		svc.BulkAddMembers,
		opts...,
	)
	editMemberHandler := connect.NewUnaryHandler(
		AttendanceServiceEditMemberProcedure,
		svc.EditMember,
		opts...,
	)
	deleteMemberHandler := connect.NewUnaryHandler(
		AttendanceServiceDeleteMemberProcedure,
		svc.DeleteMember,
		opts...,
	)
	getGroupStatsHandler := connect.NewUnaryHandler(
		AttendanceServiceGetGroupStatsProcedure,
		svc.GetGroupStats,
		opts...,
	)
	getDashboardHandler := connect.NewUnaryHandler(
		AttendanceServiceGetDashboardProcedure,
		svc.GetDashboard,
		opts...,
	)
	getWeeklyReportHandler := connect.NewUnaryHandler(
		AttendanceServiceGetWeeklyReportProcedure,
		svc.GetWeeklyReport,
		opts...,
	)
	importCSVHandler := connect.NewUnaryHandler(
		AttendanceServiceImportCSVProcedure,
		svc.ImportCSV,
		opts...,
	)
	exportCSVHandler := connect.NewUnaryHandler(
		AttendanceServiceExportCSVProcedure,
		svc.ExportCSV,
		opts...,
	)
	return "/rollbook.v1.AttendanceService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AttendanceServiceListGroupsProcedure:
			listGroupsHandler.ServeHTTP(w, r)
		case AttendanceServiceGetGroupProcedure:
			getGroupHandler.ServeHTTP(w, r)
		case AttendanceServiceCreateGroupProcedure:
			createGroupHandler.ServeHTTP(w, r)
		case AttendanceServiceToggleAttendanceProcedure:
			toggleAttendanceHandler.ServeHTTP(w, r)
		case AttendanceServiceAddMemberProcedure:
			addMemberHandler.ServeHTTP(w, r)
		case AttendanceServiceBulkAddMembersProcedure:
			bulkAddMembersHandler.ServeHTTP(w, r)
		case AttendanceServiceEditMemberProcedure:
			editMemberHandler.ServeHTTP(w, r)
		case AttendanceServiceDeleteMemberProcedure:
			deleteMemberHandler.ServeHTTP(w, r)
		case AttendanceServiceGetGroupStatsProcedure:
			getGroupStatsHandler.ServeHTTP(w, r)
		case AttendanceServiceGetDashboardProcedure:
			getDashboardHandler.ServeHTTP(w, r)
		case AttendanceServiceGetWeeklyReportProcedure:
			getWeeklyReportHandler.ServeHTTP(w, r)
		case AttendanceServiceImportCSVProcedure:
			importCSVHandler.ServeHTTP(w, r)
		case AttendanceServiceExportCSVProcedure:
			exportCSVHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedAttendanceServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAttendanceServiceHandler struct{}

func (UnimplementedAttendanceServiceHandler) ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AttendanceService.ListGroups is not implemented"))
}

func (UnimplementedAttendanceServiceHandler) GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AttendanceService.GetGroup is not implemented"))
}

func (UnimplementedAttendanceServiceHandler) CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AttendanceService.CreateGroup is not implemented"))
}

func (UnimplementedAttendanceServiceHandler) ToggleAttendance(context.Context, *connect.Request[api.ToggleAttendanceRequest]) (*connect.Response[api.ToggleAttendanceResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AttendanceService.ToggleAttendance is not implemented"))
}

func (UnimplementedAttendanceServiceHandler) AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AttendanceService.AddMember is not implemented"))
}

func (UnimplementedAttendanceServiceHandler) BulkAddMembers(context.Context, *connect.Request[api.BulkAddMembersRequest]) (*connect.Response[api.BulkAddMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AttendanceService.BulkAddMembers is not implemented"))
}

func (UnimplementedAttendanceServiceHandler) EditMember(context.Context, *connect.Request[api.EditMemberRequest]) (*connect.Response[api.EditMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AttendanceService.EditMember is not implemented"))
}

func (UnimplementedAttendanceServiceHandler) DeleteMember(context.Context, *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AttendanceService.DeleteMember is not implemented"))
}

func (UnimplementedAttendanceServiceHandler) GetGroupStats(context.Context, *connect.Request[api.GetGroupStatsRequest]) (*connect.Response[api.GetGroupStatsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AttendanceService.GetGroupStats is not implemented"))
}

func (UnimplementedAttendanceServiceHandler) GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AttendanceService.GetDashboard is not implemented"))
}

func (UnimplementedAttendanceServiceHandler) GetWeeklyReport(context.Context, *connect.Request[api.GetWeeklyReportRequest]) (*connect.Response[api.GetWeeklyReportResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AttendanceService.GetWeeklyReport is not implemented"))
}

func (UnimplementedAttendanceServiceHandler) ImportCSV(context.Context, *connect.Request[api.ImportCSVRequest]) (*connect.Response[api.ImportCSVResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AttendanceService.ImportCSV is not implemented"))
}

func (UnimplementedAttendanceServiceHandler) ExportCSV(context.Context, *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AttendanceService.ExportCSV is not implemented"))
}

package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/rollbook/pkg/api"
)

// InsightServiceName is the fully-qualified name of the InsightService service.
const InsightServiceName = "rollbook.v1.InsightService"

// Procedure paths of the InsightService RPCs.
const (
	InsightServiceAnalyzeGroupProcedure        = "/rollbook.v1.InsightService/AnalyzeGroup"
	InsightServiceAnalyzeOrganizationProcedure = "/rollbook.v1.InsightService/AnalyzeOrganization"
	InsightServiceWeeklyBriefingProcedure      = "/rollbook.v1.InsightService/WeeklyBriefing"
)

// InsightServiceClient is a client for the rollbook.v1.InsightService service.
type InsightServiceClient interface {
	AnalyzeGroup(context.Context, *connect.Request[api.AnalyzeGroupRequest]) (*connect.Response[api.AnalyzeGroupResponse], error)
	AnalyzeOrganization(context.Context, *connect.Request[api.AnalyzeOrganizationRequest]) (*connect.Response[api.AnalyzeOrganizationResponse], error)
	WeeklyBriefing(context.Context, *connect.Request[api.WeeklyBriefingRequest]) (*connect.Response[api.WeeklyBriefingResponse], error)
}

// NewInsightServiceClient constructs a client for the rollbook.v1.InsightService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewInsightServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) InsightServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &insightServiceClient{
		analyzeGroup: connect.NewClient[api.AnalyzeGroupRequest, api.AnalyzeGroupResponse](
			httpClient,
			baseURL+InsightServiceAnalyzeGroupProcedure,
			opts...,
		),
		analyzeOrganization: connect.NewClient[api.AnalyzeOrganizationRequest, api.AnalyzeOrganizationResponse](
			httpClient,
			baseURL+InsightServiceAnalyzeOrganizationProcedure,
			opts...,
		),
		weeklyBriefing: connect.NewClient[api.WeeklyBriefingRequest, api.WeeklyBriefingResponse](
			httpClient,
			baseURL+InsightServiceWeeklyBriefingProcedure,
			opts...,
		),
	}
}

type insightServiceClient struct {
	analyzeGroup        *connect.Client[api.AnalyzeGroupRequest, api.AnalyzeGroupResponse]
	analyzeOrganization *connect.Client[api.AnalyzeOrganizationRequest, api.AnalyzeOrganizationResponse]
	weeklyBriefing      *connect.Client[api.WeeklyBriefingRequest, api.WeeklyBriefingResponse]
}

func (c *insightServiceClient) AnalyzeGroup(ctx context.Context, req *connect.Request[api.AnalyzeGroupRequest]) (*connect.Response[api.AnalyzeGroupResponse], error) {
	return c.analyzeGroup.CallUnary(ctx, req)
}

func (c *insightServiceClient) AnalyzeOrganization(ctx context.Context, req *connect.Request[api.AnalyzeOrganizationRequest]) (*connect.Response[api.AnalyzeOrganizationResponse], error) {
	return c.analyzeOrganization.CallUnary(ctx, req)
}

func (c *insightServiceClient) WeeklyBriefing(ctx context.Context, req *connect.Request[api.WeeklyBriefingRequest]) (*connect.Response[api.WeeklyBriefingResponse], error) {
	return c.weeklyBriefing.CallUnary(ctx, req)
}

// InsightServiceHandler is implemented by servers of the rollbook.v1.InsightService service.
type InsightServiceHandler interface {
	AnalyzeGroup(context.Context, *connect.Request[api.AnalyzeGroupRequest]) (*connect.Response[api.AnalyzeGroupResponse], error)
	AnalyzeOrganization(context.Context, *connect.Request[api.AnalyzeOrganizationRequest]) (*connect.Response[api.AnalyzeOrganizationResponse], error)
	WeeklyBriefing(context.Context, *connect.Request[api.WeeklyBriefingRequest]) (*connect.Response[api.WeeklyBriefingResponse], error)
}

// NewInsightServiceHandler builds an HTTP handler for svc. It returns the path
// prefix to mount the handler on.
func NewInsightServiceHandler(svc InsightServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	analyzeGroupHandler := connect.NewUnaryHandler(
		InsightServiceAnalyzeGroupProcedure,
		svc.AnalyzeGroup,
		opts...,
	)
	analyzeOrganizationHandler := connect.NewUnaryHandler(
		InsightServiceAnalyzeOrganizationProcedure,
		svc.AnalyzeOrganization,
		opts...,
	)
	weeklyBriefingHandler := connect.NewUnaryHandler(
		InsightServiceWeeklyBriefingProcedure,
		svc.WeeklyBriefing,
		opts...,
	)
	return "/rollbook.v1.InsightService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case InsightServiceAnalyzeGroupProcedure:
			analyzeGroupHandler.ServeHTTP(w, r)
		case InsightServiceAnalyzeOrganizationProcedure:
			analyzeOrganizationHandler.ServeHTTP(w, r)
		case InsightServiceWeeklyBriefingProcedure:
			weeklyBriefingHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedInsightServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedInsightServiceHandler struct{}

func (UnimplementedInsightServiceHandler) AnalyzeGroup(context.Context, *connect.Request[api.AnalyzeGroupRequest]) (*connect.Response[api.AnalyzeGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.InsightService.AnalyzeGroup is not implemented"))
}

func (UnimplementedInsightServiceHandler) AnalyzeOrganization(context.Context, *connect.Request[api.AnalyzeOrganizationRequest]) (*connect.Response[api.AnalyzeOrganizationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.InsightService.AnalyzeOrganization is not implemented"))
}

func (UnimplementedInsightServiceHandler) WeeklyBriefing(context.Context, *connect.Request[api.WeeklyBriefingRequest]) (*connect.Response[api.WeeklyBriefingResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.InsightService.WeeklyBriefing is not implemented"))
}

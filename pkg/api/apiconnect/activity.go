package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/rollbook/pkg/api"
)

// ActivityServiceName is the fully-qualified name of the ActivityService service.
const ActivityServiceName = "rollbook.v1.ActivityService"

// Procedure paths of the ActivityService RPCs.
const (
	ActivityServiceListActivitiesProcedure = "/rollbook.v1.ActivityService/ListActivities"
	ActivityServiceRevertActivityProcedure = "/rollbook.v1.ActivityService/RevertActivity"
)

// ActivityServiceClient is a client for the rollbook.v1.ActivityService service.
type ActivityServiceClient interface {
	ListActivities(context.Context, *connect.Request[api.ListActivitiesRequest]) (*connect.Response[api.ListActivitiesResponse], error)
	RevertActivity(context.Context, *connect.Request[api.RevertActivityRequest]) (*connect.Response[api.RevertActivityResponse], error)
}

// NewActivityServiceClient constructs a client for the rollbook.v1.ActivityService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewActivityServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ActivityServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &activityServiceClient{
		listActivities: connect.NewClient[api.ListActivitiesRequest, api.ListActivitiesResponse](
			httpClient,
			baseURL+ActivityServiceListActivitiesProcedure,
			opts...,
		),
		revertActivity: connect.NewClient[api.RevertActivityRequest, api.RevertActivityResponse](
			httpClient,
			baseURL+ActivityServiceRevertActivityProcedure,
			opts...,
		),
	}
}

type activityServiceClient struct {
	listActivities *connect.Client[api.ListActivitiesRequest, api.ListActivitiesResponse]
	revertActivity *connect.Client[api.RevertActivityRequest, api.RevertActivityResponse]
}

func (c *activityServiceClient) ListActivities(ctx context.Context, req *connect.Request[api.ListActivitiesRequest]) (*connect.Response[api.ListActivitiesResponse], error) {
	return c.listActivities.CallUnary(ctx, req)
}

func (c *activityServiceClient) RevertActivity(ctx context.Context, req *connect.Request[api.RevertActivityRequest]) (*connect.Response[api.RevertActivityResponse], error) {
	return c.revertActivity.CallUnary(ctx, req)
}

// ActivityServiceHandler is implemented by servers of the rollbook.v1.ActivityService service.
type ActivityServiceHandler interface {
	ListActivities(context.Context, *connect.Request[api.ListActivitiesRequest]) (*connect.Response[api.ListActivitiesResponse], error)
	RevertActivity(context.Context, *connect.Request[api.RevertActivityRequest]) (*connect.Response[api.RevertActivityResponse], error)
}

// NewActivityServiceHandler builds an HTTP handler for svc. It returns the path
// prefix to mount the handler on.
func NewActivityServiceHandler(svc ActivityServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listActivitiesHandler := connect.NewUnaryHandler(
		ActivityServiceListActivitiesProcedure,
		svc.ListActivities,
		opts...,
	)
	revertActivityHandler := connect.NewUnaryHandler(
		ActivityServiceRevertActivityProcedure,
		svc.RevertActivity,
		opts...,
	)
	return "/rollbook.v1.ActivityService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ActivityServiceListActivitiesProcedure:
			listActivitiesHandler.ServeHTTP(w, r)
		case ActivityServiceRevertActivityProcedure:
			revertActivityHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedActivityServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedActivityServiceHandler struct{}

func (UnimplementedActivityServiceHandler) ListActivities(context.Context, *connect.Request[api.ListActivitiesRequest]) (*connect.Response[api.ListActivitiesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.ActivityService.ListActivities is not implemented"))
}

func (UnimplementedActivityServiceHandler) RevertActivity(context.Context, *connect.Request[api.RevertActivityRequest]) (*connect.Response[api.RevertActivityResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.ActivityService.RevertActivity is not implemented"))
}

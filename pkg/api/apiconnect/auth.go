package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/rollbook/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "rollbook.v1.AuthService"

// Procedure paths of the AuthService RPCs.
const (
	AuthServiceLoginProcedure = "/rollbook.v1.AuthService/Login"
)

// AuthServiceClient is a client for the rollbook.v1.AuthService service.
type AuthServiceClient interface {
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
}

// NewAuthServiceClient constructs a client for the rollbook.v1.AuthService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		login: connect.NewClient[api.LoginRequest, api.LoginResponse](
			httpClient,
			baseURL+AuthServiceLoginProcedure,
			opts...,
		),
	}
}

type authServiceClient struct {
	login *connect.Client[api.LoginRequest, api.LoginResponse]
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by servers of the rollbook.v1.AuthService service.
type AuthServiceHandler interface {
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for svc. It returns the path
// prefix to mount the handler on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	loginHandler := connect.NewUnaryHandler(
		AuthServiceLoginProcedure,
		svc.Login,
		opts...,
	)
	return "/rollbook.v1.AuthService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceLoginProcedure:
			loginHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("rollbook.v1.AuthService.Login is not implemented"))
}

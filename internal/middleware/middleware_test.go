package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/rollbook/internal/auth"
	"github.com/mmynk/rollbook/pkg/api"
	"github.com/mmynk/rollbook/pkg/api/apiconnect"
)

// whoAmI reports the operator it sees as the description of a single activity.
type whoAmI struct {
	apiconnect.UnimplementedActivityServiceHandler
}

func (whoAmI) ListActivities(ctx context.Context, _ *connect.Request[api.ListActivitiesRequest]) (*connect.Response[api.ListActivitiesResponse], error) {
	return connect.NewResponse(&api.ListActivitiesResponse{
		Activities: []api.Activity{{Description: GetOperator(ctx)}},
	}), nil
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, _, err := jwtManager.Generate(&auth.Operator{Name: "admin"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	interceptors := connect.WithInterceptors(
		RequireAuth(jwtManager, apiconnect.AuthServiceLoginProcedure),
		LoggingInterceptor(nil),
	)
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewActivityServiceHandler(whoAmI{}, interceptors))
	mux.Handle(apiconnect.NewAuthServiceHandler(apiconnect.UnimplementedAuthServiceHandler{}, interceptors))
	server := httptest.NewServer(mux)
	defer server.Close()

	client := apiconnect.NewActivityServiceClient(http.DefaultClient, server.URL)

	tests := []struct {
		name     string
		header   string
		wantCode connect.Code
	}{
		{"missing token", "", connect.CodeUnauthenticated},
		{"not bearer", "Basic abc", connect.CodeUnauthenticated},
		{"invalid token", "Bearer nope", connect.CodeUnauthenticated},
		{"valid token", "Bearer " + token, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := connect.NewRequest(&api.ListActivitiesRequest{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}
			resp, err := client.ListActivities(context.Background(), req)
			if tt.wantCode != 0 {
				if connect.CodeOf(err) != tt.wantCode {
					t.Fatalf("Expected %v, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ListActivities failed: %v", err)
			}
			if got := resp.Msg.Activities[0].Description; got != "admin" {
				t.Errorf("Operator in context = %q, want admin", got)
			}
		})
	}

	t.Run("login is public", func(t *testing.T) {
		authClient := apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
		_, err := authClient.Login(context.Background(), connect.NewRequest(&api.LoginRequest{}))
		// The handler is reached, so the error comes from it and not from auth.
		if connect.CodeOf(err) != connect.CodeUnimplemented {
			t.Errorf("Expected CodeUnimplemented, got %v", err)
		}
	})
}

func TestRequireAuthHTTP(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, _, _ := jwtManager.Generate(&auth.Operator{Name: "admin"})

	handler := RequireAuthHTTP(jwtManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetOperator(r.Context())))
	}))

	t.Run("rejects missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/attendance.csv", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Status = %d, want 401", rec.Code)
		}
	})

	t.Run("accepts valid token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/export/attendance.csv", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || rec.Body.String() != "admin" {
			t.Errorf("Got %d %q", rec.Code, rec.Body.String())
		}
	})
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewActivityServiceHandler(whoAmI{}, connect.WithInterceptors(LoggingInterceptor(logger))))
	server := httptest.NewServer(mux)
	defer server.Close()

	client := apiconnect.NewActivityServiceClient(http.DefaultClient, server.URL)

	tests := []struct {
		name      string
		call      func() error
		wantMsg   string
		wantLevel string
	}{
		{
			name: "ok",
			call: func() error {
				_, err := client.ListActivities(context.Background(), connect.NewRequest(&api.ListActivitiesRequest{}))
				return err
			},
			wantMsg:   "RPC ok",
			wantLevel: "INFO",
		},
		{
			name: "caller error",
			call: func() error {
				_, err := client.RevertActivity(context.Background(), connect.NewRequest(&api.RevertActivityRequest{}))
				return err
			},
			wantMsg:   "RPC rejected",
			wantLevel: "WARN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.call()

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
			}
			if entry["msg"] != tt.wantMsg || entry["level"] != tt.wantLevel {
				t.Errorf("Got %v/%v, want %s/%s", entry["level"], entry["msg"], tt.wantLevel, tt.wantMsg)
			}
			if _, ok := entry["procedure"]; !ok {
				t.Error("Expected procedure attribute")
			}
		})
	}
}

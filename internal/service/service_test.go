package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/rollbook/internal/auth"
	"github.com/mmynk/rollbook/internal/middleware"
	"github.com/mmynk/rollbook/internal/narrative"
	"github.com/mmynk/rollbook/internal/storage/sqlite"
	"github.com/mmynk/rollbook/internal/tracker"
	"github.com/mmynk/rollbook/pkg/api"
	"github.com/mmynk/rollbook/pkg/api/apiconnect"
)

const seedCSV = `Group_Name,Group_Id,Leader,Co_Leader,Period,Member_Name,Phone,2026-01-04,2026-01-11
Solomon Raja,SR,Solomon Raja,Parthiban D,JANUARY 2026 - APRIL 2026,PARTHIBAN,9499900625,P,A
Solomon Raja,SR,Solomon Raja,Parthiban D,JANUARY 2026 - APRIL 2026,JEARIM,N/A,,P
Moses,M,Moses,,,DANI,123,A,
`

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(context.Context, string) (string, error) {
	return f.text, f.err
}

type testClients struct {
	attendance apiconnect.AttendanceServiceClient
	activity   apiconnect.ActivityServiceClient
	insight    apiconnect.InsightServiceClient
	url        string
}

// newTestTracker returns a tracker over a temp SQLite store seeded from seedCSV.
func newTestTracker(t *testing.T) *tracker.Tracker {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "rollbook-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		os.Remove(tmpFile.Name())
	})

	seed := filepath.Join(t.TempDir(), "seed.csv")
	if err := os.WriteFile(seed, []byte(seedCSV), 0o644); err != nil {
		t.Fatalf("failed to write seed: %v", err)
	}
	tr := tracker.New(store, tracker.Options{SeedCSV: seed})
	if err := tr.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return tr
}

// setupTestServer creates a test server with every service and file route.
func setupTestServer(t *testing.T, gen narrative.Generator) testClients {
	t.Helper()

	tr := newTestTracker(t)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAttendanceServiceHandler(NewAttendanceService(tr)))
	mux.Handle(apiconnect.NewActivityServiceHandler(NewActivityService(tr)))
	mux.Handle(apiconnect.NewInsightServiceHandler(NewInsightService(tr, narrative.NewAnalyst(gen))))
	NewFileHandler(tr).Register(mux, func(h http.Handler) http.Handler { return h })

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return testClients{
		attendance: apiconnect.NewAttendanceServiceClient(http.DefaultClient, server.URL),
		activity:   apiconnect.NewActivityServiceClient(http.DefaultClient, server.URL),
		insight:    apiconnect.NewInsightServiceClient(http.DefaultClient, server.URL),
		url:        server.URL,
	}
}

func TestListAndGetGroup(t *testing.T) {
	c := setupTestServer(t, nil)
	ctx := context.Background()

	list, err := c.attendance.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(list.Msg.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(list.Msg.Groups))
	}
	if list.Msg.Groups[0].ID != "SR" || list.Msg.Groups[1].ID != "M" {
		t.Errorf("unexpected group order: %s, %s", list.Msg.Groups[0].ID, list.Msg.Groups[1].ID)
	}

	got, err := c.attendance.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: "SR"}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(got.Msg.Group.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(got.Msg.Group.Members))
	}
	if got.Msg.Group.Attendance["SR_1"]["04-01-2026"] != "P" {
		t.Errorf("expected SR_1 present on 04-01-2026, got %q", got.Msg.Group.Attendance["SR_1"]["04-01-2026"])
	}
	if len(got.Msg.Dates) != 17 {
		t.Errorf("expected 17 dates, got %d", len(got.Msg.Dates))
	}
	if len(got.Msg.Months) == 0 || got.Msg.Months[0].Name != "January" {
		t.Errorf("unexpected month headers: %+v", got.Msg.Months)
	}

	_, err = c.attendance.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: "nope"}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestToggleAttendanceAndRevert(t *testing.T) {
	c := setupTestServer(t, nil)
	ctx := context.Background()

	resp, err := c.attendance.ToggleAttendance(ctx, connect.NewRequest(&api.ToggleAttendanceRequest{
		GroupID:  "SR",
		MemberID: "SR_2",
		Date:     "04-01-2026",
	}))
	if err != nil {
		t.Fatalf("ToggleAttendance failed: %v", err)
	}
	if resp.Msg.Status != "P" || resp.Msg.PreviousStatus != "" {
		t.Errorf("expected '' -> P, got %q -> %q", resp.Msg.PreviousStatus, resp.Msg.Status)
	}

	list, err := c.activity.ListActivities(ctx, connect.NewRequest(&api.ListActivitiesRequest{}))
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if len(list.Msg.Activities) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(list.Msg.Activities))
	}
	a := list.Msg.Activities[0]
	if a.Type != "ATTENDANCE_CHANGE" || !a.Revertible || a.GroupID != "SR" {
		t.Errorf("unexpected activity: %+v", a)
	}

	rev, err := c.activity.RevertActivity(ctx, connect.NewRequest(&api.RevertActivityRequest{ActivityID: a.ID}))
	if err != nil {
		t.Fatalf("RevertActivity failed: %v", err)
	}
	if rev.Msg.Outcome != "reverted" || !rev.Msg.Reverted {
		t.Errorf("expected reverted, got %+v", rev.Msg)
	}

	got, err := c.attendance.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: "SR"}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if s := got.Msg.Group.Attendance["SR_2"]["04-01-2026"]; s != "" {
		t.Errorf("expected mark cleared after revert, got %q", s)
	}

	again, err := c.activity.RevertActivity(ctx, connect.NewRequest(&api.RevertActivityRequest{ActivityID: a.ID}))
	if err != nil {
		t.Fatalf("second RevertActivity failed: %v", err)
	}
	if again.Msg.Outcome != "not_found" || again.Msg.Reverted {
		t.Errorf("expected not_found, got %+v", again.Msg)
	}
}

func TestToggleAttendanceErrors(t *testing.T) {
	c := setupTestServer(t, nil)

	tests := []struct {
		name string
		req  *api.ToggleAttendanceRequest
		code connect.Code
	}{
		{
			name: "missing member",
			req:  &api.ToggleAttendanceRequest{GroupID: "SR", Date: "04-01-2026"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "ISO date",
			req:  &api.ToggleAttendanceRequest{GroupID: "SR", MemberID: "SR_1", Date: "2026-01-04"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "not a session date",
			req:  &api.ToggleAttendanceRequest{GroupID: "SR", MemberID: "SR_1", Date: "05-01-2026"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown group",
			req:  &api.ToggleAttendanceRequest{GroupID: "X", MemberID: "SR_1", Date: "04-01-2026"},
			code: connect.CodeNotFound,
		},
		{
			name: "unknown member",
			req:  &api.ToggleAttendanceRequest{GroupID: "SR", MemberID: "M_1", Date: "04-01-2026"},
			code: connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.attendance.ToggleAttendance(context.Background(), connect.NewRequest(tt.req))
			if connect.CodeOf(err) != tt.code {
				t.Errorf("expected %v, got %v", tt.code, err)
			}
		})
	}
}

func TestMemberLifecycle(t *testing.T) {
	c := setupTestServer(t, nil)
	ctx := context.Background()

	added, err := c.attendance.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupID: "M", Name: "RUTH"}))
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if added.Msg.Member.ID == "" || added.Msg.Member.Phone != "N/A" {
		t.Errorf("unexpected member: %+v", added.Msg.Member)
	}

	bulk, err := c.attendance.BulkAddMembers(ctx, connect.NewRequest(&api.BulkAddMembersRequest{
		GroupID: "M",
		Text:    "NAOMI,555\nBOAZ|777\n\n",
	}))
	if err != nil {
		t.Fatalf("BulkAddMembers failed: %v", err)
	}
	if len(bulk.Msg.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(bulk.Msg.Members))
	}

	edited, err := c.attendance.EditMember(ctx, connect.NewRequest(&api.EditMemberRequest{
		GroupID:  "M",
		MemberID: added.Msg.Member.ID,
		Name:     "RUTH M",
		Phone:    "999",
	}))
	if err != nil {
		t.Fatalf("EditMember failed: %v", err)
	}
	if edited.Msg.Member.Name != "RUTH M" || edited.Msg.Member.Phone != "999" {
		t.Errorf("unexpected edit: %+v", edited.Msg.Member)
	}

	if _, err := c.attendance.DeleteMember(ctx, connect.NewRequest(&api.DeleteMemberRequest{GroupID: "M", MemberID: "M_1"})); err != nil {
		t.Fatalf("DeleteMember failed: %v", err)
	}

	got, err := c.attendance.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: "M"}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(got.Msg.Group.Members) != 3 {
		t.Errorf("expected 3 members, got %d", len(got.Msg.Group.Members))
	}

	list, err := c.activity.ListActivities(ctx, connect.NewRequest(&api.ListActivitiesRequest{}))
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	// add + 2 bulk + edit + delete, most recent first
	if len(list.Msg.Activities) != 5 {
		t.Fatalf("expected 5 activities, got %d", len(list.Msg.Activities))
	}
	if list.Msg.Activities[0].Type != "MEMBER_DELETE" {
		t.Errorf("expected MEMBER_DELETE first, got %s", list.Msg.Activities[0].Type)
	}

	rev, err := c.activity.RevertActivity(ctx, connect.NewRequest(&api.RevertActivityRequest{ActivityID: list.Msg.Activities[0].ID}))
	if err != nil || rev.Msg.Outcome != "reverted" {
		t.Fatalf("RevertActivity: %v %+v", err, rev)
	}

	got, err = c.attendance.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: "M"}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.Msg.Group.Attendance["M_1"]["04-01-2026"] != "A" {
		t.Errorf("expected restored mark for M_1, got %v", got.Msg.Group.Attendance["M_1"])
	}
}

func TestCreateGroup(t *testing.T) {
	c := setupTestServer(t, nil)
	ctx := context.Background()

	resp, err := c.attendance.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{ID: "J", Name: "Joshua"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if resp.Msg.Group.Leader != "Unknown" {
		t.Errorf("expected default leader, got %q", resp.Msg.Group.Leader)
	}

	_, err = c.attendance.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{ID: "SR", Name: "Again"}))
	if connect.CodeOf(err) != connect.CodeAlreadyExists {
		t.Errorf("expected AlreadyExists, got %v", err)
	}

	_, err = c.attendance.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{ID: "K"}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument for missing name, got %v", err)
	}

	list, err := c.activity.ListActivities(ctx, connect.NewRequest(&api.ListActivitiesRequest{}))
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if len(list.Msg.Activities) != 1 || list.Msg.Activities[0].Revertible {
		t.Fatalf("expected one non-revertible activity, got %+v", list.Msg.Activities)
	}

	rev, err := c.activity.RevertActivity(ctx, connect.NewRequest(&api.RevertActivityRequest{ActivityID: list.Msg.Activities[0].ID}))
	if err != nil {
		t.Fatalf("RevertActivity failed: %v", err)
	}
	if rev.Msg.Outcome != "unsupported" || rev.Msg.Reverted {
		t.Errorf("expected unsupported, got %+v", rev.Msg)
	}
}

func TestStatsAndReports(t *testing.T) {
	c := setupTestServer(t, nil)
	ctx := context.Background()

	stats, err := c.attendance.GetGroupStats(ctx, connect.NewRequest(&api.GetGroupStatsRequest{GroupID: "SR"}))
	if err != nil {
		t.Fatalf("GetGroupStats failed: %v", err)
	}
	if len(stats.Msg.Stats) != 17 {
		t.Fatalf("expected 17 stats, got %d", len(stats.Msg.Stats))
	}
	first := stats.Msg.Stats[0]
	if first.Date != "04-01-2026" || first.Present != 1 || first.Absent != 0 {
		t.Errorf("unexpected first stat: %+v", first)
	}

	dash, err := c.attendance.GetDashboard(ctx, connect.NewRequest(&api.GetDashboardRequest{}))
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	if len(dash.Msg.Groups) != 2 || dash.Msg.TotalMembers != 3 {
		t.Errorf("unexpected dashboard: %d groups, %d members", len(dash.Msg.Groups), dash.Msg.TotalMembers)
	}
	if dash.Msg.LastSession != "11-01-2026" {
		t.Errorf("expected last session 11-01-2026, got %s", dash.Msg.LastSession)
	}

	week, err := c.attendance.GetWeeklyReport(ctx, connect.NewRequest(&api.GetWeeklyReportRequest{}))
	if err != nil {
		t.Fatalf("GetWeeklyReport failed: %v", err)
	}
	if week.Msg.Date != "11-01-2026" {
		t.Errorf("expected default date 11-01-2026, got %s", week.Msg.Date)
	}
	if len(week.Msg.Groups) != 2 {
		t.Errorf("expected 2 groups, got %d", len(week.Msg.Groups))
	}

	_, err = c.attendance.GetWeeklyReport(ctx, connect.NewRequest(&api.GetWeeklyReportRequest{Date: "2026-01-11"}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestImportExportRPC(t *testing.T) {
	c := setupTestServer(t, nil)
	ctx := context.Background()

	exported, err := c.attendance.ExportCSV(ctx, connect.NewRequest(&api.ExportCSVRequest{}))
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if !strings.HasSuffix(exported.Msg.Filename, ".csv") {
		t.Errorf("unexpected filename %q", exported.Msg.Filename)
	}
	if !strings.HasPrefix(exported.Msg.CSV, "Group_Name,Group_Id") {
		t.Errorf("unexpected CSV header: %q", strings.SplitN(exported.Msg.CSV, "\n", 2)[0])
	}

	imported, err := c.attendance.ImportCSV(ctx, connect.NewRequest(&api.ImportCSVRequest{
		CSV: "Group_Name,Group_Id,Leader,Co_Leader,Period,Member_Name,Phone,2026-01-04\nBoaz,B,Boaz,,,RUTH,1,P\n",
	}))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if imported.Msg.Report.Groups != 1 || imported.Msg.Report.Members != 1 {
		t.Errorf("unexpected report: %+v", imported.Msg.Report)
	}

	list, err := c.attendance.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(list.Msg.Groups) != 1 || list.Msg.Groups[0].ID != "B" {
		t.Errorf("expected groups replaced by import, got %+v", list.Msg.Groups)
	}

	_, err = c.attendance.ImportCSV(ctx, connect.NewRequest(&api.ImportCSVRequest{CSV: "Group_Name,Group_Id\n"}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestFileRoutes(t *testing.T) {
	c := setupTestServer(t, nil)

	t.Run("export csv", func(t *testing.T) {
		resp, err := http.Get(c.url + "/export/attendance.csv")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(resp.Header.Get("Content-Disposition"), "attachment") {
			t.Errorf("expected attachment, got %q", resp.Header.Get("Content-Disposition"))
		}
		body, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(body), "PARTHIBAN") {
			t.Errorf("expected member in export, got %q", body)
		}
	})

	t.Run("export xlsx", func(t *testing.T) {
		resp, err := http.Get(c.url + "/export/attendance.xlsx")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(body, []byte("PK")) {
			t.Errorf("expected zip payload, got status %d", resp.StatusCode)
		}
	})

	t.Run("import raw", func(t *testing.T) {
		resp, err := http.Post(c.url+"/import/csv", "text/csv", strings.NewReader(seedCSV))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var report api.ImportReport
		if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if report.Groups != 2 || report.Members != 3 {
			t.Errorf("unexpected report: %+v", report)
		}
	})

	t.Run("import multipart", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "attendance.csv")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		fw.Write([]byte(seedCSV))
		mw.Close()

		resp, err := http.Post(c.url+"/import/csv", mw.FormDataContentType(), &buf)
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("import empty", func(t *testing.T) {
		resp, err := http.Post(c.url+"/import/csv", "text/csv", strings.NewReader(""))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestInsights(t *testing.T) {
	tests := []struct {
		name     string
		gen      narrative.Generator
		analysis string
		report   string
		briefing string
	}{
		{
			name:     "generated",
			gen:      &fakeGenerator{text: "All good."},
			analysis: "All good.",
			report:   "All good.",
			briefing: "All good.",
		},
		{
			name:     "generator failure",
			gen:      &fakeGenerator{err: errors.New("quota")},
			analysis: narrative.GroupFallback,
			report:   narrative.OrganizationFallback,
			briefing: narrative.WeeklyFallback,
		},
		{
			name:     "disabled",
			gen:      nil,
			analysis: narrative.GroupFallback,
			report:   narrative.OrganizationFallback,
			briefing: narrative.WeeklyFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := setupTestServer(t, tt.gen)
			ctx := context.Background()

			group, err := c.insight.AnalyzeGroup(ctx, connect.NewRequest(&api.AnalyzeGroupRequest{GroupID: "SR"}))
			if err != nil {
				t.Fatalf("AnalyzeGroup failed: %v", err)
			}
			if group.Msg.Analysis != tt.analysis {
				t.Errorf("AnalyzeGroup = %q, want %q", group.Msg.Analysis, tt.analysis)
			}

			org, err := c.insight.AnalyzeOrganization(ctx, connect.NewRequest(&api.AnalyzeOrganizationRequest{}))
			if err != nil {
				t.Fatalf("AnalyzeOrganization failed: %v", err)
			}
			if org.Msg.Report != tt.report {
				t.Errorf("AnalyzeOrganization = %q, want %q", org.Msg.Report, tt.report)
			}

			week, err := c.insight.WeeklyBriefing(ctx, connect.NewRequest(&api.WeeklyBriefingRequest{}))
			if err != nil {
				t.Fatalf("WeeklyBriefing failed: %v", err)
			}
			if week.Msg.Briefing != tt.briefing || week.Msg.Date != "11-01-2026" {
				t.Errorf("WeeklyBriefing = %q on %s", week.Msg.Briefing, week.Msg.Date)
			}
		})
	}

	t.Run("unknown group", func(t *testing.T) {
		c := setupTestServer(t, nil)
		_, err := c.insight.AnalyzeGroup(context.Background(), connect.NewRequest(&api.AnalyzeGroupRequest{GroupID: "X"}))
		if connect.CodeOf(err) != connect.CodeNotFound {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authSvc := NewAuthService(auth.NewPasswordAuthenticator("admin", hash), jwtManager, slog.Default())

	interceptors := connect.WithInterceptors(middleware.RequireAuth(jwtManager, apiconnect.AuthServiceLoginProcedure))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc, interceptors))
	mux.Handle(apiconnect.NewAttendanceServiceHandler(NewAttendanceService(newTestTracker(t)), interceptors))
	server := httptest.NewServer(mux)
	defer server.Close()

	authClient := apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
	ctx := context.Background()

	tests := []struct {
		name     string
		user     string
		password string
		code     connect.Code
	}{
		{name: "wrong password", user: "admin", password: "wrong", code: connect.CodeUnauthenticated},
		{name: "wrong name", user: "root", password: "correct horse", code: connect.CodeUnauthenticated},
		{name: "missing password", user: "admin", code: connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authClient.Login(ctx, connect.NewRequest(&api.LoginRequest{Name: tt.user, Password: tt.password}))
			if connect.CodeOf(err) != tt.code {
				t.Errorf("expected %v, got %v", tt.code, err)
			}
		})
	}

	resp, err := authClient.Login(ctx, connect.NewRequest(&api.LoginRequest{Name: "admin", Password: "correct horse"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Msg.Token == "" || resp.Msg.Operator != "admin" {
		t.Fatalf("unexpected login response: %+v", resp.Msg)
	}
	if resp.Msg.ExpiresAt <= time.Now().Unix() {
		t.Errorf("expected future expiry, got %d", resp.Msg.ExpiresAt)
	}

	attendanceClient := apiconnect.NewAttendanceServiceClient(http.DefaultClient, server.URL)

	_, err = attendanceClient.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected Unauthenticated without token, got %v", err)
	}

	req := connect.NewRequest(&api.ListGroupsRequest{})
	req.Header().Set("Authorization", "Bearer "+resp.Msg.Token)
	list, err := attendanceClient.ListGroups(ctx, req)
	if err != nil {
		t.Fatalf("ListGroups with token failed: %v", err)
	}
	if len(list.Msg.Groups) != 2 {
		t.Errorf("expected 2 groups, got %d", len(list.Msg.Groups))
	}
}

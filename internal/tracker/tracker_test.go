package tracker

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmynk/rollbook/internal/activity"
	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/state"
	"github.com/mmynk/rollbook/internal/storage"
	"github.com/mmynk/rollbook/internal/storage/sqlite"
	"github.com/mmynk/rollbook/internal/transcode"
)

const seedCSV = `Group_Name,Group_Id,Leader,Co_Leader,Period,Member_Name,Phone,2026-01-04,2026-01-11
Solomon Raja,SR,Solomon Raja,Parthiban D,JANUARY 2026 - APRIL 2026,PARTHIBAN,9499900625,P,A
Solomon Raja,SR,Solomon Raja,Parthiban D,JANUARY 2026 - APRIL 2026,JEARIM,N/A,,P
Moses,M,Moses,,,DANI,123,A,
`

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

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
	return store
}

// newSeededTracker returns a tracker loaded from seedCSV.
func newSeededTracker(t *testing.T, store storage.Store) *Tracker {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.csv")
	if err := os.WriteFile(path, []byte(seedCSV), 0o644); err != nil {
		t.Fatalf("failed to write seed: %v", err)
	}
	tr := New(store, Options{SeedCSV: path})
	if err := tr.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return tr
}

func TestLoadSeedsEmptyStore(t *testing.T) {
	store := newTestStore(t)
	tr := newSeededTracker(t, store)

	groups := tr.Groups()
	if len(groups) != 2 || groups[0].ID != "SR" || len(groups[0].Members) != 2 {
		t.Fatalf("Unexpected groups: %+v", groups)
	}

	stored, err := store.FetchGroups(context.Background())
	if err != nil {
		t.Fatalf("FetchGroups failed: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("Expected seed to be persisted, got %d groups", len(stored))
	}

	// A second load does not seed again.
	tr2 := New(store, Options{SeedCSV: "/does/not/exist.csv"})
	if err := tr2.Load(context.Background()); err != nil {
		t.Fatalf("Load of non-empty store failed: %v", err)
	}
	if len(tr2.Groups()) != 2 {
		t.Errorf("Expected 2 groups after reload, got %d", len(tr2.Groups()))
	}
}

func TestToggleAttendance(t *testing.T) {
	store := newTestStore(t)
	tr := newSeededTracker(t, store)
	ctx := context.Background()

	want := []struct{ next, prev models.Status }{
		{models.StatusPresent, models.StatusUnmarked},
		{models.StatusAbsent, models.StatusPresent},
		{models.StatusUnmarked, models.StatusAbsent},
	}
	for i, w := range want {
		next, prev, err := tr.ToggleAttendance(ctx, "SR", "SR_2", "04-01-2026")
		if err != nil {
			t.Fatalf("toggle %d failed: %v", i, err)
		}
		if next != w.next || prev != w.prev {
			t.Errorf("toggle %d = (%v, %v), want (%v, %v)", i, next, prev, w.next, w.prev)
		}
	}

	if n := len(tr.Activities()); n != 3 {
		t.Errorf("Expected 3 activities, got %d", n)
	}

	t.Run("rejects unknown date", func(t *testing.T) {
		_, _, err := tr.ToggleAttendance(ctx, "SR", "SR_1", "05-01-2026")
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("rejects unknown member", func(t *testing.T) {
		_, _, err := tr.ToggleAttendance(ctx, "SR", "nobody", "04-01-2026")
		if !errors.Is(err, state.ErrMemberNotFound) {
			t.Errorf("Expected ErrMemberNotFound, got %v", err)
		}
	})

	t.Run("revert restores previous status", func(t *testing.T) {
		tr.ToggleAttendance(ctx, "SR", "SR_1", "11-01-2026") // A -> Unmarked
		latest := tr.Activities()[0]
		if outcome := tr.Revert(ctx, latest.ID); outcome != activity.OutcomeReverted {
			t.Fatalf("Revert = %s", outcome)
		}
		g, _ := tr.Group("SR")
		if got := g.Attendance.Get("SR_1", "11-01-2026"); got != models.StatusAbsent {
			t.Errorf("Expected Absent after revert, got %v", got)
		}
		stored := reload(t, store)
		if got := stored.Attendance.Get("SR_1", "11-01-2026"); got != models.StatusAbsent {
			t.Errorf("Expected stored Absent after revert, got %v", got)
		}
	})
}

func TestMemberLifecycle(t *testing.T) {
	store := newTestStore(t)
	tr := newSeededTracker(t, store)
	ctx := context.Background()

	added, err := tr.AddMember(ctx, "SR", "  DANIEL ", "")
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if added.Name != "DANIEL" || added.Phone != transcode.DefaultPhone || added.ID == "" {
		t.Errorf("Unexpected member: %+v", added)
	}

	if _, err := tr.AddMember(ctx, "SR", "   ", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for blank name, got %v", err)
	}
	if _, err := tr.AddMember(ctx, "nope", "X", ""); !errors.Is(err, state.ErrGroupNotFound) {
		t.Errorf("Expected ErrGroupNotFound, got %v", err)
	}

	edited, err := tr.EditMember(ctx, "SR", models.Member{ID: "SR_1", Name: "P. D", Phone: "1"})
	if err != nil {
		t.Fatalf("EditMember failed: %v", err)
	}
	if edited.Name != "P. D" {
		t.Errorf("Unexpected edited member: %+v", edited)
	}

	if err := tr.DeleteMember(ctx, "SR", "SR_1"); err != nil {
		t.Fatalf("DeleteMember failed: %v", err)
	}
	g, _ := tr.Group("SR")
	if g.HasMember("SR_1") {
		t.Fatal("Expected SR_1 to be deleted")
	}

	// Undo delete, then edit: the member returns at its position with its
	// marks and its original name.
	for _, kind := range []models.ActivityKind{models.KindMemberDelete, models.KindMemberEdit} {
		a := tr.Activities()[0]
		if a.Kind != kind {
			t.Fatalf("Expected latest activity %s, got %s", kind, a.Kind)
		}
		if outcome := tr.Revert(ctx, a.ID); outcome != activity.OutcomeReverted {
			t.Fatalf("Revert %s = %s", kind, outcome)
		}
	}

	for _, g := range []models.Group{mustGroup(t, tr, "SR"), reload(t, store)} {
		if len(g.Members) != 3 || g.Members[0].ID != "SR_1" || g.Members[0].Name != "PARTHIBAN" {
			t.Errorf("Unexpected members after revert: %+v", g.Members)
		}
		if g.Attendance.Get("SR_1", "04-01-2026") != models.StatusPresent {
			t.Errorf("Expected attendance restored, got %v", g.Attendance)
		}
	}
}

func TestBulkAddMembers(t *testing.T) {
	tr := newSeededTracker(t, newTestStore(t))
	ctx := context.Background()

	added, err := tr.BulkAddMembers(ctx, "M", "JOHN, 111\n\nJANE|222\n,333")
	if err != nil {
		t.Fatalf("BulkAddMembers failed: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("Expected 2 members, got %+v", added)
	}
	if n := len(mustGroup(t, tr, "M").Members); n != 3 {
		t.Errorf("Expected 3 members in M, got %d", n)
	}

	// Each member is undone on its own.
	if outcome := tr.Revert(ctx, tr.Activities()[0].ID); outcome != activity.OutcomeReverted {
		t.Fatalf("Revert = %s", outcome)
	}
	g := mustGroup(t, tr, "M")
	if len(g.Members) != 2 || g.Members[1].Name != "JOHN" {
		t.Errorf("Unexpected members after revert: %+v", g.Members)
	}

	if _, err := tr.BulkAddMembers(ctx, "M", "\n  \n"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for empty roster, got %v", err)
	}
}

func TestCreateGroup(t *testing.T) {
	store := newTestStore(t)
	tr := New(store, Options{DefaultLeader: "Pastor"})
	ctx := context.Background()

	g, err := tr.CreateGroup(ctx, NewGroup{ID: "NEW", Name: "New Group"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if g.Leader != "Pastor" || g.Period != transcode.DefaultPeriod {
		t.Errorf("Expected defaults, got %+v", g)
	}

	tests := []struct {
		name    string
		in      NewGroup
		wantErr error
	}{
		{"duplicate id", NewGroup{ID: "NEW", Name: "Other"}, state.ErrGroupExists},
		{"missing id", NewGroup{Name: "Other"}, ErrInvalidArgument},
		{"missing name", NewGroup{ID: "X"}, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tr.CreateGroup(ctx, tt.in); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	a := tr.Activities()[0]
	if a.Kind != models.KindGroupAdd {
		t.Fatalf("Expected GROUP_ADD activity, got %s", a.Kind)
	}
	if outcome := tr.Revert(ctx, a.ID); outcome != activity.OutcomeUnsupported {
		t.Errorf("Revert = %s, want %s", outcome, activity.OutcomeUnsupported)
	}
	if len(tr.Activities()) != 1 {
		t.Error("Unsupported revert should keep the entry")
	}
	if stored := reload(t, store); stored.ID != "NEW" {
		t.Errorf("Expected stored group, got %+v", stored)
	}
}

func TestImportCSV(t *testing.T) {
	store := newTestStore(t)
	tr := newSeededTracker(t, store)
	ctx := context.Background()

	t.Run("empty import changes nothing", func(t *testing.T) {
		_, err := tr.ImportCSV(ctx, strings.NewReader("a,b,c,d,e,f,g\n"))
		if !errors.Is(err, transcode.ErrNoGroups) || !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Expected ErrNoGroups, got %v", err)
		}
		if len(tr.Groups()) != 2 {
			t.Errorf("Expected groups untouched, got %d", len(tr.Groups()))
		}
	})

	t.Run("bad header", func(t *testing.T) {
		_, err := tr.ImportCSV(ctx, strings.NewReader("a,b\n"))
		if !errors.Is(err, transcode.ErrBadHeader) {
			t.Errorf("Expected ErrBadHeader, got %v", err)
		}
	})

	t.Run("import replaces groups", func(t *testing.T) {
		report, err := tr.ImportCSV(ctx, strings.NewReader(
			"Group_Name,Group_Id,Leader,Co_Leader,Period,Member_Name,Phone,2026-01-04\nNew,N,Lead,,,ONE,1,P\n"))
		if err != nil {
			t.Fatalf("ImportCSV failed: %v", err)
		}
		if report.Groups != 1 || report.Members != 1 {
			t.Errorf("Unexpected report: %+v", report)
		}
		groups := tr.Groups()
		if len(groups) != 1 || groups[0].ID != "N" {
			t.Fatalf("Expected only N, got %+v", groups)
		}
		if stored := reload(t, store); stored.ID != "N" {
			t.Errorf("Expected stored N, got %+v", stored)
		}
	})
}

func TestExportRoundTrip(t *testing.T) {
	tr := newSeededTracker(t, newTestStore(t))

	var buf bytes.Buffer
	if err := tr.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if _, err := tr.ImportCSV(context.Background(), &buf); err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	g := mustGroup(t, tr, "SR")
	if g.Attendance.Get("SR_1", "04-01-2026") != models.StatusPresent || g.Attendance.Get("SR_2", "11-01-2026") != models.StatusPresent {
		t.Errorf("Marks lost in round trip: %v", g.Attendance)
	}

	buf.Reset()
	if err := tr.ExportXLSX(&buf); err != nil || buf.Len() == 0 {
		t.Errorf("ExportXLSX failed: %v (%d bytes)", err, buf.Len())
	}
}

func TestReadModels(t *testing.T) {
	tr := newSeededTracker(t, newTestStore(t))

	stats, err := tr.Stats("SR")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if len(stats) != len(models.SessionDates) || stats[0].PresentCount != 1 || stats[0].Total != 2 {
		t.Errorf("Unexpected stats: %+v", stats[:2])
	}

	summary, err := tr.Summary("SR")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	// SR: P, A, P marked -> 2/3.
	if summary.AvgAttendance < 66.6 || summary.AvgAttendance > 66.7 {
		t.Errorf("Unexpected average: %v", summary.AvgAttendance)
	}

	if _, err := tr.Stats("missing"); !errors.Is(err, state.ErrGroupNotFound) {
		t.Errorf("Expected ErrGroupNotFound, got %v", err)
	}

	overview := tr.Dashboard()
	if overview.TotalMembers != 3 || overview.LastSession != "11-01-2026" {
		t.Errorf("Unexpected overview: %+v", overview)
	}

	week, err := tr.Weekly("")
	if err != nil {
		t.Fatalf("Weekly failed: %v", err)
	}
	if week.Date != "11-01-2026" || week.TotalPresent != 1 {
		t.Errorf("Unexpected week: %+v", week)
	}
	if _, err := tr.Weekly("01-01-2020"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

// failingStore fails every write.
type failingStore struct {
	storage.Store
}

var errStoreDown = errors.New("store down")

func (failingStore) WriteAttendance(context.Context, string, string, string, models.Status) error {
	return errStoreDown
}
func (failingStore) AppendActivity(context.Context, models.Activity) error { return errStoreDown }

func TestStoreFailureKeepsMemory(t *testing.T) {
	tr := newSeededTracker(t, failingStore{Store: newTestStore(t)})

	next, _, err := tr.ToggleAttendance(context.Background(), "M", "M_1", "11-01-2026")
	if err != nil {
		t.Fatalf("ToggleAttendance returned store error: %v", err)
	}
	if got := mustGroup(t, tr, "M").Attendance.Get("M_1", "11-01-2026"); got != next {
		t.Errorf("Expected in-memory %v, got %v", next, got)
	}
	if len(tr.Activities()) != 1 {
		t.Error("Expected activity kept in memory")
	}
}

func mustGroup(t *testing.T, tr *Tracker, id string) models.Group {
	t.Helper()
	g, err := tr.Group(id)
	if err != nil {
		t.Fatalf("Group(%s) failed: %v", id, err)
	}
	return g
}

// reload returns the first stored group.
func reload(t *testing.T, store storage.Store) models.Group {
	t.Helper()
	groups, err := store.FetchGroups(context.Background())
	if err != nil || len(groups) == 0 {
		t.Fatalf("FetchGroups = %v, %v", groups, err)
	}
	return groups[0]
}

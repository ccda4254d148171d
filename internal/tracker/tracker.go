// Package tracker is the application core. It owns the in-memory state,
// applies every mutation through the state reducers, records it in the
// activity log and mirrors it to the record store.
//
// Memory is authoritative while the process runs: store writes happen after
// the in-memory update and their failures are logged and counted, never
// rolled back.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/rollbook/internal/activity"
	"github.com/mmynk/rollbook/internal/attendance"
	"github.com/mmynk/rollbook/internal/metrics"
	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/state"
	"github.com/mmynk/rollbook/internal/storage"
	"github.com/mmynk/rollbook/internal/transcode"
)

// ErrInvalidArgument marks errors caused by bad caller input.
var ErrInvalidArgument = errors.New("invalid argument")

// Options configures a Tracker.
type Options struct {
	// Capacity is the activity log size. Zero means activity.DefaultCapacity.
	Capacity int

	// DefaultLeader and DefaultPeriod fill blank group fields on create and import.
	DefaultLeader string
	DefaultPeriod string

	// SeedCSV is imported by Load when the store holds no groups.
	SeedCSV string

	// Dates are the session dates. Nil means models.SessionDates.
	Dates []string

	Metrics *metrics.Metrics
}

// Tracker coordinates state, activity log and store.
type Tracker struct {
	state   *state.Container
	store   storage.Store
	log     *activity.Log
	metrics *metrics.Metrics
	opts    Options
	newID   func() string
}

// New creates a tracker with empty state. Call Load to read the store.
func New(store storage.Store, opts Options) *Tracker {
	if opts.Dates == nil {
		opts.Dates = models.SessionDates
	}
	if opts.DefaultLeader == "" {
		opts.DefaultLeader = transcode.DefaultLeader
	}
	if opts.DefaultPeriod == "" {
		opts.DefaultPeriod = transcode.DefaultPeriod
	}

	c := state.NewContainer(state.State{})
	return &Tracker{
		state:   c,
		store:   store,
		log:     activity.NewLog(c, store, activity.WithCapacity(opts.Capacity), activity.WithMetrics(opts.Metrics)),
		metrics: opts.Metrics,
		opts:    opts,
		newID:   uuid.NewString,
	}
}

// Load replaces the in-memory state with the store contents. An empty store
// is seeded from Options.SeedCSV when set.
func (t *Tracker) Load(ctx context.Context) error {
	groups, err := t.store.FetchGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to load groups: %w", err)
	}
	activities, err := t.store.FetchActivities(ctx, t.log.Capacity())
	if err != nil {
		return fmt.Errorf("failed to load activities: %w", err)
	}

	if len(groups) == 0 && t.opts.SeedCSV != "" {
		groups, err = t.seed(ctx)
		if err != nil {
			return err
		}
	}

	t.state.Replace(state.State{Groups: groups, Activities: activities})
	t.updateSize()
	slog.Info("State loaded", "groups", len(groups), "activities", len(activities))
	return nil
}

func (t *Tracker) seed(ctx context.Context) ([]models.Group, error) {
	f, err := os.Open(t.opts.SeedCSV)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed csv: %w", err)
	}
	defer f.Close()

	res, err := transcode.ImportCSV(f, t.importOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed csv %s: %w", t.opts.SeedCSV, err)
	}
	if err := t.store.ReplaceGroups(ctx, res.Groups); err != nil {
		return nil, fmt.Errorf("failed to store seed groups: %w", err)
	}
	slog.Info("Seeded groups from CSV", "path", t.opts.SeedCSV, "groups", res.Report.Groups, "members", res.Report.Members)
	return res.Groups, nil
}

// Dates returns the session dates.
func (t *Tracker) Dates() []string {
	return t.opts.Dates
}

// Groups returns a copy of every group, in order.
func (t *Tracker) Groups() []models.Group {
	return t.state.Snapshot().Groups
}

// Group returns a copy of one group.
func (t *Tracker) Group(groupID string) (models.Group, error) {
	return t.state.Snapshot().Group(groupID)
}

// Activities returns the activity log, most recent first.
func (t *Tracker) Activities() []models.Activity {
	return t.log.List()
}

// Stats returns the per-date counts of one group.
func (t *Tracker) Stats(groupID string) ([]attendance.Stat, error) {
	g, err := t.Group(groupID)
	if err != nil {
		return nil, err
	}
	return attendance.ComputeStats(g, t.opts.Dates), nil
}

// Summary returns the headline rates of one group.
func (t *Tracker) Summary(groupID string) (attendance.Summary, error) {
	s := t.state.Snapshot()
	g, err := s.Group(groupID)
	if err != nil {
		return attendance.Summary{}, err
	}
	return attendance.ComputeSummary(g, s.Groups, t.opts.Dates), nil
}

// Dashboard summarises every group.
func (t *Tracker) Dashboard() attendance.Overview {
	return attendance.Dashboard(t.Groups(), t.opts.Dates)
}

// Weekly returns every group's attendance on date. An empty date means the
// last session with any mark, or the first session date when nothing is marked.
func (t *Tracker) Weekly(date string) (attendance.Week, error) {
	groups := t.Groups()
	if date == "" {
		date = attendance.LastSessionDate(groups, t.opts.Dates)
	}
	if err := t.checkDate(date); err != nil {
		return attendance.Week{}, err
	}
	return attendance.Weekly(groups, date), nil
}

// Revert undoes one activity log entry.
func (t *Tracker) Revert(ctx context.Context, activityID string) activity.Outcome {
	outcome := t.log.Revert(ctx, activityID)
	t.updateSize()
	return outcome
}

func (t *Tracker) checkDate(date string) error {
	for _, d := range t.opts.Dates {
		if d == date {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not a session date", ErrInvalidArgument, date)
}

// persist runs a store write. Failures are logged and counted only.
func (t *Tracker) persist(ctx context.Context, op string, write func(context.Context) error, attrs ...any) {
	if err := write(ctx); err != nil {
		slog.Error("Store write failed", append([]any{"op", op, "error", err}, attrs...)...)
		t.metrics.StoreWriteFailed(op)
	}
}

func (t *Tracker) updateSize() {
	s := t.state.Snapshot()
	t.metrics.SetSize(len(s.Groups), s.MemberCount())
}

func (t *Tracker) importOptions() transcode.Options {
	return transcode.Options{DefaultLeader: t.opts.DefaultLeader, DefaultPeriod: t.opts.DefaultPeriod}
}

func required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidArgument, field)
	}
	return value, nil
}

// ExportCSV writes every group in the flat CSV layout.
func (t *Tracker) ExportCSV(w io.Writer) error {
	return transcode.ExportCSV(w, t.Groups(), t.opts.Dates)
}

// ExportXLSX writes the same layout as a workbook.
func (t *Tracker) ExportXLSX(w io.Writer) error {
	return transcode.ExportXLSX(w, t.Groups(), t.opts.Dates)
}

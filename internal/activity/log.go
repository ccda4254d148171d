// Package activity implements the bounded undo log. Every recorded mutation
// carries the data needed to invert it; Revert applies that inverse to the
// in-memory state and to the record store.
package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/rollbook/internal/metrics"
	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/state"
	"github.com/mmynk/rollbook/internal/storage"
)

// DefaultCapacity is the number of entries kept when none is configured.
const DefaultCapacity = 50

// Log records and reverts activities on a shared state container.
type Log struct {
	state    *state.Container
	store    storage.Store
	metrics  *metrics.Metrics
	capacity int

	now   func() time.Time
	newID func() string
}

// Option configures a Log.
type Option func(*Log)

// WithCapacity sets the maximum number of entries kept.
func WithCapacity(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.capacity = n
		}
	}
}

// WithMetrics reports recorded entries and revert outcomes to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Log) { l.metrics = m }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// NewLog creates a log over the given container and store.
func NewLog(c *state.Container, store storage.Store, opts ...Option) *Log {
	l := &Log{
		state:    c,
		store:    store,
		capacity: DefaultCapacity,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Capacity returns the maximum number of entries kept.
func (l *Log) Capacity() int {
	return l.capacity
}

// List returns the current entries, most recent first.
func (l *Log) List() []models.Activity {
	return l.state.Snapshot().Activities
}

// Record prepends a new entry for a mutation that already happened and
// evicts the oldest entries beyond capacity. The kind is taken from revert.
func (l *Log) Record(ctx context.Context, groupID, description string, revert models.RevertData) models.Activity {
	a := models.Activity{
		ID:          l.newID(),
		Timestamp:   l.now().UnixMilli(),
		Kind:        revert.Kind(),
		GroupID:     groupID,
		Description: description,
		Revert:      revert,
	}

	var evicted int
	l.state.Apply(func(s state.State) state.State {
		next, dropped := state.PrependActivity(s, a, l.capacity)
		evicted = len(dropped)
		return next
	})
	l.metrics.ActivityRecorded(string(a.Kind))

	l.persist(ctx, "append_activity", func(ctx context.Context) error {
		return l.store.AppendActivity(ctx, a)
	})
	if evicted > 0 {
		l.persist(ctx, "prune_activities", func(ctx context.Context) error {
			return l.store.PruneActivities(ctx, l.capacity)
		})
	}
	return a
}

// persist runs a store write. Failures are logged and counted; the in-memory
// state is not rolled back.
func (l *Log) persist(ctx context.Context, op string, write func(context.Context) error) {
	if err := write(ctx); err != nil {
		slog.Error("Store write failed", "op", op, "error", err)
		l.metrics.StoreWriteFailed(op)
	}
}

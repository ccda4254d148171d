package activity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/state"
)

// Outcome is the result of a revert request.
type Outcome string

const (
	// OutcomeReverted means the inverse was applied.
	OutcomeReverted Outcome = "reverted"
	// OutcomeNotFound means no entry has the requested ID.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeTargetMissing means the group or member the entry refers to is
	// gone. Nothing is changed but the entry is consumed.
	OutcomeTargetMissing Outcome = "target_missing"
	// OutcomeUnsupported means the entry has no inverse and stays in the log.
	OutcomeUnsupported Outcome = "unsupported"
)

// Consumed reports whether the entry was removed from the log.
func (o Outcome) Consumed() bool {
	return o == OutcomeReverted || o == OutcomeTargetMissing
}

// write is a store operation that mirrors an inverse applied in memory.
type write struct {
	op  string
	run func(context.Context) error
}

// Revert applies the inverse of the entry with the given ID. A consumed entry
// is removed from memory and from the store. Reverts are not recorded.
func (l *Log) Revert(ctx context.Context, id string) Outcome {
	var (
		outcome Outcome
		entry   models.Activity
		writes  []write
	)
	// A skipped update is reported through outcome.
	_ = l.state.Update(func(s state.State) (state.State, error) {
		a, err := s.Activity(id)
		if err != nil {
			outcome = OutcomeNotFound
			return s, err
		}
		entry = a

		next, o, w := l.undo(s, a)
		outcome = o
		if !o.Consumed() {
			return s, errUnchanged
		}
		next, err = state.RemoveActivity(next, id)
		if err != nil {
			outcome = OutcomeNotFound
			return s, err
		}
		writes = w
		return next, nil
	})
	l.metrics.Reverted(string(outcome))

	switch outcome {
	case OutcomeNotFound:
		slog.Warn("Revert of unknown activity", "activity_id", id)
		return outcome
	case OutcomeUnsupported:
		slog.Info("Activity cannot be reverted", "activity_id", id, "type", entry.Kind)
		return outcome
	case OutcomeTargetMissing:
		slog.Info("Revert target no longer exists", "activity_id", id, "group_id", entry.GroupID)
	}

	for _, w := range writes {
		l.persist(ctx, w.op, w.run)
	}
	l.persist(ctx, "remove_activity", func(ctx context.Context) error {
		return l.store.RemoveActivity(ctx, id)
	})
	return outcome
}

var errUnchanged = errors.New("state unchanged")

// undo computes the state after inverting a, and the store writes that
// mirror it.
func (l *Log) undo(s state.State, a models.Activity) (state.State, Outcome, []write) {
	gid := a.GroupID

	switch r := a.Revert.(type) {
	case models.AttendanceRevert:
		g, err := s.Group(gid)
		if err != nil || !g.HasMember(r.MemberID) {
			return s, OutcomeTargetMissing, nil
		}
		next, err := state.SetAttendance(s, gid, r.MemberID, r.Date, r.Previous)
		if err != nil {
			return s, OutcomeTargetMissing, nil
		}
		return next, OutcomeReverted, []write{{
			op: "write_attendance",
			run: func(ctx context.Context) error {
				return l.store.WriteAttendance(ctx, gid, r.MemberID, r.Date, r.Previous)
			},
		}}

	case models.MemberAddRevert:
		next, changed, err := state.RemoveMember(s, gid, r.MemberID)
		if err != nil || !changed {
			return s, OutcomeTargetMissing, nil
		}
		remaining := membersOf(next, gid)
		return next, OutcomeReverted, []write{{
			op: "delete_member",
			run: func(ctx context.Context) error {
				return l.store.DeleteMember(ctx, gid, r.MemberID, remaining)
			},
		}}

	case models.MemberEditRevert:
		next, _, err := state.EditMember(s, gid, r.Previous)
		if err != nil {
			return s, OutcomeTargetMissing, nil
		}
		members := membersOf(next, gid)
		return next, OutcomeReverted, []write{{
			op: "write_members",
			run: func(ctx context.Context) error {
				return l.store.WriteMembers(ctx, gid, members)
			},
		}}

	case models.MemberDeleteRevert:
		next, err := state.RestoreMembers(s, gid, r.PreviousMembers, r.MemberID, r.Attendance)
		if err != nil {
			return s, OutcomeTargetMissing, nil
		}
		writes := []write{{
			op: "write_members",
			run: func(ctx context.Context) error {
				return l.store.WriteMembers(ctx, gid, models.CloneMembers(r.PreviousMembers))
			},
		}}
		for date, status := range r.Attendance {
			writes = append(writes, write{
				op: "write_attendance",
				run: func(ctx context.Context) error {
					return l.store.WriteAttendance(ctx, gid, r.MemberID, date, status)
				},
			})
		}
		return next, OutcomeReverted, writes

	default:
		// GroupAddRevert and anything unknown.
		return s, OutcomeUnsupported, nil
	}
}

func membersOf(s state.State, groupID string) []models.Member {
	g, err := s.Group(groupID)
	if err != nil {
		return nil
	}
	return g.Members
}

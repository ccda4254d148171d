package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/state"
	"github.com/mmynk/rollbook/internal/transcode"
)

// ToggleAttendance advances one cell through Unmarked -> Present -> Absent
// -> Unmarked. It returns the new and the previous status.
func (t *Tracker) ToggleAttendance(ctx context.Context, groupID, memberID, date string) (models.Status, models.Status, error) {
	if err := t.checkDate(date); err != nil {
		return "", "", err
	}

	var (
		previous, next models.Status
		member         models.Member
	)
	err := t.state.Update(func(s state.State) (state.State, error) {
		updated, prev, err := state.ToggleAttendance(s, groupID, memberID, date)
		if err != nil {
			return s, err
		}
		g, _ := updated.Group(groupID)
		member = g.Members[g.MemberIndex(memberID)]
		previous, next = prev, g.Attendance.Get(memberID, date)
		return updated, nil
	})
	if err != nil {
		return "", "", err
	}
	t.metrics.AttendanceToggled()

	t.persist(ctx, "write_attendance", func(ctx context.Context) error {
		return t.store.WriteAttendance(ctx, groupID, memberID, date, next)
	}, "group_id", groupID, "member_id", memberID)

	t.log.Record(ctx, groupID,
		fmt.Sprintf("Set %s to %s on %s", member.Name, next, date),
		models.AttendanceRevert{MemberID: memberID, Date: date, Previous: previous})
	return next, previous, nil
}

// AddMember appends a new member to a group. The phone defaults to N/A.
func (t *Tracker) AddMember(ctx context.Context, groupID, name, phone string) (models.Member, error) {
	name, err := required("name", name)
	if err != nil {
		return models.Member{}, err
	}
	member := models.Member{ID: t.newID(), Name: name, Phone: phoneOrDefault(phone)}

	members, err := t.addMembers(groupID, member)
	if err != nil {
		return models.Member{}, err
	}
	t.persist(ctx, "write_members", func(ctx context.Context) error {
		return t.store.WriteMembers(ctx, groupID, members)
	}, "group_id", groupID)

	t.log.Record(ctx, groupID, "Added member "+member.Name, models.MemberAddRevert{MemberID: member.ID})
	t.updateSize()
	return member, nil
}

// BulkAddMembers appends every member parsed from roster text. Each member
// gets its own activity so they can be reverted one by one.
func (t *Tracker) BulkAddMembers(ctx context.Context, groupID, text string) ([]models.Member, error) {
	entries := transcode.ParseRoster(text)
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no members in roster", ErrInvalidArgument)
	}
	added := make([]models.Member, len(entries))
	for i, e := range entries {
		added[i] = models.Member{ID: t.newID(), Name: e.Name, Phone: e.Phone}
	}

	members, err := t.addMembers(groupID, added...)
	if err != nil {
		return nil, err
	}
	t.persist(ctx, "write_members", func(ctx context.Context) error {
		return t.store.WriteMembers(ctx, groupID, members)
	}, "group_id", groupID)

	for _, m := range added {
		t.log.Record(ctx, groupID, "Added member "+m.Name, models.MemberAddRevert{MemberID: m.ID})
	}
	t.updateSize()
	return added, nil
}

// addMembers applies the reducer and returns the group's full member list.
func (t *Tracker) addMembers(groupID string, added ...models.Member) ([]models.Member, error) {
	var members []models.Member
	err := t.state.Update(func(s state.State) (state.State, error) {
		next, err := state.AddMembers(s, groupID, added...)
		if err != nil {
			return s, err
		}
		g, _ := next.Group(groupID)
		members = g.Members
		return next, nil
	})
	return members, err
}

// EditMember replaces the name and phone of an existing member.
func (t *Tracker) EditMember(ctx context.Context, groupID string, member models.Member) (models.Member, error) {
	name, err := required("name", member.Name)
	if err != nil {
		return models.Member{}, err
	}
	member.Name = name
	member.Phone = phoneOrDefault(member.Phone)

	var (
		previous models.Member
		members  []models.Member
	)
	err = t.state.Update(func(s state.State) (state.State, error) {
		next, prev, err := state.EditMember(s, groupID, member)
		if err != nil {
			return s, err
		}
		g, _ := next.Group(groupID)
		previous, members = prev, g.Members
		return next, nil
	})
	if err != nil {
		return models.Member{}, err
	}

	t.persist(ctx, "write_members", func(ctx context.Context) error {
		return t.store.WriteMembers(ctx, groupID, members)
	}, "group_id", groupID, "member_id", member.ID)

	t.log.Record(ctx, groupID, "Edited member "+previous.Name, models.MemberEditRevert{Previous: previous})
	return member, nil
}

// DeleteMember removes a member and its attendance row.
func (t *Tracker) DeleteMember(ctx context.Context, groupID, memberID string) error {
	var (
		before    models.Group
		remaining []models.Member
	)
	err := t.state.Update(func(s state.State) (state.State, error) {
		next, prev, err := state.DeleteMember(s, groupID, memberID)
		if err != nil {
			return s, err
		}
		g, _ := next.Group(groupID)
		before, remaining = prev, g.Members
		return next, nil
	})
	if err != nil {
		return err
	}

	t.persist(ctx, "delete_member", func(ctx context.Context) error {
		return t.store.DeleteMember(ctx, groupID, memberID, remaining)
	}, "group_id", groupID, "member_id", memberID)

	deleted := before.Members[before.MemberIndex(memberID)]
	t.log.Record(ctx, groupID, "Removed member "+deleted.Name, models.MemberDeleteRevert{
		MemberID:        memberID,
		PreviousMembers: before.Members,
		Attendance:      before.Attendance.Row(memberID),
	})
	t.updateSize()
	return nil
}

// NewGroup is the input of CreateGroup.
type NewGroup struct {
	ID       string
	Name     string
	Leader   string
	CoLeader string
	Period   string
}

// CreateGroup adds an empty group. IDs are unique; blank leader and period
// take the configured defaults.
func (t *Tracker) CreateGroup(ctx context.Context, in NewGroup) (models.Group, error) {
	id, err := required("id", in.ID)
	if err != nil {
		return models.Group{}, err
	}
	name, err := required("name", in.Name)
	if err != nil {
		return models.Group{}, err
	}

	g := models.Group{
		ID:         id,
		Name:       name,
		Leader:     strings.TrimSpace(in.Leader),
		CoLeader:   strings.TrimSpace(in.CoLeader),
		Period:     strings.TrimSpace(in.Period),
		Members:    []models.Member{},
		Attendance: models.AttendanceTable{},
	}
	if g.Leader == "" {
		g.Leader = t.opts.DefaultLeader
	}
	if g.Period == "" {
		g.Period = t.opts.DefaultPeriod
	}

	err = t.state.Update(func(s state.State) (state.State, error) {
		return state.AddGroup(s, g)
	})
	if err != nil {
		return models.Group{}, err
	}

	t.persist(ctx, "add_group", func(ctx context.Context) error {
		return t.store.AddGroup(ctx, g)
	}, "group_id", g.ID)

	t.log.Record(ctx, g.ID, "Created group "+g.Name, models.GroupAddRevert{})
	t.updateSize()
	return g, nil
}

// ImportCSV replaces every group with the contents of r. Nothing changes
// when the input yields no group.
func (t *Tracker) ImportCSV(ctx context.Context, r io.Reader) (transcode.Report, error) {
	res, err := transcode.ImportCSV(r, t.importOptions())
	switch {
	case errors.Is(err, transcode.ErrNoGroups):
		t.metrics.Imported("empty")
		return res.Report, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	case errors.Is(err, transcode.ErrBadHeader):
		t.metrics.Imported("invalid")
		return res.Report, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	case err != nil:
		t.metrics.Imported("error")
		return res.Report, err
	}

	t.state.Apply(func(s state.State) state.State {
		return state.ReplaceGroups(s, res.Groups)
	})
	t.metrics.Imported("ok")

	t.persist(ctx, "replace_groups", func(ctx context.Context) error {
		return t.store.ReplaceGroups(ctx, res.Groups)
	})

	slog.Info("Imported groups from CSV",
		"groups", res.Report.Groups,
		"members", res.Report.Members,
		"skipped", len(res.Report.Skipped),
	)
	t.updateSize()
	return res.Report, nil
}

func phoneOrDefault(phone string) string {
	if phone = strings.TrimSpace(phone); phone == "" {
		return transcode.DefaultPhone
	}
	return phone
}

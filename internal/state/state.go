// Package state holds the application state as a value and the pure
// reducers that derive a new state from an old one.
//
// Reducers never modify their input: every slice or map they change is
// copied first, so a State obtained earlier stays valid after an update.
package state

import (
	"errors"
	"fmt"

	"github.com/mmynk/rollbook/internal/attendance"
	"github.com/mmynk/rollbook/internal/models"
)

var (
	ErrGroupNotFound    = errors.New("group not found")
	ErrGroupExists      = errors.New("group already exists")
	ErrMemberNotFound   = errors.New("member not found")
	ErrActivityNotFound = errors.New("activity not found")
)

// State is the full in-memory model: all groups and the activity log
// (most recent first).
type State struct {
	Groups     []models.Group
	Activities []models.Activity
}

// Clone deep-copies the state.
func (s State) Clone() State {
	activities := make([]models.Activity, len(s.Activities))
	copy(activities, s.Activities)
	return State{
		Groups:     models.CloneGroups(s.Groups),
		Activities: activities,
	}
}

// GroupIndex returns the position of the group with the given ID, or -1.
func (s State) GroupIndex(groupID string) int {
	for i, g := range s.Groups {
		if g.ID == groupID {
			return i
		}
	}
	return -1
}

// Group returns a copy of the group with the given ID.
func (s State) Group(groupID string) (models.Group, error) {
	i := s.GroupIndex(groupID)
	if i < 0 {
		return models.Group{}, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	return s.Groups[i].Clone(), nil
}

// Activity returns the activity with the given ID.
func (s State) Activity(id string) (models.Activity, error) {
	for _, a := range s.Activities {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Activity{}, fmt.Errorf("%w: %s", ErrActivityNotFound, id)
}

// MemberCount returns the number of members over all groups.
func (s State) MemberCount() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Members)
	}
	return n
}

// withGroup returns a copy of s where the group at index i is replaced.
func (s State) withGroup(i int, g models.Group) State {
	groups := make([]models.Group, len(s.Groups))
	copy(groups, s.Groups)
	groups[i] = g
	s.Groups = groups
	return s
}

// updateGroup applies fn to the group with the given ID.
func (s State) updateGroup(groupID string, fn func(models.Group) (models.Group, error)) (State, error) {
	i := s.GroupIndex(groupID)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	g, err := fn(s.Groups[i])
	if err != nil {
		return s, err
	}
	return s.withGroup(i, g), nil
}

// AddGroup appends a new group. Group IDs are unique.
func AddGroup(s State, g models.Group) (State, error) {
	if s.GroupIndex(g.ID) >= 0 {
		return s, fmt.Errorf("%w: %s", ErrGroupExists, g.ID)
	}
	groups := make([]models.Group, 0, len(s.Groups)+1)
	groups = append(groups, s.Groups...)
	groups = append(groups, g.Clone())
	s.Groups = groups
	return s, nil
}

// ReplaceGroups swaps the whole group collection.
func ReplaceGroups(s State, groups []models.Group) State {
	s.Groups = models.CloneGroups(groups)
	return s
}

// ToggleAttendance advances one cell through the toggle cycle and returns
// the status it had before.
func ToggleAttendance(s State, groupID, memberID, date string) (State, models.Status, error) {
	var previous models.Status
	next, err := s.updateGroup(groupID, func(g models.Group) (models.Group, error) {
		if !g.HasMember(memberID) {
			return g, fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
		}
		var updated models.Group
		updated, previous = attendance.ToggleStatus(g, memberID, date)
		return updated, nil
	})
	return next, previous, err
}

// SetAttendance writes one cell without checking that the member exists.
func SetAttendance(s State, groupID, memberID, date string, status models.Status) (State, error) {
	return s.updateGroup(groupID, func(g models.Group) (models.Group, error) {
		g.Attendance = g.Attendance.With(memberID, date, status)
		return g, nil
	})
}

// AddMembers appends members to a group, in order.
func AddMembers(s State, groupID string, members ...models.Member) (State, error) {
	return s.updateGroup(groupID, func(g models.Group) (models.Group, error) {
		list := make([]models.Member, 0, len(g.Members)+len(members))
		list = append(list, g.Members...)
		list = append(list, members...)
		g.Members = list
		return g, nil
	})
}

// EditMember replaces the member with the same ID and returns the record it
// replaced.
func EditMember(s State, groupID string, member models.Member) (State, models.Member, error) {
	var previous models.Member
	next, err := s.updateGroup(groupID, func(g models.Group) (models.Group, error) {
		i := g.MemberIndex(member.ID)
		if i < 0 {
			return g, fmt.Errorf("%w: %s", ErrMemberNotFound, member.ID)
		}
		previous = g.Members[i]
		list := models.CloneMembers(g.Members)
		list[i] = member
		g.Members = list
		return g, nil
	})
	return next, previous, err
}

// DeleteMember removes a member and its attendance row. It returns the group
// as it was before, so the caller can capture what undo needs.
func DeleteMember(s State, groupID, memberID string) (State, models.Group, error) {
	var before models.Group
	next, err := s.updateGroup(groupID, func(g models.Group) (models.Group, error) {
		if !g.HasMember(memberID) {
			return g, fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
		}
		before = g.Clone()
		return removeMember(g, memberID), nil
	})
	return next, before, err
}

// RemoveMember removes a member if present. Unlike DeleteMember a missing
// member is not an error; the returned flag reports whether anything changed.
func RemoveMember(s State, groupID, memberID string) (State, bool, error) {
	changed := false
	next, err := s.updateGroup(groupID, func(g models.Group) (models.Group, error) {
		if !g.HasMember(memberID) {
			return g, nil
		}
		changed = true
		return removeMember(g, memberID), nil
	})
	return next, changed, err
}

// RestoreMembers replaces the member list of a group and merges the given
// attendance row of one member back into the table.
func RestoreMembers(s State, groupID string, members []models.Member, memberID string, row map[string]models.Status) (State, error) {
	return s.updateGroup(groupID, func(g models.Group) (models.Group, error) {
		g.Members = models.CloneMembers(members)
		for date, status := range row {
			g.Attendance = g.Attendance.With(memberID, date, status)
		}
		return g, nil
	})
}

func removeMember(g models.Group, memberID string) models.Group {
	list := make([]models.Member, 0, len(g.Members))
	for _, m := range g.Members {
		if m.ID != memberID {
			list = append(list, m)
		}
	}
	g.Members = list
	g.Attendance = g.Attendance.Without(memberID)
	return g
}

// PrependActivity puts a at the head of the log and keeps at most capacity
// entries. It returns the entries that fell off the end.
func PrependActivity(s State, a models.Activity, capacity int) (State, []models.Activity) {
	log := make([]models.Activity, 0, len(s.Activities)+1)
	log = append(log, a)
	log = append(log, s.Activities...)

	var evicted []models.Activity
	if capacity > 0 && len(log) > capacity {
		evicted = log[capacity:]
		log = log[:capacity]
	}
	s.Activities = log
	return s, evicted
}

// RemoveActivity drops the activity with the given ID from the log.
func RemoveActivity(s State, id string) (State, error) {
	log := make([]models.Activity, 0, len(s.Activities))
	found := false
	for _, a := range s.Activities {
		if a.ID == id {
			found = true
			continue
		}
		log = append(log, a)
	}
	if !found {
		return s, fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}
	s.Activities = log
	return s, nil
}

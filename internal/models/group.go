package models

// Member represents one person in a group.
type Member struct {
	// ID is unique within the owning group. Imported members use
	// "<groupID>_<ordinal>", members added later use a UUID.
	ID string `json:"id"`

	// Name is the display name of the member.
	Name string `json:"name"`

	// Phone is a free-form contact number ("N/A" when unknown).
	Phone string `json:"phone"`
}

// Group represents an organizational group and its attendance register.
type Group struct {
	// ID is the globally unique identifier, also used as the storage key.
	ID string `json:"id"`

	// Name is the display name of the group.
	Name string `json:"name"`

	// Leader is the person running the group.
	Leader string `json:"leader"`

	// CoLeader is optional.
	CoLeader string `json:"coLeader"`

	// Period describes the season the register covers
	// (e.g., "JANUARY 2026 - APRIL 2026").
	Period string `json:"period"`

	// Members is the ordered member list. Order is significant: it is the
	// display and export order, and undo restores it exactly.
	Members []Member `json:"members"`

	// Attendance holds the marks for the members of this group.
	Attendance AttendanceTable `json:"attendance"`
}

// MemberIndex returns the position of the member with the given ID, or -1.
func (g *Group) MemberIndex(memberID string) int {
	for i, m := range g.Members {
		if m.ID == memberID {
			return i
		}
	}
	return -1
}

// HasMember reports whether the group has a member with the given ID.
func (g *Group) HasMember(memberID string) bool {
	return g.MemberIndex(memberID) >= 0
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	out := g
	out.Members = CloneMembers(g.Members)
	out.Attendance = g.Attendance.Clone()
	return out
}

// CloneMembers copies a member list. A nil list stays nil.
func CloneMembers(members []Member) []Member {
	if members == nil {
		return nil
	}
	out := make([]Member, len(members))
	copy(out, members)
	return out
}

// CloneGroups deep-copies a group list.
func CloneGroups(groups []Group) []Group {
	if groups == nil {
		return nil
	}
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = g.Clone()
	}
	return out
}

package models

import (
	"encoding/json"
	"fmt"
)

// ActivityKind identifies the mutation an Activity records.
type ActivityKind string

const (
	KindAttendanceChange ActivityKind = "ATTENDANCE_CHANGE"
	KindMemberAdd        ActivityKind = "MEMBER_ADD"
	KindMemberEdit       ActivityKind = "MEMBER_EDIT"
	KindMemberDelete     ActivityKind = "MEMBER_DELETE"
	KindGroupAdd         ActivityKind = "GROUP_ADD"
)

// Activity is one entry of the undo log.
type Activity struct {
	// ID is the unique identifier of the entry (UUID format).
	ID string

	// Timestamp is when the mutation happened, in Unix milliseconds.
	Timestamp int64

	// Kind is the recorded mutation.
	Kind ActivityKind

	// GroupID is the group the mutation touched. The group may no longer
	// exist (or may have been replaced by an import) when the entry is reverted.
	GroupID string

	// Description is a human-readable summary of the mutation.
	Description string

	// Revert carries the data needed to undo the mutation. Its concrete type
	// always matches Kind.
	Revert RevertData
}

// RevertData is the inverse data of one mutation kind. The concrete types
// form a closed set: AttendanceRevert, MemberAddRevert, MemberEditRevert,
// MemberDeleteRevert and GroupAddRevert.
type RevertData interface {
	Kind() ActivityKind
}

// AttendanceRevert restores one attendance cell.
type AttendanceRevert struct {
	MemberID string `json:"memberId"`
	Date     string `json:"date"`
	Previous Status `json:"previousStatus"`
}

// MemberAddRevert removes a member that was added.
type MemberAddRevert struct {
	MemberID string `json:"memberId"`
}

// MemberEditRevert restores the member record as it was before the edit.
type MemberEditRevert struct {
	Previous Member `json:"previousMember"`
}

// MemberDeleteRevert restores the member list as it was before the delete,
// together with the deleted member's attendance row.
type MemberDeleteRevert struct {
	MemberID        string            `json:"memberId"`
	PreviousMembers []Member          `json:"previousMembers"`
	Attendance      map[string]Status `json:"attendance,omitempty"`
}

// GroupAddRevert records a group creation. Group creation has no inverse.
type GroupAddRevert struct{}

func (AttendanceRevert) Kind() ActivityKind   { return KindAttendanceChange }
func (MemberAddRevert) Kind() ActivityKind    { return KindMemberAdd }
func (MemberEditRevert) Kind() ActivityKind   { return KindMemberEdit }
func (MemberDeleteRevert) Kind() ActivityKind { return KindMemberDelete }
func (GroupAddRevert) Kind() ActivityKind     { return KindGroupAdd }

// DecodeRevertData decodes the JSON revert payload of the given kind.
func DecodeRevertData(kind ActivityKind, raw []byte) (RevertData, error) {
	var (
		data RevertData
		err  error
	)
	switch kind {
	case KindAttendanceChange:
		var v AttendanceRevert
		err = unmarshalPayload(raw, &v)
		data = v
	case KindMemberAdd:
		var v MemberAddRevert
		err = unmarshalPayload(raw, &v)
		data = v
	case KindMemberEdit:
		var v MemberEditRevert
		err = unmarshalPayload(raw, &v)
		data = v
	case KindMemberDelete:
		var v MemberDeleteRevert
		err = unmarshalPayload(raw, &v)
		data = v
	case KindGroupAdd:
		data = GroupAddRevert{}
	default:
		return nil, fmt.Errorf("unknown activity type %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s revert data: %w", kind, err)
	}
	return data, nil
}

func unmarshalPayload(raw []byte, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

type activityJSON struct {
	ID          string          `json:"id"`
	Timestamp   int64           `json:"timestamp"`
	Type        ActivityKind    `json:"type"`
	GroupID     string          `json:"groupId"`
	Description string          `json:"description"`
	RevertData  json.RawMessage `json:"revertData,omitempty"`
}

// MarshalJSON encodes the activity with its revert data keyed by "type".
func (a Activity) MarshalJSON() ([]byte, error) {
	out := activityJSON{
		ID:          a.ID,
		Timestamp:   a.Timestamp,
		Type:        a.Kind,
		GroupID:     a.GroupID,
		Description: a.Description,
	}
	if a.Revert != nil {
		if a.Revert.Kind() != a.Kind {
			return nil, fmt.Errorf("activity %s: revert data is %s, want %s", a.ID, a.Revert.Kind(), a.Kind)
		}
		raw, err := json.Marshal(a.Revert)
		if err != nil {
			return nil, err
		}
		out.RevertData = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an activity, dispatching the revert data on "type".
func (a *Activity) UnmarshalJSON(b []byte) error {
	var in activityJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	revert, err := DecodeRevertData(in.Type, in.RevertData)
	if err != nil {
		return err
	}
	*a = Activity{
		ID:          in.ID,
		Timestamp:   in.Timestamp,
		Kind:        in.Type,
		GroupID:     in.GroupID,
		Description: in.Description,
		Revert:      revert,
	}
	return nil
}

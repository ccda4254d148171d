// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/rollbook/internal/models"
)

// Store defines the record store for groups and the activity log.
// This abstraction allows swapping storage backends (SQLite, Redis)
// without changing the tracker.
//
// Writes are point updates of data the caller already holds in memory;
// a failed write is reported but the store is never the source of truth
// for the running process.
type Store interface {
	// FetchGroups returns every group with its members (in order) and
	// attendance table.
	FetchGroups(ctx context.Context) ([]models.Group, error)

	// FetchActivities returns up to limit activities, most recent first.
	FetchActivities(ctx context.Context, limit int) ([]models.Activity, error)

	// WriteAttendance sets one attendance cell. StatusUnmarked clears it.
	WriteAttendance(ctx context.Context, groupID, memberID, date string, status models.Status) error

	// WriteMembers replaces the member list of a group.
	WriteMembers(ctx context.Context, groupID string, members []models.Member) error

	// AddGroup persists a new group.
	AddGroup(ctx context.Context, group models.Group) error

	// DeleteMember stores the remaining member list and drops the
	// attendance row of the deleted member.
	DeleteMember(ctx context.Context, groupID, memberID string, remaining []models.Member) error

	// ReplaceGroups atomically replaces the whole group collection.
	ReplaceGroups(ctx context.Context, groups []models.Group) error

	// AppendActivity persists a new activity.
	AppendActivity(ctx context.Context, activity models.Activity) error

	// RemoveActivity deletes an activity. Removing an unknown ID is not an error.
	RemoveActivity(ctx context.Context, id string) error

	// PruneActivities keeps the keep most recent activities and deletes the rest.
	PruneActivities(ctx context.Context, keep int) error

	// Close releases any resources held by the store.
	Close() error
}

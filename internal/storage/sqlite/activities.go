package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mmynk/rollbook/internal/models"
)

// FetchActivities retrieves up to limit activities, most recent first.
func (s *SQLiteStore) FetchActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, type, group_id, description, revert_data
		 FROM activities ORDER BY timestamp DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		var kind string
		var revertData sql.NullString
		if err := rows.Scan(&a.ID, &a.Timestamp, &kind, &a.GroupID, &a.Description, &revertData); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.Kind = models.ActivityKind(kind)

		a.Revert, err = models.DecodeRevertData(a.Kind, []byte(revertData.String))
		if err != nil {
			return nil, fmt.Errorf("activity %s: %w", a.ID, err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}
	return activities, nil
}

// AppendActivity persists a new activity.
func (s *SQLiteStore) AppendActivity(ctx context.Context, a models.Activity) error {
	var revertData any
	if a.Revert != nil {
		raw, err := json.Marshal(a.Revert)
		if err != nil {
			return fmt.Errorf("failed to encode revert data: %w", err)
		}
		revertData = string(raw)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activities (id, timestamp, type, group_id, description, revert_data)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Timestamp, string(a.Kind), a.GroupID, a.Description, revertData,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// RemoveActivity deletes an activity by ID.
func (s *SQLiteStore) RemoveActivity(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM activities WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}

// PruneActivities keeps only the keep most recent activities.
func (s *SQLiteStore) PruneActivities(ctx context.Context, keep int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM activities WHERE id NOT IN (
		     SELECT id FROM activities ORDER BY timestamp DESC, rowid DESC LIMIT ?
		 )`,
		keep,
	)
	if err != nil {
		return fmt.Errorf("failed to prune activities: %w", err)
	}
	return nil
}

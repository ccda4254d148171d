package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/rollbook/internal/models"
)

// FetchGroups retrieves all groups in creation order, including members and attendance.
func (s *SQLiteStore) FetchGroups(ctx context.Context) ([]models.Group, error) {
	groups, err := s.listGroups(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(groups))
	for i := range groups {
		index[groups[i].ID] = i
	}

	if err := s.loadMembers(ctx, groups, index); err != nil {
		return nil, err
	}
	if err := s.loadAttendance(ctx, groups, index); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *SQLiteStore) listGroups(ctx context.Context) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, leader, co_leader, period FROM groups ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		g := models.Group{Attendance: models.AttendanceTable{}}
		if err := rows.Scan(&g.ID, &g.Name, &g.Leader, &g.CoLeader, &g.Period); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

func (s *SQLiteStore) loadMembers(ctx context.Context, groups []models.Group, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, id, name, phone FROM members ORDER BY group_id, position",
	)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID string
		var m models.Member
		if err := rows.Scan(&groupID, &m.ID, &m.Name, &m.Phone); err != nil {
			return fmt.Errorf("failed to scan member: %w", err)
		}
		if i, ok := index[groupID]; ok {
			groups[i].Members = append(groups[i].Members, m)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate members: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadAttendance(ctx context.Context, groups []models.Group, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, member_id, date, status FROM attendance",
	)
	if err != nil {
		return fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID, memberID, date, status string
		if err := rows.Scan(&groupID, &memberID, &date, &status); err != nil {
			return fmt.Errorf("failed to scan attendance: %w", err)
		}
		i, ok := index[groupID]
		if !ok {
			continue
		}
		row := groups[i].Attendance[memberID]
		if row == nil {
			row = make(map[string]models.Status)
			groups[i].Attendance[memberID] = row
		}
		row[date] = models.ParseStatus(status)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return nil
}

// WriteAttendance upserts one attendance cell; StatusUnmarked deletes it.
func (s *SQLiteStore) WriteAttendance(ctx context.Context, groupID, memberID, date string, status models.Status) error {
	if !status.Marked() {
		_, err := s.db.ExecContext(ctx,
			"DELETE FROM attendance WHERE group_id = ? AND member_id = ? AND date = ?",
			groupID, memberID, date,
		)
		if err != nil {
			return fmt.Errorf("failed to clear attendance: %w", err)
		}
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (group_id, member_id, date, status) VALUES (?, ?, ?, ?)
		 ON CONFLICT (group_id, member_id, date) DO UPDATE SET status = excluded.status`,
		groupID, memberID, date, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to write attendance: %w", err)
	}
	return nil
}

// WriteMembers replaces the member list of a group.
func (s *SQLiteStore) WriteMembers(ctx context.Context, groupID string, members []models.Member) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireGroup(ctx, tx, groupID); err != nil {
			return err
		}
		return replaceMembers(ctx, tx, groupID, members)
	})
}

// DeleteMember stores the remaining members and drops the deleted member's attendance.
func (s *SQLiteStore) DeleteMember(ctx context.Context, groupID, memberID string, remaining []models.Member) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireGroup(ctx, tx, groupID); err != nil {
			return err
		}
		if err := replaceMembers(ctx, tx, groupID, remaining); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"DELETE FROM attendance WHERE group_id = ? AND member_id = ?",
			groupID, memberID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete member attendance: %w", err)
		}
		return nil
	})
}

// AddGroup persists a new group after the existing ones.
func (s *SQLiteStore) AddGroup(ctx context.Context, group models.Group) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var position int
		err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position) + 1, 0) FROM groups").Scan(&position)
		if err != nil {
			return fmt.Errorf("failed to compute group position: %w", err)
		}
		return insertGroup(ctx, tx, group, position)
	})
}

// ReplaceGroups deletes every group and inserts the given ones in a single transaction.
func (s *SQLiteStore) ReplaceGroups(ctx context.Context, groups []models.Group) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		// Members and attendance cascade
		if _, err := tx.ExecContext(ctx, "DELETE FROM groups"); err != nil {
			return fmt.Errorf("failed to clear groups: %w", err)
		}
		for i, g := range groups {
			if err := insertGroup(ctx, tx, g, i); err != nil {
				return err
			}
		}
		return nil
	})
}

func requireGroup(ctx context.Context, db execer, groupID string) error {
	var exists int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("group not found: %s", groupID)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	return nil
}

func insertGroup(ctx context.Context, db execer, g models.Group, position int) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO groups (id, name, leader, co_leader, period, position) VALUES (?, ?, ?, ?, ?, ?)",
		g.ID, g.Name, g.Leader, g.CoLeader, g.Period, position,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group %s: %w", g.ID, err)
	}

	if err := insertMembers(ctx, db, g.ID, g.Members); err != nil {
		return err
	}

	for memberID, row := range g.Attendance {
		for date, status := range row {
			if !status.Marked() {
				continue
			}
			_, err := db.ExecContext(ctx,
				"INSERT INTO attendance (group_id, member_id, date, status) VALUES (?, ?, ?, ?)",
				g.ID, memberID, date, string(status),
			)
			if err != nil {
				return fmt.Errorf("failed to insert attendance: %w", err)
			}
		}
	}
	return nil
}

func replaceMembers(ctx context.Context, db execer, groupID string, members []models.Member) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM members WHERE group_id = ?", groupID); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}
	return insertMembers(ctx, db, groupID, members)
}

func insertMembers(ctx context.Context, db execer, groupID string, members []models.Member) error {
	for i, m := range members {
		_, err := db.ExecContext(ctx,
			"INSERT INTO members (group_id, id, name, phone, position) VALUES (?, ?, ?, ?, ?)",
			groupID, m.ID, m.Name, m.Phone, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member %s: %w", m.ID, err)
		}
	}
	return nil
}

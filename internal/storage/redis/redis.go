// Package redis provides a Redis-backed implementation of the storage.Store
// interface. Group fields and members are stored as one JSON document each;
// attendance lives in a per-group hash with one field per cell, so writes to
// different cells never conflict.
//
// Key layout (prefix defaults to "rollbook"):
//
//	<prefix>:groups            sorted set of group IDs, scored by creation sequence
//	<prefix>:groups:seq        counter for the creation sequence
//	<prefix>:group:<id>        group JSON document without attendance
//	<prefix>:attendance:<id>   hash of "<memberID>|<date>" -> "P" or "A"
//	<prefix>:activities        sorted set of activity IDs, scored by append sequence
//	<prefix>:activities:seq    counter for the append sequence
//	<prefix>:activity:<id>     activity JSON document
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/storage"
)

// DefaultPrefix namespaces all keys written by the store.
const DefaultPrefix = "rollbook"

// maxRetries bounds optimistic transactions that keep losing to concurrent writers.
const maxRetries = 100

// Ensure RedisStore implements storage.Store
var _ storage.Store = (*RedisStore)(nil)

// RedisStore implements storage.Store on top of Redis.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// New connects to the Redis server at addr and verifies the connection.
func New(ctx context.Context, addr string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	slog.Info("Connected to Redis", "addr", addr)
	return NewWithClient(rdb, DefaultPrefix), nil
}

// NewWithClient wraps an existing client. The store takes ownership of rdb.
func NewWithClient(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) groupsKey() string              { return s.prefix + ":groups" }
func (s *RedisStore) groupSeqKey() string            { return s.prefix + ":groups:seq" }
func (s *RedisStore) groupKey(id string) string      { return s.prefix + ":group:" + id }
func (s *RedisStore) attendanceKey(id string) string { return s.prefix + ":attendance:" + id }
func (s *RedisStore) activitiesKey() string          { return s.prefix + ":activities" }
func (s *RedisStore) activitySeqKey() string         { return s.prefix + ":activities:seq" }
func (s *RedisStore) activityKey(id string) string   { return s.prefix + ":activity:" + id }

// cellField is the attendance hash field of one cell. Dates never contain
// the separator, so the last "|" splits the field.
func cellField(memberID, date string) string {
	return memberID + "|" + date
}

func splitCellField(field string) (memberID, date string, ok bool) {
	i := strings.LastIndexByte(field, '|')
	if i < 0 {
		return "", "", false
	}
	return field[:i], field[i+1:], true
}

// attendanceFields flattens a table into hash fields.
func attendanceFields(table models.AttendanceTable) map[string]any {
	fields := make(map[string]any)
	for memberID, row := range table {
		for date, status := range row {
			if status.Marked() {
				fields[cellField(memberID, date)] = string(status)
			}
		}
	}
	return fields
}

// encodeGroup marshals the group document. Attendance is kept in its own hash.
func encodeGroup(g models.Group) ([]byte, error) {
	g.Attendance = nil
	doc, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to encode group %s: %w", g.ID, err)
	}
	return doc, nil
}

// watch runs fn as an optimistic transaction on keys, retrying while another
// client modifies them first.
func (s *RedisStore) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < maxRetries; i++ {
		err := s.rdb.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("transaction on %v kept conflicting: %w", keys, redis.TxFailedErr)
}

// FetchGroups retrieves all groups in creation order.
func (s *RedisStore) FetchGroups(ctx context.Context) ([]models.Group, error) {
	ids, err := s.rdb.ZRange(ctx, s.groupsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.groupKey(id)
	}
	docs, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}

	groups := make([]models.Group, 0, len(docs))
	for i, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			slog.Warn("Group listed but missing", "group_id", ids[i])
			continue
		}
		var g models.Group
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			return nil, fmt.Errorf("failed to decode group %s: %w", ids[i], err)
		}
		groups = append(groups, g)
	}

	cmds := make([]*redis.MapStringStringCmd, len(groups))
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, g := range groups {
			cmds[i] = pipe.HGetAll(ctx, s.attendanceKey(g.ID))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	for i := range groups {
		table := models.AttendanceTable{}
		for field, value := range cmds[i].Val() {
			memberID, date, ok := splitCellField(field)
			status := models.ParseStatus(value)
			if !ok || !status.Marked() {
				slog.Warn("Skipping malformed attendance field", "group_id", groups[i].ID, "field", field)
				continue
			}
			if table[memberID] == nil {
				table[memberID] = make(map[string]models.Status)
			}
			table[memberID][date] = status
		}
		groups[i].Attendance = table
	}
	return groups, nil
}

// WriteAttendance sets one field of the group's attendance hash. Only the
// group document is watched, so writes to other cells never conflict.
func (s *RedisStore) WriteAttendance(ctx context.Context, groupID, memberID, date string, status models.Status) error {
	key := s.groupKey(groupID)
	return s.watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to check group: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("group not found: %s", groupID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			field := cellField(memberID, date)
			if status.Marked() {
				pipe.HSet(ctx, s.attendanceKey(groupID), field, string(status))
			} else {
				pipe.HDel(ctx, s.attendanceKey(groupID), field)
			}
			return nil
		})
		return err
	}, key)
}

// WriteMembers replaces the member list of a group document.
func (s *RedisStore) WriteMembers(ctx context.Context, groupID string, members []models.Member) error {
	return s.updateGroup(ctx, groupID, func(g *models.Group) {
		g.Members = models.CloneMembers(members)
	}, nil)
}

// DeleteMember stores the remaining members and drops the deleted member's attendance.
func (s *RedisStore) DeleteMember(ctx context.Context, groupID, memberID string, remaining []models.Member) error {
	attKey := s.attendanceKey(groupID)
	return s.updateGroup(ctx, groupID, func(g *models.Group) {
		g.Members = models.CloneMembers(remaining)
	}, func(ctx context.Context, tx *redis.Tx) (func(redis.Pipeliner), error) {
		fields, err := tx.HKeys(ctx, attKey).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to list attendance: %w", err)
		}
		var stale []string
		for _, f := range fields {
			if id, _, ok := splitCellField(f); ok && id == memberID {
				stale = append(stale, f)
			}
		}
		return func(pipe redis.Pipeliner) {
			if len(stale) > 0 {
				pipe.HDel(ctx, attKey, stale...)
			}
		}, nil
	}, attKey)
}

// extraWrite reads inside the watch and returns writes queued with the
// document update.
type extraWrite func(ctx context.Context, tx *redis.Tx) (func(redis.Pipeliner), error)

// updateGroup performs an optimistic read-modify-write of one group document,
// retried on conflict. extra and its watched keys are optional.
func (s *RedisStore) updateGroup(ctx context.Context, groupID string, fn func(g *models.Group), extra extraWrite, extraKeys ...string) error {
	key := s.groupKey(groupID)
	return s.watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("group not found: %s", groupID)
		}
		if err != nil {
			return fmt.Errorf("failed to get group: %w", err)
		}

		var g models.Group
		if err := json.Unmarshal(raw, &g); err != nil {
			return fmt.Errorf("failed to decode group %s: %w", groupID, err)
		}
		fn(&g)

		doc, err := encodeGroup(g)
		if err != nil {
			return err
		}

		var queue func(redis.Pipeliner)
		if extra != nil {
			if queue, err = extra(ctx, tx); err != nil {
				return err
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, doc, 0)
			if queue != nil {
				queue(pipe)
			}
			return nil
		})
		return err
	}, append([]string{key}, extraKeys...)...)
}

// AddGroup stores a new group document after the existing ones.
func (s *RedisStore) AddGroup(ctx context.Context, group models.Group) error {
	doc, err := encodeGroup(group)
	if err != nil {
		return err
	}

	seq, err := s.rdb.Incr(ctx, s.groupSeqKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate group position: %w", err)
	}

	created, err := s.rdb.SetNX(ctx, s.groupKey(group.ID), doc, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to insert group %s: %w", group.ID, err)
	}
	if !created {
		return fmt.Errorf("group already exists: %s", group.ID)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.attendanceKey(group.ID))
		if fields := attendanceFields(group.Attendance); len(fields) > 0 {
			pipe.HSet(ctx, s.attendanceKey(group.ID), fields)
		}
		pipe.ZAdd(ctx, s.groupsKey(), redis.Z{Score: float64(seq), Member: group.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index group %s: %w", group.ID, err)
	}
	return nil
}

// ReplaceGroups swaps every group document in one MULTI/EXEC block.
func (s *RedisStore) ReplaceGroups(ctx context.Context, groups []models.Group) error {
	oldIDs, err := s.rdb.ZRange(ctx, s.groupsKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}

	docs := make([][]byte, len(groups))
	for i, g := range groups {
		if docs[i], err = encodeGroup(g); err != nil {
			return err
		}
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range oldIDs {
			pipe.Del(ctx, s.groupKey(id), s.attendanceKey(id))
		}
		pipe.Del(ctx, s.groupsKey())
		for i, g := range groups {
			pipe.Set(ctx, s.groupKey(g.ID), docs[i], 0)
			pipe.Del(ctx, s.attendanceKey(g.ID))
			if fields := attendanceFields(g.Attendance); len(fields) > 0 {
				pipe.HSet(ctx, s.attendanceKey(g.ID), fields)
			}
			pipe.ZAdd(ctx, s.groupsKey(), redis.Z{Score: float64(i + 1), Member: g.ID})
		}
		pipe.Set(ctx, s.groupSeqKey(), len(groups), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace groups: %w", err)
	}
	return nil
}

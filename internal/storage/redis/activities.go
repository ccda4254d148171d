package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/mmynk/rollbook/internal/models"
)

// FetchActivities retrieves up to limit activities, most recent first.
func (s *RedisStore) FetchActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		return nil, nil
	}
	ids, err := s.rdb.ZRevRange(ctx, s.activitiesKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.activityKey(id)
	}
	docs, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}

	activities := make([]models.Activity, 0, len(docs))
	for i, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			slog.Warn("Activity listed but missing", "activity_id", ids[i])
			continue
		}
		var a models.Activity
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("failed to decode activity %s: %w", ids[i], err)
		}
		activities = append(activities, a)
	}
	return activities, nil
}

// AppendActivity stores an activity document and indexes it by append order.
// Entries recorded within the same millisecond keep their relative order.
func (s *RedisStore) AppendActivity(ctx context.Context, a models.Activity) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode activity: %w", err)
	}

	seq, err := s.rdb.Incr(ctx, s.activitySeqKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate activity position: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.activityKey(a.ID), doc, 0)
		pipe.ZAdd(ctx, s.activitiesKey(), redis.Z{Score: float64(seq), Member: a.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// RemoveActivity deletes an activity document and its index entry.
func (s *RedisStore) RemoveActivity(ctx context.Context, id string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.activityKey(id))
		pipe.ZRem(ctx, s.activitiesKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}

// PruneActivities deletes everything but the keep most recent activities.
func (s *RedisStore) PruneActivities(ctx context.Context, keep int) error {
	stale, err := s.rdb.ZRevRange(ctx, s.activitiesKey(), int64(keep), -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list stale activities: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range stale {
			pipe.Del(ctx, s.activityKey(id))
			pipe.ZRem(ctx, s.activitiesKey(), id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to prune activities: %w", err)
	}
	return nil
}

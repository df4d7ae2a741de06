// Package redis provides a Redis-backed RunStore with optional TTL expiry.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/dagflow/store"
)

// RedisRunStore implements store.RunStore using Redis. Records are stored
// as JSON values and indexed per graph name in a set.
type RedisRunStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ store.RunStore = (*RedisRunStore)(nil)

// RedisOptions configuration for the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "dagflow:"
	TTL      time.Duration // Expiration for records, default 0 (no expiration)
}

// NewRedisRunStore creates a new Redis run store.
func NewRedisRunStore(opts RedisOptions) *RedisRunStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "dagflow:"
	}

	return &RedisRunStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

func (s *RedisRunStore) runKey(id string) string {
	return fmt.Sprintf("%srun:%s", s.prefix, id)
}

func (s *RedisRunStore) graphKey(name string) string {
	return fmt.Sprintf("%sgraph:%s:runs", s.prefix, name)
}

// Save stores a record, replacing any record with the same ID.
func (s *RedisRunStore) Save(ctx context.Context, record *store.RunRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.runKey(record.ID), data, s.ttl)

	if record.Graph != "" {
		graphKey := s.graphKey(record.Graph)
		pipe.SAdd(ctx, graphKey, record.ID)
		if s.ttl > 0 {
			pipe.Expire(ctx, graphKey, s.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run record to redis: %w", err)
	}
	return nil
}

// Load retrieves a record by run ID.
func (s *RedisRunStore) Load(ctx context.Context, runID string) (*store.RunRecord, error) {
	data, err := s.client.Get(ctx, s.runKey(runID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("run record not found: %s", runID)
		}
		return nil, fmt.Errorf("failed to load run record from redis: %w", err)
	}

	var record store.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
	}
	return &record, nil
}

// List returns all records for a graph name.
func (s *RedisRunStore) List(ctx context.Context, graphName string) ([]*store.RunRecord, error) {
	ids, err := s.client.SMembers(ctx, s.graphKey(graphName)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs for graph %s: %w", graphName, err)
	}
	if len(ids) == 0 {
		return []*store.RunRecord{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.runKey(id))
	}

	// MGet returns nil for keys that expired; those are skipped.
	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run records: %w", err)
	}

	var records []*store.RunRecord
	for _, result := range results {
		if result == nil {
			continue
		}
		strData, ok := result.(string)
		if !ok {
			continue
		}
		var record store.RunRecord
		if err := json.Unmarshal([]byte(strData), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}
	return records, nil
}

// Delete removes a record.
func (s *RedisRunStore) Delete(ctx context.Context, runID string) error {
	record, err := s.Load(ctx, runID)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.runKey(runID))
	if record.Graph != "" {
		pipe.SRem(ctx, s.graphKey(record.Graph), runID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}

// Clear removes all records for a graph name.
func (s *RedisRunStore) Clear(ctx context.Context, graphName string) error {
	graphKey := s.graphKey(graphName)
	ids, err := s.client.SMembers(ctx, graphKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get run records for clearing: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.runKey(id))
	}
	pipe.Del(ctx, graphKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear run records: %w", err)
	}
	return nil
}

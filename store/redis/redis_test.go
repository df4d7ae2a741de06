package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/dagflow/store"
)

func testStore(t *testing.T, opts RedisOptions) (*RedisRunStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	opts.Addr = mr.Addr()
	return NewRedisRunStore(opts), mr
}

func sampleRecord(id, graph string) *store.RunRecord {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &store.RunRecord{
		ID:         id,
		Graph:      graph,
		Input:      "hello",
		Output:     "HELLO",
		Status:     store.StatusCompleted,
		StartedAt:  now.Add(-time.Second),
		FinishedAt: now,
	}
}

func TestRedisRunStore_SaveLoad(t *testing.T) {
	s, _ := testStore(t, RedisOptions{})
	ctx := context.Background()

	rec := sampleRecord("run-1", "translate")
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Graph, got.Graph)
	assert.Equal(t, rec.Status, got.Status)
	assert.Equal(t, "HELLO", got.Output)
	assert.True(t, rec.FinishedAt.Equal(got.FinishedAt))
}

func TestRedisRunStore_LoadMissing(t *testing.T) {
	s, _ := testStore(t, RedisOptions{})

	_, err := s.Load(context.Background(), "nope")
	assert.ErrorContains(t, err, "not found")
}

func TestRedisRunStore_KeyPrefix(t *testing.T) {
	s, mr := testStore(t, RedisOptions{Prefix: "custom:"})
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleRecord("run-1", "translate")))

	assert.True(t, mr.Exists("custom:run:run-1"))
	assert.True(t, mr.Exists("custom:graph:translate:runs"))
}

func TestRedisRunStore_List(t *testing.T) {
	s, _ := testStore(t, RedisOptions{})
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleRecord("run-1", "translate")))
	require.NoError(t, s.Save(ctx, sampleRecord("run-2", "translate")))
	require.NoError(t, s.Save(ctx, sampleRecord("run-3", "summarize")))

	records, err := s.List(ctx, "translate")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = s.List(ctx, "absent")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRedisRunStore_ListSkipsExpired(t *testing.T) {
	s, mr := testStore(t, RedisOptions{TTL: time.Minute})
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleRecord("run-1", "translate")))
	require.NoError(t, s.Save(ctx, sampleRecord("run-2", "translate")))

	// Expire one record but leave its ID in the graph index.
	mr.Del(s.runKey("run-1"))

	records, err := s.List(ctx, "translate")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "run-2", records[0].ID)
}

func TestRedisRunStore_TTLExpiry(t *testing.T) {
	s, mr := testStore(t, RedisOptions{TTL: time.Minute})
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleRecord("run-1", "translate")))

	mr.FastForward(2 * time.Minute)

	_, err := s.Load(ctx, "run-1")
	assert.ErrorContains(t, err, "not found")
}

func TestRedisRunStore_Delete(t *testing.T) {
	s, mr := testStore(t, RedisOptions{})
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleRecord("run-1", "translate")))
	require.NoError(t, s.Delete(ctx, "run-1"))

	_, err := s.Load(ctx, "run-1")
	assert.Error(t, err)

	// The graph index must not keep the deleted ID.
	assert.False(t, mr.Exists(s.graphKey("translate")))
}

func TestRedisRunStore_Clear(t *testing.T) {
	s, mr := testStore(t, RedisOptions{})
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleRecord("run-1", "translate")))
	require.NoError(t, s.Save(ctx, sampleRecord("run-2", "translate")))
	require.NoError(t, s.Save(ctx, sampleRecord("run-3", "summarize")))

	require.NoError(t, s.Clear(ctx, "translate"))

	records, err := s.List(ctx, "translate")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.False(t, mr.Exists(s.graphKey("translate")))

	got, err := s.Load(ctx, "run-3")
	require.NoError(t, err)
	assert.Equal(t, "summarize", got.Graph)
}

func TestRedisRunStore_ClearEmptyGraph(t *testing.T) {
	s, _ := testStore(t, RedisOptions{})

	assert.NoError(t, s.Clear(context.Background(), "absent"))
}

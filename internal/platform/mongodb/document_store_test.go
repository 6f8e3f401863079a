package mongodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/phrazzld/taskmanager-api/internal/ciutil"
	"github.com/phrazzld/taskmanager-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// setupTestStore connects to the test server and returns a store bound to a
// throwaway database that is dropped when the test finishes.
func setupTestStore(t *testing.T) *DocumentStore {
	t.Helper()

	uri := ciutil.BackendURL(t, ciutil.EnvTestMongoURL)

	ctx := context.Background()
	client, err := Connect(ctx, uri, nil)
	require.NoError(t, err)

	db := client.Database(fmt.Sprintf("taskapi_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	require.NoError(t, EnsureIndexes(ctx, db, "task"))
	return NewDocumentStore(db, nil)
}

func TestDocumentStoreLifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "task", store.Document{"title": "Write report", "status": "pending"})
	require.NoError(t, err)

	id := created.ID()
	require.NotEmpty(t, id)
	assert.Equal(t, "Write report", created["title"])
	assert.Equal(t, created[store.FieldCreatedAt], created[store.FieldUpdatedAt])
	_, isTime := created[store.FieldCreatedAt].(time.Time)
	assert.True(t, isTime, "timestamps should leave the gateway as time.Time")

	updated, err := s.Update(ctx, "task", id, store.Document{"status": "done", "created_at": "tampered"})
	require.NoError(t, err)
	assert.Equal(t, "done", updated["status"])
	assert.Equal(t, "Write report", updated["title"], "absent fields stay untouched")
	assert.Equal(t, created[store.FieldCreatedAt], updated[store.FieldCreatedAt])
	assert.False(t,
		updated[store.FieldUpdatedAt].(time.Time).Before(created[store.FieldUpdatedAt].(time.Time)))

	deleted, err := s.Delete(ctx, "task", id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Delete(ctx, "task", id)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.Update(ctx, "task", id, store.Document{"status": "done"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDocumentStoreUpdateNeverMovesUpdatedAtBackwards(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "task", store.Document{"title": "Clock skew"})
	require.NoError(t, err)

	oid, err := primitive.ObjectIDFromHex(created.ID())
	require.NoError(t, err)
	future := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
	_, err = s.db.Collection("task").UpdateOne(ctx,
		bson.M{"_id": oid}, bson.M{"$set": bson.M{store.FieldUpdatedAt: future}})
	require.NoError(t, err)

	updated, err := s.Update(ctx, "task", created.ID(), store.Document{"title": "$literal title"})
	require.NoError(t, err)
	updatedAt, ok := updated[store.FieldUpdatedAt].(time.Time)
	require.True(t, ok)
	assert.True(t, future.Equal(updatedAt), "updated_at %v moved back from %v", updatedAt, future)
	assert.Equal(t, "$literal title", updated["title"])
}

func TestDocumentStoreListFilterAndOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, doc := range []store.Document{
		{"title": "first", "status": "done", "focus": "low"},
		{"title": "second", "status": "pending", "focus": "high", "description": "Call the BANK"},
		{"title": "third", "status": "done", "focus": "high"},
	} {
		_, err := s.Create(ctx, "task", doc)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	all, err := s.List(ctx, "task", store.Filter{}, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0]["title"], "newest first")

	done, err := s.List(ctx, "task", store.Filter{Equal: map[string]any{"status": "done", "focus": "high"}}, 0)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "third", done[0]["title"])

	found, err := s.List(ctx, "task", store.Filter{
		Contains: &store.Contains{Fields: []string{"title", "description"}, Term: "bank"},
	}, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "second", found[0]["title"])

	limited, err := s.List(ctx, "task", store.Filter{}, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDocumentStoreInvalidID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "task", "not-an-id", store.Document{"title": "x"})
	assert.ErrorIs(t, err, store.ErrInvalidID)

	ok, err := s.Delete(ctx, "task", "not-an-id")
	assert.ErrorIs(t, err, store.ErrInvalidID)
	assert.False(t, ok)

	_, err = s.Update(ctx, "task", primitive.NewObjectID().Hex(), store.Document{"title": "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNewDocumentStorePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewDocumentStore((*mongo.Database)(nil), nil) })
}

package mongodb

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentStore implements the store.DocumentStore interface
// using a MongoDB database as the storage backend.
type DocumentStore struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewDocumentStore creates a new MongoDB implementation of the DocumentStore interface.
// It accepts a database handle that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewDocumentStore(db *mongo.Database, logger *slog.Logger) *DocumentStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "mongo_document_store")),
	}
}

// Ensure DocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*DocumentStore)(nil)

// Create implements store.DocumentStore.Create.
// The inserted document is read back so the caller receives exactly what was persisted.
func (s *DocumentStore) Create(ctx context.Context, collection string, fields store.Document) (store.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := store.Now()
	data := bson.M{}
	for k, v := range store.MutableFields(fields) {
		data[k] = v
	}
	data[store.FieldCreatedAt] = now
	data[store.FieldUpdatedAt] = now

	coll := s.db.Collection(collection)
	res, err := coll.InsertOne(ctx, data)
	if err != nil {
		log.Error("failed to insert document",
			slog.String("collection", collection),
			slog.String("error", err.Error()))
		return nil, MapError(collection, "create", err)
	}

	var created bson.M
	if err := coll.FindOne(ctx, bson.M{"_id": res.InsertedID}).Decode(&created); err != nil {
		log.Error("failed to read back inserted document",
			slog.String("collection", collection),
			slog.String("error", err.Error()))
		// Not-found here means the write did not stick; report it as a storage failure.
		return nil, store.NewStoreError(collection, "create", "inserted document not readable", err)
	}

	doc := toDocument(created)
	log.Debug("document created",
		slog.String("collection", collection),
		slog.String("id", doc.ID()))
	return doc, nil
}

// List implements store.DocumentStore.List.
func (s *DocumentStore) List(
	ctx context.Context,
	collection string,
	filter store.Filter,
	limit int,
) ([]store.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	opts := options.Find().
		SetSort(bson.D{{Key: store.FieldCreatedAt, Value: -1}}).
		SetLimit(int64(store.NormalizeLimit(limit)))

	cur, err := s.db.Collection(collection).Find(ctx, buildQuery(filter), opts)
	if err != nil {
		log.Error("failed to query documents",
			slog.String("collection", collection),
			slog.String("error", err.Error()))
		return nil, MapError(collection, "list", err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			log.Warn("failed to close cursor", slog.String("error", cerr.Error()))
		}
	}()

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		log.Error("failed to decode documents",
			slog.String("collection", collection),
			slog.String("error", err.Error()))
		return nil, MapError(collection, "list", err)
	}

	docs := make([]store.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, toDocument(m))
	}

	log.Debug("documents listed",
		slog.String("collection", collection),
		slog.Int("count", len(docs)))
	return docs, nil
}

// Update implements store.DocumentStore.Update.
func (s *DocumentStore) Update(
	ctx context.Context,
	collection, id string,
	fields store.Document,
) (store.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oid, err := parseObjectID(id)
	if err != nil {
		log.Debug("rejecting malformed document id", slog.String("id", id))
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated bson.M
	err = s.db.Collection(collection).
		FindOneAndUpdate(ctx, bson.M{"_id": oid}, buildUpdate(fields, store.Now()), opts).
		Decode(&updated)
	if err != nil {
		mapped := MapError(collection, "update", err)
		if errors.Is(mapped, store.ErrNotFound) {
			log.Debug("document not found for update",
				slog.String("collection", collection),
				slog.String("id", id))
		} else {
			log.Error("failed to update document",
				slog.String("collection", collection),
				slog.String("id", id),
				slog.String("error", err.Error()))
		}
		return nil, mapped
	}

	log.Debug("document updated",
		slog.String("collection", collection),
		slog.String("id", id))
	return toDocument(updated), nil
}

// Delete implements store.DocumentStore.Delete.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oid, err := parseObjectID(id)
	if err != nil {
		log.Debug("rejecting malformed document id", slog.String("id", id))
		return false, err
	}

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		log.Error("failed to delete document",
			slog.String("collection", collection),
			slog.String("id", id),
			slog.String("error", err.Error()))
		return false, MapError(collection, "delete", err)
	}

	deleted := res.DeletedCount == 1
	log.Debug("document delete finished",
		slog.String("collection", collection),
		slog.String("id", id),
		slog.Bool("deleted", deleted))
	return deleted, nil
}

// buildUpdate returns an update pipeline that merges fields and moves
// updated_at forward to now, never backwards. Values are wrapped in $literal
// so strings starting with "$" are stored verbatim instead of read as paths.
func buildUpdate(fields store.Document, now time.Time) mongo.Pipeline {
	set := bson.M{}
	for k, v := range store.MutableFields(fields) {
		set[k] = bson.M{"$literal": v}
	}
	set[store.FieldUpdatedAt] = bson.M{
		"$max": bson.A{"$" + store.FieldUpdatedAt, now},
	}
	return mongo.Pipeline{{{Key: "$set", Value: set}}}
}

// buildQuery translates a store.Filter into a MongoDB query document.
func buildQuery(filter store.Filter) bson.M {
	query := bson.M{}
	for k, v := range filter.Equal {
		query[k] = v
	}

	if c := filter.Contains; c != nil && c.Term != "" && len(c.Fields) > 0 {
		pattern := regexp.QuoteMeta(c.Term)
		or := make(bson.A, 0, len(c.Fields))
		for _, field := range c.Fields {
			or = append(or, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
		}
		query["$or"] = or
	}

	return query
}

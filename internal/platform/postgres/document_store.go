package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/store"
)

// selectColumns is the projection every query returns, in scan order.
const selectColumns = "id::text, data, created_at, updated_at"

// DocumentStore implements the store.DocumentStore interface
// using a PostgreSQL JSONB table as the storage backend.
type DocumentStore struct {
	db     DBTX
	logger *slog.Logger
}

// NewDocumentStore creates a new PostgreSQL implementation of the DocumentStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewDocumentStore(db DBTX, logger *slog.Logger) *DocumentStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_document_store")),
	}
}

// Ensure DocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*DocumentStore)(nil)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Create implements store.DocumentStore.Create.
func (s *DocumentStore) Create(ctx context.Context, collection string, fields store.Document) (store.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	data, err := json.Marshal(store.MutableFields(fields))
	if err != nil {
		return nil, store.NewStoreError(collection, "create", "fields are not JSON encodable", err)
	}

	now := store.Now()
	query := `
		INSERT INTO documents (id, collection, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $5)
		RETURNING ` + selectColumns

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, uuid.New(), collection, string(data), now, now))
	if err != nil {
		log.Error("failed to insert document",
			slog.String("collection", collection),
			slog.String("error", err.Error()))
		return nil, MapError(collection, "create", err)
	}

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

	where, args, err := buildWhere(collection, filter)
	if err != nil {
		return nil, store.NewStoreError(collection, "list", "filter is not JSON encodable", err)
	}
	args = append(args, store.NormalizeLimit(limit))

	query := fmt.Sprintf(
		"SELECT %s FROM documents WHERE %s ORDER BY created_at DESC LIMIT $%d",
		selectColumns, where, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query documents",
			slog.String("collection", collection),
			slog.String("error", err.Error()))
		return nil, MapError(collection, "list", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	docs := make([]store.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			log.Error("failed to scan document",
				slog.String("collection", collection),
				slog.String("error", err.Error()))
			return nil, MapError(collection, "list", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(collection, "list", err)
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

	docID, err := parseID(id)
	if err != nil {
		log.Debug("rejecting malformed document id", slog.String("id", id))
		return nil, err
	}

	patch, err := json.Marshal(store.MutableFields(fields))
	if err != nil {
		return nil, store.NewStoreError(collection, "update", "fields are not JSON encodable", err)
	}

	// updated_at never moves backwards.
	query := `
		UPDATE documents
		SET data = data || $1::jsonb, updated_at = GREATEST(updated_at, $2)
		WHERE collection = $3 AND id = $4
		RETURNING ` + selectColumns

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, string(patch), store.Now(), collection, docID))
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
	return doc, nil
}

// Delete implements store.DocumentStore.Delete.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	docID, err := parseID(id)
	if err != nil {
		log.Debug("rejecting malformed document id", slog.String("id", id))
		return false, err
	}

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = $1 AND id = $2", collection, docID)
	if err != nil {
		log.Error("failed to delete document",
			slog.String("collection", collection),
			slog.String("id", id),
			slog.String("error", err.Error()))
		return false, MapError(collection, "delete", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, MapError(collection, "delete", err)
	}

	deleted := rowsAffected == 1
	log.Debug("document delete finished",
		slog.String("collection", collection),
		slog.String("id", id),
		slog.Bool("deleted", deleted))
	return deleted, nil
}

// scanDocument reads one row of selectColumns into a store.Document.
func scanDocument(row rowScanner) (store.Document, error) {
	var (
		id                   string
		data                 []byte
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	doc := store.Document{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document data: %w", err)
		}
	}

	doc[store.FieldID] = id
	doc[store.FieldCreatedAt] = createdAt.UTC()
	doc[store.FieldUpdatedAt] = updatedAt.UTC()
	return doc, nil
}

// buildWhere translates a store.Filter into a WHERE clause and its positional
// arguments. The collection is always the first argument.
func buildWhere(collection string, filter store.Filter) (string, []any, error) {
	clauses := []string{"collection = $1"}
	args := []any{collection}

	if len(filter.Equal) > 0 {
		equal, err := json.Marshal(filter.Equal)
		if err != nil {
			return "", nil, err
		}
		args = append(args, string(equal))
		clauses = append(clauses, fmt.Sprintf("data @> $%d::jsonb", len(args)))
	}

	if c := filter.Contains; c != nil && c.Term != "" && len(c.Fields) > 0 {
		args = append(args, "%"+escapeLike(c.Term)+"%")
		termArg := len(args)

		ors := make([]string, 0, len(c.Fields))
		for _, field := range c.Fields {
			args = append(args, field)
			ors = append(ors, fmt.Sprintf(`data->>$%d::text ILIKE $%d ESCAPE '\'`, len(args), termArg))
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	return strings.Join(clauses, " AND "), args, nil
}

// escapeLike escapes the ILIKE wildcards so term matches literally.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

package store

import (
	"context"
	"reflect"
	"strings"
	"time"
)

// Reserved document keys managed by the gateway.
const (
	// FieldID holds the document identifier, always as a plain string.
	FieldID = "id"
	// FieldCreatedAt is set once when the document is created.
	FieldCreatedAt = "created_at"
	// FieldUpdatedAt is set on create and refreshed on every update.
	FieldUpdatedAt = "updated_at"
)

// DefaultListLimit caps the number of documents returned by List.
const DefaultListLimit = 100

// Document is a schemaless record stored in a collection.
type Document map[string]any

// ID returns the document identifier, or "" if it has none.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Contains is a case-insensitive substring predicate over one or more
// fields. A document matches when any of the fields contains Term. Term is
// always treated literally, never as a pattern.
type Contains struct {
	Fields []string
	Term   string
}

// Filter selects documents in List. Equal entries must all match exactly;
// when Contains is set it must match as well. The zero Filter matches every
// document.
type Filter struct {
	Equal    map[string]any
	Contains *Contains
}

// IsEmpty reports whether the filter matches every document.
func (f Filter) IsEmpty() bool {
	return len(f.Equal) == 0 && (f.Contains == nil || f.Contains.Term == "")
}

// Matches evaluates the filter against an in-memory document. Store
// implementations that cannot push the filter down to the database use it,
// and it serves as the reference semantics for those that can.
func (f Filter) Matches(doc Document) bool {
	for k, want := range f.Equal {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}

	if f.Contains == nil || f.Contains.Term == "" {
		return true
	}

	term := strings.ToLower(f.Contains.Term)
	for _, field := range f.Contains.Fields {
		s, ok := doc[field].(string)
		if ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

// DocumentStore is the gateway to the document database. Every document it
// returns carries its identifier under FieldID as a string and its
// timestamps under FieldCreatedAt and FieldUpdatedAt.
type DocumentStore interface {
	// Create inserts fields as a new document, stamping FieldCreatedAt and
	// FieldUpdatedAt with the same current time, and returns the persisted
	// document. Write failures are returned as *StoreError.
	Create(ctx context.Context, collection string, fields Document) (Document, error)

	// List returns the documents matching filter, most recently created
	// first, capped at limit. A limit outside 1..DefaultListLimit uses
	// DefaultListLimit.
	List(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error)

	// Update merges fields into the document identified by id and refreshes
	// FieldUpdatedAt. Keys absent from fields are left untouched and no key
	// is ever removed. The identifier and FieldCreatedAt cannot be changed.
	// Returns ErrNotFound if no such document exists and ErrInvalidID if id
	// is malformed for the store.
	Update(ctx context.Context, collection, id string, fields Document) (Document, error)

	// Delete removes the document identified by id and reports whether a
	// document was removed. Returns ErrInvalidID if id is malformed.
	Delete(ctx context.Context, collection, id string) (bool, error)
}

// NormalizeLimit maps a requested limit onto 1..DefaultListLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}

// Now returns the current UTC time truncated to millisecond precision, the
// resolution every supported backend can store losslessly.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// MutableFields returns a copy of fields without the keys managed by the
// gateway (identifier and timestamps), so callers cannot overwrite them.
func MutableFields(fields Document) Document {
	out := make(Document, len(fields))
	for k, v := range fields {
		switch k {
		case FieldID, "_id", FieldCreatedAt, FieldUpdatedAt:
			continue
		}
		out[k] = v
	}
	return out
}

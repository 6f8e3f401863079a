package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskmanager-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWhere(t *testing.T) {
	t.Run("collection only", func(t *testing.T) {
		where, args, err := buildWhere("task", store.Filter{})
		require.NoError(t, err)
		assert.Equal(t, "collection = $1", where)
		assert.Equal(t, []any{"task"}, args)
	})

	t.Run("equality uses containment", func(t *testing.T) {
		where, args, err := buildWhere("task", store.Filter{
			Equal: map[string]any{"status": "done"},
		})
		require.NoError(t, err)
		assert.Equal(t, "collection = $1 AND data @> $2::jsonb", where)
		assert.Equal(t, []any{"task", `{"status":"done"}`}, args)
	})

	t.Run("contains over several fields", func(t *testing.T) {
		where, args, err := buildWhere("task", store.Filter{
			Equal:    map[string]any{"focus": "high"},
			Contains: &store.Contains{Fields: []string{"title", "description"}, Term: "50%_off"},
		})
		require.NoError(t, err)
		assert.Equal(t,
			`collection = $1 AND data @> $2::jsonb AND `+
				`(data->>$4::text ILIKE $3 ESCAPE '\' OR data->>$5::text ILIKE $3 ESCAPE '\')`,
			where)
		assert.Equal(t, []any{"task", `{"focus":"high"}`, `%50\%\_off%`, "title", "description"}, args)
	})

	t.Run("empty term is ignored", func(t *testing.T) {
		where, _, err := buildWhere("task", store.Filter{Contains: &store.Contains{Fields: []string{"title"}}})
		require.NoError(t, err)
		assert.Equal(t, "collection = $1", where)
	})
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":   "plain",
		"100%":    `100\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
	}
	for in, want := range tests {
		assert.Equal(t, want, escapeLike(in), in)
	}
}

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError("task", "update", nil))

	err := MapError("task", "update", sql.ErrNoRows)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NotErrorIs(t, err, store.ErrStorage)

	pgErr := &pgconn.PgError{Code: uniqueViolationCode}
	err = MapError("task", "create", pgErr)
	assert.ErrorIs(t, err, store.ErrStorage)

	var storeErr *store.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "duplicate key", storeErr.Message)
	assert.Equal(t, "create", storeErr.Operation)

	err = MapError("task", "list", &pgconn.PgError{Code: undefinedTableCode})
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "schema not migrated", storeErr.Message)

	err = MapError("task", "list", errors.New("boom"))
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "database operation failed", storeErr.Message)
}

func TestParseID(t *testing.T) {
	_, err := parseID("0b6a3c4e-8f43-4c5e-9a8e-2d1b0f4f53a1")
	assert.NoError(t, err)

	for _, bad := range []string{"", "123", "64b7f0c2a1b2c3d4e5f60718"} {
		_, err := parseID(bad)
		assert.ErrorIs(t, err, store.ErrInvalidID, bad)
	}
}

func TestNewDocumentStorePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewDocumentStore(nil, nil) })
}

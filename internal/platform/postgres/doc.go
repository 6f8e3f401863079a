// Package postgres provides a PostgreSQL implementation of store.DocumentStore.
// Documents of every collection live in a single table with their fields in a
// JSONB column; the schema is managed by embedded goose migrations.
package postgres

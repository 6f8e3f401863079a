// Package store defines the document store gateway used by the task
// service. The DocumentStore interface exposes generic, collection-scoped
// create/list/update/delete operations over schemaless documents, so the
// rest of the application never depends on a particular database driver or
// its native identifier representation.
package store

// Package service contains the application use cases. It sits between the
// HTTP handlers and the document store: it translates between domain tasks
// and schemaless documents, turns list queries into store filters, and maps
// store errors onto the service error taxonomy.
//
// The service layer depends on domain entities and the store.DocumentStore
// interface, never on a specific backend.
package service

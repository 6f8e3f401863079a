// Package mongodb implements store.DocumentStore on top of MongoDB using the
// official Go driver. Documents are stored one per record in the collection
// named by the caller; identifiers are ObjectIDs, exposed to the rest of the
// application as 24-character hex strings.
package mongodb

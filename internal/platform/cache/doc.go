// Package cache provides a Redis cache-aside decorator for store.DocumentStore.
//
// Only List results are cached. Every successful write to a collection drops
// all cached lists of that collection, so readers never observe a list that
// predates their own write. Redis failures are logged and bypassed; they never
// fail the wrapped operation.
package cache

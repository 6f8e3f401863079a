// Package mocks provides centralized mock implementations for testing.
//
// MemoryDocumentStore is a complete in-memory store.DocumentStore with the
// same filter, ordering, limit and merge semantics as the database backends.
// The remaining mocks use either function fields or testify/mock:
//
//	svc := &mocks.MockTaskService{
//	    DeleteTaskFn: func(ctx context.Context, id string) error {
//	        return service.ErrTaskNotFound
//	    },
//	}
package mocks

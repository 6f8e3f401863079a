package mongodb

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskmanager-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MapError maps a driver error to the store error taxonomy.
// mongo.ErrNoDocuments becomes store.ErrNotFound; every other failure is
// wrapped in a *store.StoreError for the given collection and operation.
func MapError(collection, operation string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	message := "database operation failed"
	switch {
	case mongo.IsTimeout(err):
		message = "database operation timed out"
	case mongo.IsNetworkError(err):
		message = "database unreachable"
	case mongo.IsDuplicateKeyError(err):
		message = "duplicate key"
	}

	return store.NewStoreError(collection, operation, message, err)
}

// parseObjectID converts an external identifier into an ObjectID.
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	return oid, nil
}

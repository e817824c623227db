package types

import "github.com/google/uuid"

// GameID identifies a single game in an external catalog.
type GameID string

// String returns the string representation of the game ID
func (id GameID) String() string {
	return string(id)
}

// CollectionID is a UUID-based identifier for Collection
type CollectionID string

// NewCollectionID generates a new UUID v4 CollectionID
func NewCollectionID() CollectionID {
	return CollectionID(uuid.New().String())
}

// String returns the string representation of the collection ID
func (id CollectionID) String() string {
	return string(id)
}

// AccountID namespaces persisted source bindings per user account.
type AccountID string

// String returns the string representation of the account ID
func (id AccountID) String() string {
	return string(id)
}

package interfaces

import (
	"context"

	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
)

// CollectionRepository defines the interface for Collection data persistence
type CollectionRepository interface {
	// Create creates a new collection
	Create(ctx context.Context, collection *model.Collection) (*model.Collection, error)

	// Get retrieves a collection by ID
	Get(ctx context.Context, id types.CollectionID) (*model.Collection, error)

	// List retrieves all collections
	List(ctx context.Context) ([]*model.Collection, error)

	// Update updates an existing collection
	Update(ctx context.Context, collection *model.Collection) (*model.Collection, error)

	// Delete deletes a collection by ID
	Delete(ctx context.Context, id types.CollectionID) error
}

package interfaces

import (
	"context"

	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
)

// BindingRepository defines the interface for SourceBinding data
// persistence. Bindings are namespaced per account, keyed by collection ID.
type BindingRepository interface {
	// Put stores or replaces the binding for its collection
	Put(ctx context.Context, account types.AccountID, binding *model.SourceBinding) error

	// Get retrieves the binding for a collection
	Get(ctx context.Context, account types.AccountID, collectionID types.CollectionID) (*model.SourceBinding, error)

	// List retrieves all bindings of an account, keyed by collection ID
	List(ctx context.Context, account types.AccountID) (map[types.CollectionID]*model.SourceBinding, error)

	// Delete removes the binding for a collection
	Delete(ctx context.Context, account types.AccountID, collectionID types.CollectionID) error

	// CleanupOrphans removes every binding whose collection ID is not in
	// existing and returns the number removed. Idempotent.
	CleanupOrphans(ctx context.Context, account types.AccountID, existing []types.CollectionID) (int, error)
}

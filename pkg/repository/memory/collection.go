package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type collectionRepository struct {
	mu          sync.RWMutex
	collections map[types.CollectionID]*model.Collection
}

func newCollectionRepository() *collectionRepository {
	return &collectionRepository{
		collections: make(map[types.CollectionID]*model.Collection),
	}
}

func (r *collectionRepository) Create(ctx context.Context, collection *model.Collection) (*model.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := collection.Clone()
	if created.ID == "" {
		created.ID = types.NewCollectionID()
	}
	if created.MemberIDs == nil {
		created.MemberIDs = model.NewGameSet()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.collections[created.ID] = created
	return created.Clone(), nil
}

func (r *collectionRepository) Get(ctx context.Context, id types.CollectionID) (*model.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collection, exists := r.collections[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "collection not found", goerr.V("id", id))
	}

	return collection.Clone(), nil
}

func (r *collectionRepository) List(ctx context.Context) ([]*model.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collections := make([]*model.Collection, 0, len(r.collections))
	for _, collection := range r.collections {
		collections = append(collections, collection.Clone())
	}

	return collections, nil
}

func (r *collectionRepository) Update(ctx context.Context, collection *model.Collection) (*model.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.collections[collection.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "collection not found", goerr.V("id", collection.ID))
	}

	updated := collection.Clone()
	if updated.MemberIDs == nil {
		updated.MemberIDs = model.NewGameSet()
	}
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.collections[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *collectionRepository) Delete(ctx context.Context, id types.CollectionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.collections[id]; !exists {
		return goerr.Wrap(ErrNotFound, "collection not found", goerr.V("id", id))
	}

	delete(r.collections, id)
	return nil
}

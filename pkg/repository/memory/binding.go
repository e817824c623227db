package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type bindingRepository struct {
	mu       sync.RWMutex
	accounts map[types.AccountID]map[types.CollectionID]*model.SourceBinding
}

func newBindingRepository() *bindingRepository {
	return &bindingRepository{
		accounts: make(map[types.AccountID]map[types.CollectionID]*model.SourceBinding),
	}
}

func (r *bindingRepository) Put(ctx context.Context, account types.AccountID, binding *model.SourceBinding) error {
	if err := binding.Validate(); err != nil {
		return goerr.Wrap(err, "invalid binding")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := binding.Clone()
	stored.UpdatedAt = time.Now().UTC()

	bindings, exists := r.accounts[account]
	if !exists {
		bindings = make(map[types.CollectionID]*model.SourceBinding)
		r.accounts[account] = bindings
	}
	bindings[stored.CollectionID] = stored

	return nil
}

func (r *bindingRepository) Get(ctx context.Context, account types.AccountID, collectionID types.CollectionID) (*model.SourceBinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	binding, exists := r.accounts[account][collectionID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "binding not found",
			goerr.V("account", account), goerr.V("collection_id", collectionID))
	}

	return binding.Clone(), nil
}

func (r *bindingRepository) List(ctx context.Context, account types.AccountID) (map[types.CollectionID]*model.SourceBinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bindings := make(map[types.CollectionID]*model.SourceBinding, len(r.accounts[account]))
	for id, binding := range r.accounts[account] {
		bindings[id] = binding.Clone()
	}

	return bindings, nil
}

func (r *bindingRepository) Delete(ctx context.Context, account types.AccountID, collectionID types.CollectionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account][collectionID]; !exists {
		return goerr.Wrap(ErrNotFound, "binding not found",
			goerr.V("account", account), goerr.V("collection_id", collectionID))
	}

	delete(r.accounts[account], collectionID)
	return nil
}

func (r *bindingRepository) CleanupOrphans(ctx context.Context, account types.AccountID, existing []types.CollectionID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keep := make(map[types.CollectionID]struct{}, len(existing))
	for _, id := range existing {
		keep[id] = struct{}{}
	}

	removed := 0
	for id := range r.accounts[account] {
		if _, ok := keep[id]; !ok {
			delete(r.accounts[account], id)
			removed++
		}
	}

	return removed, nil
}

package usecase

import (
	"context"
	"sort"

	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// BindingUseCase manages the per-account source binding records that
// tie a collection back to the source it was populated from.
type BindingUseCase struct {
	repo       interfaces.Repository
	fetch      *FetchUseCase
	collection *CollectionUseCase
	account    types.AccountID
}

// NewBindingUseCase creates a new BindingUseCase instance
func NewBindingUseCase(repo interfaces.Repository, fetch *FetchUseCase, collection *CollectionUseCase, account types.AccountID) *BindingUseCase {
	return &BindingUseCase{
		repo:       repo,
		fetch:      fetch,
		collection: collection,
		account:    account,
	}
}

// List retrieves all bindings recorded for the account
func (uc *BindingUseCase) List(ctx context.Context) ([]*model.SourceBinding, error) {
	byCollection, err := uc.repo.Binding().List(ctx, uc.account)
	if err != nil {
		return nil, err
	}

	bindings := make([]*model.SourceBinding, 0, len(byCollection))
	for _, b := range byCollection {
		bindings = append(bindings, b)
	}
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].CollectionID < bindings[j].CollectionID
	})
	return bindings, nil
}

// Get retrieves the binding for a collection
func (uc *BindingUseCase) Get(ctx context.Context, id types.CollectionID) (*model.SourceBinding, error) {
	return uc.repo.Binding().Get(ctx, uc.account, id)
}

// Remove deletes the binding for a collection. The collection itself
// is untouched.
func (uc *BindingUseCase) Remove(ctx context.Context, id types.CollectionID) error {
	return uc.repo.Binding().Delete(ctx, uc.account, id)
}

// CleanupOrphans removes bindings whose collection no longer exists
// and returns how many were removed.
func (uc *BindingUseCase) CleanupOrphans(ctx context.Context) (int, error) {
	collections, err := uc.repo.Collection().List(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list collections")
	}

	existing := make([]types.CollectionID, 0, len(collections))
	for _, c := range collections {
		existing = append(existing, c.ID)
	}

	return uc.repo.Binding().CleanupOrphans(ctx, uc.account, existing)
}

// Refetch re-runs a bound collection's source and reconciles the
// collection under the binding's recorded update mode.
func (uc *BindingUseCase) Refetch(ctx context.Context, id types.CollectionID, onProgress func(ProgressEvent)) (*UpdateResult, error) {
	binding, err := uc.repo.Binding().Get(ctx, uc.account, id)
	if err != nil {
		return nil, goerr.Wrap(err, "no binding for collection", goerr.V("id", id))
	}

	descriptor, err := descriptorFromBinding(binding)
	if err != nil {
		return nil, err
	}

	results, err := uc.fetch.Run(ctx, []model.SourceDescriptor{descriptor}, onProgress)
	if err != nil {
		return nil, err
	}

	merged, err := Merge(results)
	if err != nil {
		return nil, goerr.Wrap(err, "refetch produced no usable result",
			goerr.V("id", id))
	}

	return uc.collection.UpdateFromResult(ctx, id, merged, binding.UpdateMode.Normalize())
}

// descriptorFromBinding reconstructs the source selection stored in a
// binding record
func descriptorFromBinding(binding *model.SourceBinding) (model.SourceDescriptor, error) {
	locator, ok := binding.SourceParams["locator"]
	if !ok || locator == "" {
		return model.SourceDescriptor{}, goerr.New("binding has no source locator",
			goerr.V("collection_id", binding.CollectionID))
	}

	name := binding.DisplayName
	if name == "" {
		name = locator
	}

	return model.SourceDescriptor{
		Key:         string(binding.SourceType) + ":" + locator,
		Type:        binding.SourceType,
		Locator:     locator,
		DisplayName: name,
	}, nil
}

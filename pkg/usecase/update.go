package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// UpdateResult is the diff summary of one reconciliation run
type UpdateResult struct {
	State      types.RunState
	Added      int
	Removed    int
	OldCount   int
	NewCount   int
	FinalCount int
	ArchiveID  types.CollectionID
}

// CollectionUseCase applies fetched id sets to collections. All
// mutation is serialized through one mutex: the collection store is a
// single-writer resource.
type CollectionUseCase struct {
	repo    interfaces.Repository
	account types.AccountID
	mu      sync.Mutex
}

// NewCollectionUseCase creates a new CollectionUseCase instance
func NewCollectionUseCase(repo interfaces.Repository, account types.AccountID) *CollectionUseCase {
	return &CollectionUseCase{
		repo:    repo,
		account: account,
	}
}

// List retrieves all collections
func (uc *CollectionUseCase) List(ctx context.Context) ([]*model.Collection, error) {
	return uc.repo.Collection().List(ctx)
}

// Get retrieves a collection by ID
func (uc *CollectionUseCase) Get(ctx context.Context, id types.CollectionID) (*model.Collection, error) {
	return uc.repo.Collection().Get(ctx, id)
}

// CreateFromResult creates a new collection from a fetch result and,
// when the result carries provenance, records a binding for later
// re-fetch.
func (uc *CollectionUseCase) CreateFromResult(ctx context.Context, name string, result *model.FetchResult, mode types.UpdateMode) (*model.Collection, error) {
	if name == "" {
		name = result.DisplayName
	}
	if name == "" {
		return nil, goerr.New("collection name is required")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	ids := result.IDs
	if ids == nil {
		ids = model.NewGameSet()
	}

	created, err := uc.repo.Collection().Create(ctx, &model.Collection{
		Name:      name,
		MemberIDs: ids.Clone(),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create collection", goerr.V("name", name))
	}

	uc.recordBinding(ctx, created.ID, result, mode)

	return created, nil
}

// Update reconciles the target collection against newIDs under the
// given update mode and returns the diff summary.
func (uc *CollectionUseCase) Update(ctx context.Context, id types.CollectionID, newIDs model.GameSet, mode types.UpdateMode) (*UpdateResult, error) {
	mode = mode.Normalize()
	if !mode.IsValid() {
		return nil, goerr.New("invalid update mode", goerr.V("mode", mode))
	}
	if newIDs == nil {
		newIDs = model.NewGameSet()
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	collection, err := uc.repo.Collection().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return &UpdateResult{State: types.RunStateFailed},
				goerr.Wrap(ErrCollectionNotFound, "target collection does not exist",
					goerr.V("id", id))
		}
		return &UpdateResult{State: types.RunStateFailed},
			goerr.Wrap(err, "failed to load target collection", goerr.V("id", id))
	}

	switch mode {
	case types.UpdateModeReplace:
		return uc.replace(ctx, collection, newIDs)
	case types.UpdateModeIncremental:
		return uc.incremental(ctx, collection, newIDs, false)
	case types.UpdateModeIncrementalArchive:
		return uc.incremental(ctx, collection, newIDs, true)
	default:
		return nil, goerr.New("invalid update mode", goerr.V("mode", mode))
	}
}

// UpdateFromResult reconciles against a fetch result and refreshes the
// binding when the result carries provenance.
func (uc *CollectionUseCase) UpdateFromResult(ctx context.Context, id types.CollectionID, result *model.FetchResult, mode types.UpdateMode) (*UpdateResult, error) {
	updated, err := uc.Update(ctx, id, result.IDs, mode)
	if err != nil {
		return updated, err
	}

	uc.mu.Lock()
	uc.recordBinding(ctx, id, result, mode)
	uc.mu.Unlock()

	return updated, nil
}

// replace makes the collection mirror the source exactly. It always
// reports a change, even when membership happens to be identical.
func (uc *CollectionUseCase) replace(ctx context.Context, collection *model.Collection, newIDs model.GameSet) (*UpdateResult, error) {
	oldCount := collection.MemberIDs.Len()

	collection.MemberIDs = newIDs.Clone()
	if _, err := uc.repo.Collection().Update(ctx, collection); err != nil {
		return &UpdateResult{State: types.RunStateFailed},
			goerr.Wrap(err, "failed to save collection", goerr.V("id", collection.ID))
	}

	return &UpdateResult{
		State:      types.RunStateUpdated,
		OldCount:   oldCount,
		NewCount:   newIDs.Len(),
		FinalCount: newIDs.Len(),
	}, nil
}

func (uc *CollectionUseCase) incremental(ctx context.Context, collection *model.Collection, newIDs model.GameSet, archive bool) (*UpdateResult, error) {
	oldIDs := collection.MemberIDs
	added := newIDs.Diff(oldIDs)
	removed := oldIDs.Diff(newIDs)

	result := &UpdateResult{
		Added:    added.Len(),
		Removed:  removed.Len(),
		OldCount: oldIDs.Len(),
		NewCount: newIDs.Len(),
	}

	if added.Len() == 0 && removed.Len() == 0 {
		result.State = types.RunStateNoChange
		result.FinalCount = oldIDs.Len()
		return result, nil
	}

	// The archive is written before the primary save. If the primary
	// save then fails, the displaced ids sit in both collections until
	// a retry succeeds; the archive union dedupes them. Saving the
	// primary first could drop displaced ids for good on a later
	// archive failure.
	if archive && removed.Len() > 0 {
		archiveID, err := uc.archiveDisplaced(ctx, collection, removed)
		if err != nil {
			return &UpdateResult{State: types.RunStateFailed}, err
		}
		result.ArchiveID = archiveID
	}

	collection.MemberIDs = newIDs.Clone()
	if _, err := uc.repo.Collection().Update(ctx, collection); err != nil {
		return &UpdateResult{State: types.RunStateFailed},
			goerr.Wrap(err, "failed to save collection", goerr.V("id", collection.ID))
	}

	result.State = types.RunStateUpdated
	result.FinalCount = newIDs.Len()
	return result, nil
}

// archiveDisplaced moves removed ids into the collection's archive
// counterpart, creating it on first use. The archive only ever grows:
// ids later re-added upstream are not pruned from it.
func (uc *CollectionUseCase) archiveDisplaced(ctx context.Context, collection *model.Collection, removed model.GameSet) (types.CollectionID, error) {
	archive, err := uc.findByName(ctx, collection.ArchiveName())
	if err != nil {
		return "", err
	}

	if archive == nil {
		created, err := uc.repo.Collection().Create(ctx, &model.Collection{
			Name:      collection.ArchiveName(),
			MemberIDs: removed.Clone(),
		})
		if err != nil {
			return "", goerr.Wrap(err, "failed to create archive collection",
				goerr.V("name", collection.ArchiveName()))
		}
		return created.ID, nil
	}

	archive.MemberIDs = archive.MemberIDs.Union(removed)
	if _, err := uc.repo.Collection().Update(ctx, archive); err != nil {
		return "", goerr.Wrap(err, "failed to save archive collection",
			goerr.V("id", archive.ID))
	}
	return archive.ID, nil
}

func (uc *CollectionUseCase) findByName(ctx context.Context, name string) (*model.Collection, error) {
	collections, err := uc.repo.Collection().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list collections")
	}
	for _, c := range collections {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

// recordBinding writes the binding after a successful action. Results
// without provenance (merges with no representative source) are not
// bound. A binding write failure is logged but never undoes the action.
func (uc *CollectionUseCase) recordBinding(ctx context.Context, id types.CollectionID, result *model.FetchResult, mode types.UpdateMode) {
	if result == nil || !result.HasProvenance() {
		return
	}

	binding := &model.SourceBinding{
		CollectionID: id,
		SourceType:   result.SourceType,
		SourceParams: result.SourceParams,
		DisplayName:  result.DisplayName,
		UpdateMode:   mode.Normalize(),
	}
	if err := uc.repo.Binding().Put(ctx, uc.account, binding); err != nil {
		logging.From(ctx).Warn("failed to record source binding",
			"collection_id", id, "error", err.Error())
	}
}

// IsNotFound reports whether the error is a missing-collection failure
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCollectionNotFound)
}

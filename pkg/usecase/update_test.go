package usecase_test

import (
	"context"
	"testing"

	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/repository/memory"
	"github.com/ludo-lab/gameshelf/pkg/service/provider"
	"github.com/ludo-lab/gameshelf/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func newCollectionFixture(t *testing.T) (*usecase.UseCases, *memory.Memory) {
	t.Helper()
	repo := memory.New()
	uc := usecase.New(repo, provider.NewRegistry(), usecase.WithSleeper(noSleep))
	return uc, repo
}

func mustCreate(t *testing.T, uc *usecase.UseCases, name string, ids ...types.GameID) *model.Collection {
	t.Helper()
	created, err := uc.Collection.CreateFromResult(context.Background(), name,
		&model.FetchResult{IDs: model.NewGameSet(ids...)}, types.UpdateModeIncremental)
	gt.NoError(t, err).Required()
	return created
}

func TestCollectionCreateFromResult(t *testing.T) {
	ctx := context.Background()
	uc, repo := newCollectionFixture(t)

	t.Run("records binding when result has provenance", func(t *testing.T) {
		result := okResult("Top 100", "g1", "g2")
		created, err := uc.Collection.CreateFromResult(ctx, "", &result, types.UpdateModeIncremental)
		gt.NoError(t, err).Required()

		gt.Value(t, created.Name).Equal("Top 100")
		gt.Number(t, created.MemberIDs.Len()).Equal(2)

		binding, err := repo.Binding().Get(ctx, usecase.DefaultAccount, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, binding.SourceType).Equal(types.SourceTypeRankedList)
		gt.Value(t, binding.SourceParams["locator"]).Equal("list-Top 100")
		gt.Value(t, binding.UpdateMode).Equal(types.UpdateModeIncremental)
	})

	t.Run("skips binding without provenance", func(t *testing.T) {
		created, err := uc.Collection.CreateFromResult(ctx, "plain",
			&model.FetchResult{IDs: model.NewGameSet("g1")}, types.UpdateModeIncremental)
		gt.NoError(t, err).Required()

		_, err = repo.Binding().Get(ctx, usecase.DefaultAccount, created.ID)
		gt.Error(t, err)
	})

	t.Run("requires some name", func(t *testing.T) {
		_, err := uc.Collection.CreateFromResult(ctx, "",
			&model.FetchResult{IDs: model.NewGameSet("g1")}, types.UpdateModeIncremental)
		gt.Error(t, err)
	})
}

func TestCollectionUpdateReplace(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCollectionFixture(t)
	created := mustCreate(t, uc, "mirror", "g1", "g2", "g9")

	result, err := uc.Collection.Update(ctx, created.ID,
		model.NewGameSet("g1", "g2", "g3", "g4"), types.UpdateModeReplace)
	gt.NoError(t, err).Required()

	gt.Value(t, result.State).Equal(types.RunStateUpdated)
	gt.Number(t, result.OldCount).Equal(3)
	gt.Number(t, result.NewCount).Equal(4)
	gt.Number(t, result.FinalCount).Equal(4)

	updated, err := uc.Collection.Get(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, updated.MemberIDs.Contains("g9")).False()
	gt.Bool(t, updated.MemberIDs.Contains("g3")).True()

	// replace reports a change even when membership is identical
	again, err := uc.Collection.Update(ctx, created.ID,
		model.NewGameSet("g1", "g2", "g3", "g4"), types.UpdateModeReplace)
	gt.NoError(t, err).Required()
	gt.Value(t, again.State).Equal(types.RunStateUpdated)
}

func TestCollectionUpdateIncremental(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCollectionFixture(t)
	created := mustCreate(t, uc, "weekly", "g1", "g2", "g9")

	newIDs := model.NewGameSet("g1", "g2", "g3", "g4")

	result, err := uc.Collection.Update(ctx, created.ID, newIDs, types.UpdateModeIncremental)
	gt.NoError(t, err).Required()

	gt.Value(t, result.State).Equal(types.RunStateUpdated)
	gt.Number(t, result.Added).Equal(2)
	gt.Number(t, result.Removed).Equal(1)
	gt.Number(t, result.FinalCount).Equal(4)

	// identical input on the second pass is a no-op
	again, err := uc.Collection.Update(ctx, created.ID, newIDs, types.UpdateModeIncremental)
	gt.NoError(t, err).Required()
	gt.Value(t, again.State).Equal(types.RunStateNoChange)
	gt.Number(t, again.Added).Equal(0)
	gt.Number(t, again.Removed).Equal(0)

	// empty mode defaults to incremental
	third, err := uc.Collection.Update(ctx, created.ID, newIDs, types.UpdateMode(""))
	gt.NoError(t, err).Required()
	gt.Value(t, third.State).Equal(types.RunStateNoChange)
}

func TestCollectionUpdateIncrementalArchive(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCollectionFixture(t)
	created := mustCreate(t, uc, "seasonal", "g1", "g2", "g9")

	result, err := uc.Collection.Update(ctx, created.ID,
		model.NewGameSet("g1", "g2", "g3"), types.UpdateModeIncrementalArchive)
	gt.NoError(t, err).Required()

	gt.Value(t, result.State).Equal(types.RunStateUpdated)
	gt.String(t, string(result.ArchiveID)).NotEqual("")

	archive, err := uc.Collection.Get(ctx, result.ArchiveID)
	gt.NoError(t, err).Required()
	gt.Value(t, archive.Name).Equal("seasonal (archive)")
	gt.Number(t, archive.MemberIDs.Len()).Equal(1)
	gt.Bool(t, archive.MemberIDs.Contains("g9")).True()

	// a later run reuses the same archive and only ever adds to it
	result2, err := uc.Collection.Update(ctx, created.ID,
		model.NewGameSet("g1", "g9"), types.UpdateModeIncrementalArchive)
	gt.NoError(t, err).Required()
	gt.Value(t, result2.ArchiveID).Equal(result.ArchiveID)

	archive, err = uc.Collection.Get(ctx, result.ArchiveID)
	gt.NoError(t, err).Required()
	gt.Number(t, archive.MemberIDs.Len()).Equal(3)
	gt.Bool(t, archive.MemberIDs.Contains("g2")).True()
	gt.Bool(t, archive.MemberIDs.Contains("g3")).True()
	// g9 came back upstream but is not pruned from the archive
	gt.Bool(t, archive.MemberIDs.Contains("g9")).True()

	// additions alone never touch the archive
	result3, err := uc.Collection.Update(ctx, created.ID,
		model.NewGameSet("g1", "g9", "g10"), types.UpdateModeIncrementalArchive)
	gt.NoError(t, err).Required()
	gt.Number(t, result3.Added).Equal(1)
	gt.Number(t, result3.Removed).Equal(0)

	archive, err = uc.Collection.Get(ctx, result.ArchiveID)
	gt.NoError(t, err).Required()
	gt.Number(t, archive.MemberIDs.Len()).Equal(3)
}

func TestCollectionUpdateMissingCollection(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCollectionFixture(t)

	result, err := uc.Collection.Update(ctx, types.NewCollectionID(),
		model.NewGameSet("g1"), types.UpdateModeReplace)
	gt.Error(t, err).Is(usecase.ErrCollectionNotFound)
	gt.Value(t, result.State).Equal(types.RunStateFailed)
	gt.Bool(t, usecase.IsNotFound(err)).True()
}

func TestCollectionUpdateFromResultRefreshesBinding(t *testing.T) {
	ctx := context.Background()
	uc, repo := newCollectionFixture(t)
	created := mustCreate(t, uc, "bound", "g1")

	result := okResult("Top 100", "g1", "g2")
	updated, err := uc.Collection.UpdateFromResult(ctx, created.ID, &result, types.UpdateModeReplace)
	gt.NoError(t, err).Required()
	gt.Value(t, updated.State).Equal(types.RunStateUpdated)

	binding, err := repo.Binding().Get(ctx, usecase.DefaultAccount, created.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, binding.UpdateMode).Equal(types.UpdateModeReplace)
	gt.Value(t, binding.DisplayName).Equal("Top 100")
}

type collectionRepoOverride struct {
	interfaces.Repository
	collections interfaces.CollectionRepository
}

func (r *collectionRepoOverride) Collection() interfaces.CollectionRepository {
	return r.collections
}

type failingGetRepo struct {
	interfaces.CollectionRepository
	getErr error
}

func (r *failingGetRepo) Get(ctx context.Context, id types.CollectionID) (*model.Collection, error) {
	return nil, r.getErr
}

type failOnceUpdateRepo struct {
	interfaces.CollectionRepository
	failID types.CollectionID
	armed  bool
}

func (r *failOnceUpdateRepo) Update(ctx context.Context, collection *model.Collection) (*model.Collection, error) {
	if r.armed && collection.ID == r.failID {
		r.armed = false
		return nil, goerr.New("write timed out")
	}
	return r.CollectionRepository.Update(ctx, collection)
}

func TestCollectionUpdateBackendFailureIsNotMissing(t *testing.T) {
	ctx := context.Background()

	getErr := goerr.New("connection reset")
	base := memory.New()
	repo := &collectionRepoOverride{
		Repository:  base,
		collections: &failingGetRepo{CollectionRepository: base.Collection(), getErr: getErr},
	}
	uc := usecase.New(repo, provider.NewRegistry(), usecase.WithSleeper(noSleep))

	result, err := uc.Collection.Update(ctx, types.NewCollectionID(),
		model.NewGameSet("g1"), types.UpdateModeReplace)
	gt.Error(t, err).Is(getErr)
	gt.Value(t, result.State).Equal(types.RunStateFailed)
	gt.Bool(t, usecase.IsNotFound(err)).False()
}

func TestCollectionUpdateArchiveSurvivesPrimarySaveFailure(t *testing.T) {
	ctx := context.Background()

	base := memory.New()
	flaky := &failOnceUpdateRepo{CollectionRepository: base.Collection()}
	repo := &collectionRepoOverride{Repository: base, collections: flaky}
	uc := usecase.New(repo, provider.NewRegistry(), usecase.WithSleeper(noSleep))

	created := mustCreate(t, uc, "seasonal", "g1", "g2", "g9")
	flaky.failID = created.ID
	flaky.armed = true

	// first run: g9 is displaced into a fresh archive, then the
	// primary save fails
	result, err := uc.Collection.Update(ctx, created.ID,
		model.NewGameSet("g1", "g2", "g3"), types.UpdateModeIncrementalArchive)
	gt.Error(t, err)
	gt.Value(t, result.State).Equal(types.RunStateFailed)

	primary, err := uc.Collection.Get(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Number(t, primary.MemberIDs.Len()).Equal(3)
	gt.Bool(t, primary.MemberIDs.Contains("g9")).True()

	// the retry unions g9 into the existing archive instead of
	// duplicating it
	result2, err := uc.Collection.Update(ctx, created.ID,
		model.NewGameSet("g1", "g2", "g3"), types.UpdateModeIncrementalArchive)
	gt.NoError(t, err).Required()
	gt.Value(t, result2.State).Equal(types.RunStateUpdated)
	gt.Number(t, result2.Removed).Equal(1)

	primary, err = uc.Collection.Get(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, primary.MemberIDs.Contains("g9")).False()
	gt.Bool(t, primary.MemberIDs.Contains("g3")).True()

	archive, err := uc.Collection.Get(ctx, result2.ArchiveID)
	gt.NoError(t, err).Required()
	gt.Value(t, archive.Name).Equal(created.ArchiveName())
	gt.Number(t, archive.MemberIDs.Len()).Equal(1)
	gt.Bool(t, archive.MemberIDs.Contains("g9")).True()
}

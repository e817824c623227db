package usecase_test

import (
	"strings"
	"testing"

	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func okResult(name string, ids ...types.GameID) model.FetchResult {
	return model.FetchResult{
		SourceKey:    "ranked_list:" + name,
		DisplayName:  name,
		SourceType:   types.SourceTypeRankedList,
		SourceParams: map[string]string{"locator": "list-" + name},
		IDs:          model.NewGameSet(ids...),
	}
}

func failedResult(name string) model.FetchResult {
	return model.FetchResult{
		SourceKey:   "ranked_list:" + name,
		DisplayName: name,
		Err:         "connection refused",
	}
}

func TestMergeUnion(t *testing.T) {
	merged, err := usecase.Merge([]model.FetchResult{
		okResult("A", "g1", "g2", "g3"),
		okResult("B", "g3", "g4"),
	})
	gt.NoError(t, err).Required()

	gt.Value(t, merged.SourceKey).Equal(usecase.MergedSourceKey)
	gt.Value(t, merged.DisplayName).Equal("A + B")
	gt.Number(t, merged.IDs.Len()).Equal(4)
	gt.Bool(t, merged.IDs.Contains("g1")).True()
	gt.Bool(t, merged.IDs.Contains("g4")).True()
}

func TestMergeOrderIndependent(t *testing.T) {
	a := okResult("A", "g1", "g2")
	b := okResult("B", "g2", "g3")
	c := okResult("C", "g4")

	forward, err := usecase.Merge([]model.FetchResult{a, b, c})
	gt.NoError(t, err).Required()
	backward, err := usecase.Merge([]model.FetchResult{c, b, a})
	gt.NoError(t, err).Required()

	gt.Bool(t, forward.IDs.Equal(backward.IDs)).True()
}

func TestMergeSingleResultPassesThrough(t *testing.T) {
	merged, err := usecase.Merge([]model.FetchResult{
		failedResult("A"),
		okResult("B", "g1", "g2"),
	})
	gt.NoError(t, err).Required()

	gt.Value(t, merged.SourceKey).Equal("ranked_list:B")
	gt.Value(t, merged.DisplayName).Equal("B")
	gt.Number(t, merged.IDs.Len()).Equal(2)
}

func TestMergeFailedResultsExcluded(t *testing.T) {
	merged, err := usecase.Merge([]model.FetchResult{
		okResult("A", "g1"),
		failedResult("X"),
		okResult("B", "g2"),
	})
	gt.NoError(t, err).Required()

	gt.Value(t, merged.DisplayName).Equal("A + B")
	gt.Number(t, merged.IDs.Len()).Equal(2)
}

func TestMergeNoSuccessfulSource(t *testing.T) {
	_, err := usecase.Merge([]model.FetchResult{
		failedResult("A"),
		failedResult("B"),
	})
	gt.Error(t, err).Is(usecase.ErrNoSuccessfulSource)
}

func TestMergeLongNameElided(t *testing.T) {
	merged, err := usecase.Merge([]model.FetchResult{
		okResult("Annual Community Ranking 2025", "g1"),
		okResult("Editorial Favorites Spring Edition", "g2"),
		okResult("Hidden Gems Staff Selection", "g3"),
	})
	gt.NoError(t, err).Required()

	gt.Bool(t, strings.HasSuffix(merged.DisplayName, "…(3 sources)")).True()
	prefix := strings.TrimSuffix(merged.DisplayName, "…(3 sources)")
	gt.Number(t, len([]rune(prefix))).LessOrEqual(60)
}

func TestMergeProvenanceFromFirstSuccessful(t *testing.T) {
	noProvenance := model.FetchResult{
		SourceKey:   "merged",
		DisplayName: "earlier merge",
		IDs:         model.NewGameSet("g9"),
	}
	merged, err := usecase.Merge([]model.FetchResult{
		noProvenance,
		okResult("B", "g1"),
		okResult("C", "g2"),
	})
	gt.NoError(t, err).Required()

	gt.Value(t, merged.SourceType).Equal(types.SourceTypeRankedList)
	gt.Value(t, merged.SourceParams["locator"]).Equal("list-B")
}

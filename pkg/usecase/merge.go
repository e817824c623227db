package usecase

import (
	"fmt"
	"strings"

	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// MergedSourceKey identifies a synthetic merged result
const MergedSourceKey = "merged"

// mergedNameLimit caps the joined display name before it is elided
// with a source-count suffix.
const mergedNameLimit = 60

// Merge collapses the successful results of one orchestration pass into
// a single synthetic result whose id set is the union of all members.
// With exactly one successful result it passes through unchanged.
// Provenance is copied from the first successful constituent that
// carries any; a merge of several sources therefore binds as if it came
// from that one source. Known limitation.
func Merge(results []model.FetchResult) (*model.FetchResult, error) {
	var ok []model.FetchResult
	for _, r := range results {
		if r.Succeeded() {
			ok = append(ok, r)
		}
	}

	if len(ok) == 0 {
		return nil, goerr.Wrap(ErrNoSuccessfulSource, "nothing to merge",
			goerr.V("attempted", len(results)))
	}
	if len(ok) == 1 {
		single := ok[0]
		return &single, nil
	}

	union := model.NewGameSet()
	names := make([]string, 0, len(ok))
	for _, r := range ok {
		union = union.Union(r.IDs)
		names = append(names, r.DisplayName)
	}

	merged := &model.FetchResult{
		SourceKey:   MergedSourceKey,
		DisplayName: mergedDisplayName(names),
		IDs:         union,
	}

	for _, r := range ok {
		if r.HasProvenance() {
			merged.SourceType = r.SourceType
			merged.SourceParams = make(map[string]string, len(r.SourceParams))
			for k, v := range r.SourceParams {
				merged.SourceParams[k] = v
			}
			break
		}
	}

	return merged, nil
}

func mergedDisplayName(names []string) string {
	joined := strings.Join(names, " + ")
	runes := []rune(joined)
	if len(runes) <= mergedNameLimit {
		return joined
	}
	return strings.TrimSpace(string(runes[:mergedNameLimit])) + fmt.Sprintf("…(%d sources)", len(names))
}

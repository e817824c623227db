package interfaces

import (
	"context"

	"github.com/ludo-lab/gameshelf/pkg/domain/types"
)

// FetchProgressFunc reports in-fetch progress detail (page counts,
// pagination cursors and the like) back to the orchestrator.
type FetchProgressFunc func(detail string)

// FetchOptions carries per-run options passed through to providers.
type FetchOptions struct {
	// ForceRefresh bypasses any provider-local cache for this run
	ForceRefresh bool
}

// SourceProvider fetches the id list behind one source locator.
// Implementations are registered per SourceType; a returned error
// never aborts the surrounding batch.
type SourceProvider interface {
	Fetch(ctx context.Context, locator string, opts FetchOptions, progress FetchProgressFunc) ([]types.GameID, error)
}

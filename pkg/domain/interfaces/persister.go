package interfaces

import (
	"context"

	"github.com/ludo-lab/gameshelf/pkg/domain/types"
)

// BatchResult is the per-item accounting of one persisted batch
type BatchResult struct {
	OK     int
	Failed int
}

// BatchPersister is the collaborator-supplied remote persistence
// primitive. An error means the batch could not be attempted at all;
// the caller then counts every member of the batch as failed.
type BatchPersister interface {
	PersistBatch(ctx context.Context, ids []types.GameID) (*BatchResult, error)
}

package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/utils/logging"
)

// Default batching parameters for remote persistence
const (
	DefaultBatchSize  = 100
	DefaultBatchDelay = 500 * time.Millisecond
)

// SyncProgress is emitted after every batch
type SyncProgress struct {
	Completed int
	Total     int
}

// SyncResult is the aggregate per-item accounting of one sync run
type SyncResult struct {
	OK     int
	Failed int
}

// SyncRun is one in-flight sync. The caller is the sole consumer:
// drain Progress until it closes, then receive from Done.
type SyncRun struct {
	Progress <-chan SyncProgress
	Done     <-chan SyncResult
}

// SyncUseCase persists id sets to the remote store in small
// rate-limited batches. Every batch is attempted regardless of prior
// outcomes; failures aggregate and never abort sibling batches.
type SyncUseCase struct {
	persister interfaces.BatchPersister
	sleep     Sleeper

	busy atomic.Bool
}

// NewSyncUseCase creates a new SyncUseCase instance
func NewSyncUseCase(persister interfaces.BatchPersister, sleep Sleeper) *SyncUseCase {
	if sleep == nil {
		sleep = sleepContext
	}
	return &SyncUseCase{
		persister: persister,
		sleep:     sleep,
	}
}

// Start launches the sync worker. It returns ErrSyncInFlight while a
// previous run is still active.
func (uc *SyncUseCase) Start(ctx context.Context, ids []types.GameID, batchSize int, delay time.Duration) (*SyncRun, error) {
	if uc.persister == nil {
		return nil, ErrNoPersister
	}
	if batchSize <= 0 {
		return nil, ErrInvalidBatchSize
	}
	if !uc.busy.CompareAndSwap(false, true) {
		return nil, ErrSyncInFlight
	}

	progress := make(chan SyncProgress)
	done := make(chan SyncResult, 1)

	go uc.run(ctx, ids, batchSize, delay, progress, done)

	return &SyncRun{Progress: progress, Done: done}, nil
}

func (uc *SyncUseCase) run(ctx context.Context, ids []types.GameID, batchSize int, delay time.Duration, progress chan<- SyncProgress, done chan<- SyncResult) {
	defer uc.busy.Store(false)

	total := len(ids)
	var result SyncResult

	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}
		batch := ids[start:end]

		if ctx.Err() != nil {
			// cannot be attempted: every member counts as failed
			result.Failed += len(batch)
		} else if batchResult, err := uc.persister.PersistBatch(ctx, batch); err != nil {
			logging.From(ctx).Warn("batch could not be attempted",
				"batch_start", start, "size", len(batch), "error", err.Error())
			result.Failed += len(batch)
		} else {
			result.OK += batchResult.OK
			result.Failed += batchResult.Failed
		}

		progress <- SyncProgress{Completed: end, Total: total}

		if end < total {
			uc.sleep(ctx, delay)
		}
	}

	close(progress)
	done <- result
	close(done)
}

// Run is a synchronous convenience wrapper around Start
func (uc *SyncUseCase) Run(ctx context.Context, ids []types.GameID, batchSize int, delay time.Duration, onProgress func(SyncProgress)) (*SyncResult, error) {
	run, err := uc.Start(ctx, ids, batchSize, delay)
	if err != nil {
		return nil, err
	}
	for p := range run.Progress {
		if onProgress != nil {
			onProgress(p)
		}
	}
	result := <-run.Done
	return &result, nil
}

package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/service/provider"
	"github.com/ludo-lab/gameshelf/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ProgressEvent reports fetch progress back to the coordinator
type ProgressEvent struct {
	Index  int
	Total  int
	Phase  string
	Detail string
}

// FetchRun is one in-flight orchestration. The caller is the sole
// consumer: drain Progress until it closes, then receive from Done.
type FetchRun struct {
	Progress <-chan ProgressEvent
	Done     <-chan []model.FetchResult
}

// FetchUseCase drives the selected sources strictly sequentially on one
// worker goroutine, throttled between sources, tolerating per-source
// failure. Only one orchestration may be in flight at a time.
type FetchUseCase struct {
	providers *provider.Registry
	throttle  time.Duration
	sleep     Sleeper

	busy         atomic.Bool
	forceRefresh atomic.Bool
}

// NewFetchUseCase creates a new FetchUseCase instance
func NewFetchUseCase(providers *provider.Registry, throttle time.Duration, sleep Sleeper) *FetchUseCase {
	if sleep == nil {
		sleep = sleepContext
	}
	return &FetchUseCase{
		providers: providers,
		throttle:  throttle,
		sleep:     sleep,
	}
}

// SetForceRefresh makes the next run bypass provider-local caches.
// The flag resets to false after every run.
func (uc *FetchUseCase) SetForceRefresh(v bool) {
	uc.forceRefresh.Store(v)
}

// Start launches the worker for the given selection. It returns
// ErrFetchInFlight while a previous run is still active.
func (uc *FetchUseCase) Start(ctx context.Context, descriptors []model.SourceDescriptor) (*FetchRun, error) {
	if len(descriptors) == 0 {
		return nil, goerr.Wrap(ErrNoSourceSelected, "empty selection")
	}

	seen := make(map[string]struct{}, len(descriptors))
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid source descriptor")
		}
		if _, dup := seen[d.Key]; dup {
			return nil, goerr.New("duplicate source key in selection", goerr.V("key", d.Key))
		}
		seen[d.Key] = struct{}{}
	}

	if !uc.busy.CompareAndSwap(false, true) {
		return nil, ErrFetchInFlight
	}

	// capture and reset the one-shot flag
	force := uc.forceRefresh.Swap(false)

	progress := make(chan ProgressEvent)
	done := make(chan []model.FetchResult, 1)

	go uc.run(ctx, descriptors, force, progress, done)

	return &FetchRun{Progress: progress, Done: done}, nil
}

func (uc *FetchUseCase) run(ctx context.Context, descriptors []model.SourceDescriptor, force bool, progress chan<- ProgressEvent, done chan<- []model.FetchResult) {
	defer uc.busy.Store(false)

	total := len(descriptors)
	results := make([]model.FetchResult, 0, total)

	for i, d := range descriptors {
		// cooperative cancellation point between sources; an in-flight
		// fetch always runs to completion
		if ctx.Err() != nil {
			logging.From(ctx).Info("fetch cancelled between sources",
				"completed", len(results), "total", total)
			break
		}

		index := i + 1
		progress <- ProgressEvent{Index: index, Total: total, Phase: d.DisplayName, Detail: "fetching"}

		result := uc.fetchOne(ctx, d, force, func(detail string) {
			progress <- ProgressEvent{Index: index, Total: total, Phase: d.DisplayName, Detail: detail}
		})
		if !result.Succeeded() {
			logging.From(ctx).Warn("source fetch failed",
				"key", d.Key, "error", result.Err)
		}
		results = append(results, result)

		if i < total-1 {
			uc.sleep(ctx, uc.throttle)
		}
	}

	close(progress)
	done <- results
	close(done)
}

// fetchOne never fails the batch: provider errors are recorded on the
// result and the orchestration moves on.
func (uc *FetchUseCase) fetchOne(ctx context.Context, d model.SourceDescriptor, force bool, progress interfaces.FetchProgressFunc) model.FetchResult {
	result := model.FetchResult{
		SourceKey:    d.Key,
		DisplayName:  d.DisplayName,
		SourceType:   d.Type,
		SourceParams: d.Params(),
	}

	p, err := uc.providers.Get(d.Type)
	if err != nil {
		result.Err = err.Error()
		return result
	}

	ids, err := p.Fetch(ctx, d.Locator, interfaces.FetchOptions{ForceRefresh: force}, progress)
	if err != nil {
		result.Err = err.Error()
		return result
	}

	result.IDs = model.NewGameSet(ids...)
	return result
}

// Run is a synchronous convenience wrapper: it drains progress through
// the callback and returns the final results.
func (uc *FetchUseCase) Run(ctx context.Context, descriptors []model.SourceDescriptor, onProgress func(ProgressEvent)) ([]model.FetchResult, error) {
	run, err := uc.Start(ctx, descriptors)
	if err != nil {
		return nil, err
	}
	for ev := range run.Progress {
		if onProgress != nil {
			onProgress(ev)
		}
	}
	return <-run.Done, nil
}

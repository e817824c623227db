package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/repository/memory"
	"github.com/ludo-lab/gameshelf/pkg/service/provider"
	"github.com/ludo-lab/gameshelf/pkg/usecase"
	"github.com/m-mizutani/gt"
)

type fakeProvider struct {
	fetch func(ctx context.Context, locator string, opts interfaces.FetchOptions, progress interfaces.FetchProgressFunc) ([]types.GameID, error)
}

func (p *fakeProvider) Fetch(ctx context.Context, locator string, opts interfaces.FetchOptions, progress interfaces.FetchProgressFunc) ([]types.GameID, error) {
	return p.fetch(ctx, locator, opts, progress)
}

func noSleep(ctx context.Context, d time.Duration) {}

func rankedDescriptor(key, locator string) model.SourceDescriptor {
	return model.SourceDescriptor{
		Key:         key,
		Type:        types.SourceTypeRankedList,
		Locator:     locator,
		DisplayName: key,
	}
}

func newFetchFixture(t *testing.T, p interfaces.SourceProvider, opts ...usecase.Option) *usecase.UseCases {
	t.Helper()
	registry := provider.NewRegistry()
	registry.Register(types.SourceTypeRankedList, p)
	opts = append([]usecase.Option{usecase.WithSleeper(noSleep)}, opts...)
	return usecase.New(memory.New(), registry, opts...)
}

func TestFetchSequentialOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	active := 0
	maxActive := 0

	p := &fakeProvider{
		fetch: func(ctx context.Context, locator string, opts interfaces.FetchOptions, progress interfaces.FetchProgressFunc) ([]types.GameID, error) {
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			order = append(order, locator)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			return []types.GameID{types.GameID(locator + "-1")}, nil
		},
	}
	uc := newFetchFixture(t, p)

	descriptors := []model.SourceDescriptor{
		rankedDescriptor("a", "list-a"),
		rankedDescriptor("b", "list-b"),
		rankedDescriptor("c", "list-c"),
	}

	var events []usecase.ProgressEvent
	results, err := uc.Fetch.Run(context.Background(), descriptors, func(ev usecase.ProgressEvent) {
		events = append(events, ev)
	})
	gt.NoError(t, err).Required()

	gt.Array(t, results).Length(3)
	gt.Array(t, order).Equal([]string{"list-a", "list-b", "list-c"})
	gt.Number(t, maxActive).Equal(1)

	gt.Number(t, len(events)).GreaterOrEqual(3)
	for _, ev := range events {
		gt.Number(t, ev.Total).Equal(3)
	}
	gt.Value(t, events[0].Index).Equal(1)
	gt.Value(t, events[len(events)-1].Index).Equal(3)
}

func TestFetchPartialFailure(t *testing.T) {
	p := &fakeProvider{
		fetch: func(ctx context.Context, locator string, opts interfaces.FetchOptions, progress interfaces.FetchProgressFunc) ([]types.GameID, error) {
			if locator == "list-b" {
				return nil, context.DeadlineExceeded
			}
			return []types.GameID{types.GameID(locator)}, nil
		},
	}
	uc := newFetchFixture(t, p)

	results, err := uc.Fetch.Run(context.Background(), []model.SourceDescriptor{
		rankedDescriptor("a", "list-a"),
		rankedDescriptor("b", "list-b"),
		rankedDescriptor("c", "list-c"),
	}, nil)
	gt.NoError(t, err).Required()

	gt.Array(t, results).Length(3)
	gt.Bool(t, results[0].Succeeded()).True()
	gt.Bool(t, results[1].Succeeded()).False()
	gt.String(t, results[1].Err).NotEqual("")
	gt.Bool(t, results[2].Succeeded()).True()
}

func TestFetchRejectsConcurrentRuns(t *testing.T) {
	release := make(chan struct{})
	p := &fakeProvider{
		fetch: func(ctx context.Context, locator string, opts interfaces.FetchOptions, progress interfaces.FetchProgressFunc) ([]types.GameID, error) {
			<-release
			return []types.GameID{"g1"}, nil
		},
	}
	uc := newFetchFixture(t, p)

	descriptors := []model.SourceDescriptor{rankedDescriptor("a", "list-a")}

	run, err := uc.Fetch.Start(context.Background(), descriptors)
	gt.NoError(t, err).Required()

	// drain progress so the worker does not block on the first event
	drained := make(chan struct{})
	go func() {
		for range run.Progress {
		}
		close(drained)
	}()

	_, err = uc.Fetch.Start(context.Background(), descriptors)
	gt.Error(t, err).Is(usecase.ErrFetchInFlight)

	close(release)
	<-drained
	results := <-run.Done
	gt.Array(t, results).Length(1)

	// the guard releases once the run finishes
	results, err = uc.Fetch.Run(context.Background(), descriptors, nil)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(1)
}

func TestFetchThrottleBetweenSources(t *testing.T) {
	var mu sync.Mutex
	var slept []time.Duration
	sleeper := func(ctx context.Context, d time.Duration) {
		mu.Lock()
		slept = append(slept, d)
		mu.Unlock()
	}

	p := &fakeProvider{
		fetch: func(ctx context.Context, locator string, opts interfaces.FetchOptions, progress interfaces.FetchProgressFunc) ([]types.GameID, error) {
			return []types.GameID{"g1"}, nil
		},
	}

	registry := provider.NewRegistry()
	registry.Register(types.SourceTypeRankedList, p)
	uc := usecase.New(memory.New(), registry,
		usecase.WithSleeper(sleeper),
		usecase.WithThrottle(5*time.Second))

	_, err := uc.Fetch.Run(context.Background(), []model.SourceDescriptor{
		rankedDescriptor("a", "list-a"),
		rankedDescriptor("b", "list-b"),
		rankedDescriptor("c", "list-c"),
	}, nil)
	gt.NoError(t, err).Required()

	// two gaps for three sources, none after the last
	gt.Array(t, slept).Length(2)
	gt.Value(t, slept[0]).Equal(5 * time.Second)
	gt.Value(t, slept[1]).Equal(5 * time.Second)
}

func TestFetchForceRefreshIsOneShot(t *testing.T) {
	var mu sync.Mutex
	var flags []bool
	p := &fakeProvider{
		fetch: func(ctx context.Context, locator string, opts interfaces.FetchOptions, progress interfaces.FetchProgressFunc) ([]types.GameID, error) {
			mu.Lock()
			flags = append(flags, opts.ForceRefresh)
			mu.Unlock()
			return []types.GameID{"g1"}, nil
		},
	}
	uc := newFetchFixture(t, p)

	descriptors := []model.SourceDescriptor{
		rankedDescriptor("a", "list-a"),
		rankedDescriptor("b", "list-b"),
	}

	uc.Fetch.SetForceRefresh(true)
	_, err := uc.Fetch.Run(context.Background(), descriptors, nil)
	gt.NoError(t, err).Required()

	_, err = uc.Fetch.Run(context.Background(), descriptors, nil)
	gt.NoError(t, err).Required()

	gt.Array(t, flags).Equal([]bool{true, true, false, false})
}

func TestFetchSelectionValidation(t *testing.T) {
	p := &fakeProvider{
		fetch: func(ctx context.Context, locator string, opts interfaces.FetchOptions, progress interfaces.FetchProgressFunc) ([]types.GameID, error) {
			return nil, nil
		},
	}
	uc := newFetchFixture(t, p)

	t.Run("empty selection", func(t *testing.T) {
		_, err := uc.Fetch.Start(context.Background(), nil)
		gt.Error(t, err).Is(usecase.ErrNoSourceSelected)
	})

	t.Run("duplicate keys", func(t *testing.T) {
		_, err := uc.Fetch.Start(context.Background(), []model.SourceDescriptor{
			rankedDescriptor("a", "list-a"),
			rankedDescriptor("a", "list-a2"),
		})
		gt.Error(t, err)
	})
}

func TestFetchUnknownSourceTypeRecordedAsFailure(t *testing.T) {
	uc := newFetchFixture(t, &fakeProvider{
		fetch: func(ctx context.Context, locator string, opts interfaces.FetchOptions, progress interfaces.FetchProgressFunc) ([]types.GameID, error) {
			return nil, nil
		},
	})

	results, err := uc.Fetch.Run(context.Background(), []model.SourceDescriptor{
		{
			Key:         "curated:x",
			Type:        types.SourceTypeCuratedList,
			Locator:     "/tmp/x.toml",
			DisplayName: "x",
		},
	}, nil)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(1)
	gt.Bool(t, results[0].Succeeded()).False()
}

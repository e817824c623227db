package usecase

import (
	"context"
	"time"

	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/service/provider"
)

// DefaultThrottle is the minimum delay inserted between sequential
// source fetches. Deliberately fixed rather than adaptive.
const DefaultThrottle = 2 * time.Second

// DefaultAccount is used when no account namespace is configured
const DefaultAccount = types.AccountID("default")

// Sleeper waits for the duration or until the context is done.
// Injectable so tests do not wait on real throttle delays.
type Sleeper func(ctx context.Context, d time.Duration)

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

type UseCases struct {
	repo      interfaces.Repository
	account   types.AccountID
	throttle  time.Duration
	sleep     Sleeper
	persister interfaces.BatchPersister

	Fetch      *FetchUseCase
	Collection *CollectionUseCase
	Sync       *SyncUseCase
	Binding    *BindingUseCase
}

type Option func(*UseCases)

// WithAccount sets the account namespace for binding records
func WithAccount(account types.AccountID) Option {
	return func(uc *UseCases) {
		uc.account = account
	}
}

// WithThrottle overrides the delay between sequential source fetches
func WithThrottle(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.throttle = d
	}
}

// WithPersister installs the remote batch persistence primitive
func WithPersister(p interfaces.BatchPersister) Option {
	return func(uc *UseCases) {
		uc.persister = p
	}
}

// WithSleeper replaces the delay function (tests)
func WithSleeper(s Sleeper) Option {
	return func(uc *UseCases) {
		uc.sleep = s
	}
}

func New(repo interfaces.Repository, providers *provider.Registry, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		account:  DefaultAccount,
		throttle: DefaultThrottle,
		sleep:    sleepContext,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Fetch = NewFetchUseCase(providers, uc.throttle, uc.sleep)
	uc.Collection = NewCollectionUseCase(repo, uc.account)
	uc.Sync = NewSyncUseCase(uc.persister, uc.sleep)
	uc.Binding = NewBindingUseCase(repo, uc.Fetch, uc.Collection, uc.account)

	return uc
}

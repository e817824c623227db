package provider

import (
	"sync"

	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ErrUnknownSourceType is returned when no provider is registered for a
// source type.
var ErrUnknownSourceType = goerr.New("no provider registered for source type")

// Registry is a lookup table of source providers keyed by source type.
// The orchestrator dispatches through it instead of switching on
// concrete types.
type Registry struct {
	mu        sync.RWMutex
	providers map[types.SourceType]interfaces.SourceProvider
}

// NewRegistry creates an empty provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[types.SourceType]interfaces.SourceProvider),
	}
}

// Register installs a provider for a source type, replacing any previous one
func (r *Registry) Register(sourceType types.SourceType, p interfaces.SourceProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[sourceType] = p
}

// Get resolves the provider for a source type
func (r *Registry) Get(sourceType types.SourceType) (interfaces.SourceProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[sourceType]
	if !ok {
		return nil, goerr.Wrap(ErrUnknownSourceType, "unknown source type", goerr.V("type", sourceType))
	}
	return p, nil
}

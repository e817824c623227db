package model

import (
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// SourceDescriptor describes one selectable source in a
// selection set. Descriptors are per-session and never persisted.
type SourceDescriptor struct {
	Key         string
	Type        types.SourceType
	Locator     string
	DisplayName string
}

// Validate checks if the descriptor is usable for a fetch
func (d *SourceDescriptor) Validate() error {
	if d.Key == "" {
		return goerr.New("source key is required")
	}
	if !d.Type.IsValid() {
		return goerr.New("invalid source type", goerr.V("key", d.Key), goerr.V("type", d.Type))
	}
	if d.Locator == "" {
		return goerr.New("source locator is required", goerr.V("key", d.Key))
	}
	return nil
}

// Params returns the provenance parameters recorded for this descriptor.
// These are what a SourceBinding keeps so the fetch can be repeated later.
func (d *SourceDescriptor) Params() map[string]string {
	return map[string]string{
		"locator": d.Locator,
	}
}

package model

import (
	"time"

	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// SourceBinding records which source last populated a collection and
// with which update mode, enabling one-click re-fetch. A binding whose
// collection no longer exists is an orphan; orphans are removed only by
// explicit cleanup.
type SourceBinding struct {
	CollectionID types.CollectionID
	SourceType   types.SourceType
	SourceParams map[string]string
	DisplayName  string
	UpdateMode   types.UpdateMode
	UpdatedAt    time.Time
}

// Validate checks if the binding is complete enough to persist
func (b *SourceBinding) Validate() error {
	if b.CollectionID == "" {
		return goerr.New("binding collection ID is required")
	}
	if !b.SourceType.IsValid() {
		return goerr.New("invalid binding source type",
			goerr.V("collection_id", b.CollectionID), goerr.V("type", b.SourceType))
	}
	if len(b.SourceParams) == 0 {
		return goerr.New("binding source params are required",
			goerr.V("collection_id", b.CollectionID))
	}
	if !b.UpdateMode.Normalize().IsValid() {
		return goerr.New("invalid binding update mode",
			goerr.V("collection_id", b.CollectionID), goerr.V("mode", b.UpdateMode))
	}
	return nil
}

// Clone returns a deep copy of the binding
func (b *SourceBinding) Clone() *SourceBinding {
	copied := &SourceBinding{
		CollectionID: b.CollectionID,
		SourceType:   b.SourceType,
		DisplayName:  b.DisplayName,
		UpdateMode:   b.UpdateMode,
		UpdatedAt:    b.UpdatedAt,
	}
	if b.SourceParams != nil {
		copied.SourceParams = make(map[string]string, len(b.SourceParams))
		for k, v := range b.SourceParams {
			copied.SourceParams[k] = v
		}
	}
	return copied
}

package model

import "github.com/ludo-lab/gameshelf/pkg/domain/types"

// FetchResult is the outcome of fetching one source (or of merging
// several). It is consumed by exactly one action and then discarded.
type FetchResult struct {
	SourceKey    string
	DisplayName  string
	SourceType   types.SourceType
	SourceParams map[string]string
	IDs          GameSet
	Err          string
}

// Succeeded reports whether the fetch completed without error.
// A successful fetch may still carry an empty id set.
func (r *FetchResult) Succeeded() bool {
	return r.Err == ""
}

// HasProvenance reports whether the result carries enough source
// information to write a binding for later re-fetch.
func (r *FetchResult) HasProvenance() bool {
	return r.SourceType != "" && len(r.SourceParams) > 0
}

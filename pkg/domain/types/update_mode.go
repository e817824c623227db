package types

import "fmt"

// UpdateMode controls how a fetched id set is applied to a collection
type UpdateMode string

const (
	// UpdateModeIncremental adds new ids and removes ids no longer listed upstream.
	UpdateModeIncremental UpdateMode = "incremental"
	// UpdateModeIncrementalArchive behaves like incremental, but displaced ids
	// are moved into an archive collection instead of being dropped.
	UpdateModeIncrementalArchive UpdateMode = "incremental_archive"
	// UpdateModeReplace makes the collection mirror the source exactly,
	// discarding manual additions.
	UpdateModeReplace UpdateMode = "replace"
)

// AllUpdateModes returns all valid update modes
func AllUpdateModes() []UpdateMode {
	return []UpdateMode{
		UpdateModeIncremental,
		UpdateModeIncrementalArchive,
		UpdateModeReplace,
	}
}

// IsValid checks if the update mode is valid
func (m UpdateMode) IsValid() bool {
	switch m {
	case UpdateModeIncremental,
		UpdateModeIncrementalArchive,
		UpdateModeReplace:
		return true
	default:
		return false
	}
}

// Normalize returns the mode, treating empty as UpdateModeIncremental.
func (m UpdateMode) Normalize() UpdateMode {
	if m == "" {
		return UpdateModeIncremental
	}
	return m
}

// String returns the string representation of the update mode
func (m UpdateMode) String() string {
	return string(m)
}

// ParseUpdateMode parses a string into an UpdateMode
func ParseUpdateMode(s string) (UpdateMode, error) {
	mode := UpdateMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid update mode: %s", s)
	}
	return mode, nil
}

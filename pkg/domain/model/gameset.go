package model

import (
	"sort"

	"github.com/ludo-lab/gameshelf/pkg/domain/types"
)

// GameSet is a deduplicated, unordered set of game identifiers
type GameSet map[types.GameID]struct{}

// NewGameSet builds a set from the given ids, dropping duplicates and empties
func NewGameSet(ids ...types.GameID) GameSet {
	s := make(GameSet, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		s[id] = struct{}{}
	}
	return s
}

// Add inserts an id into the set
func (s GameSet) Add(id types.GameID) {
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

// Contains reports whether the id is a member of the set
func (s GameSet) Contains(id types.GameID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members
func (s GameSet) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set
func (s GameSet) Clone() GameSet {
	c := make(GameSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Union returns a new set containing members of both sets
func (s GameSet) Union(other GameSet) GameSet {
	u := s.Clone()
	for id := range other {
		u[id] = struct{}{}
	}
	return u
}

// Diff returns the members of s that are not in other
func (s GameSet) Diff(other GameSet) GameSet {
	d := make(GameSet)
	for id := range s {
		if !other.Contains(id) {
			d[id] = struct{}{}
		}
	}
	return d
}

// Equal reports whether both sets have exactly the same members
func (s GameSet) Equal(other GameSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// IDs returns the members as a sorted slice for stable output
func (s GameSet) IDs() []types.GameID {
	ids := make([]types.GameID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

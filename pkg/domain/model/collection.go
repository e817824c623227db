package model

import (
	"time"

	"github.com/ludo-lab/gameshelf/pkg/domain/types"
)

// ArchiveNameSuffix is appended to a collection name to derive the
// auxiliary collection that keeps ids displaced by incremental updates.
const ArchiveNameSuffix = " (archive)"

// Collection is a named, deduplicated set of game identifiers owned by
// the user. Member order carries no meaning.
type Collection struct {
	ID        types.CollectionID
	Name      string
	MemberIDs GameSet
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ArchiveName returns the name of the collection's archive counterpart
func (c *Collection) ArchiveName() string {
	return c.Name + ArchiveNameSuffix
}

// Clone returns a deep copy of the collection
func (c *Collection) Clone() *Collection {
	copied := &Collection{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.MemberIDs != nil {
		copied.MemberIDs = c.MemberIDs.Clone()
	}
	return copied
}

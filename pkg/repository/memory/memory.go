package memory

import (
	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	collection *collectionRepository
	binding    *bindingRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		collection: newCollectionRepository(),
		binding:    newBindingRepository(),
	}
}

func (m *Memory) Collection() interfaces.CollectionRepository {
	return m.collection
}

func (m *Memory) Binding() interfaces.BindingRepository {
	return m.binding
}

func (m *Memory) Close() error {
	return nil
}

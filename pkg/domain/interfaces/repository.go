package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Collection() CollectionRepository
	Binding() BindingRepository

	// Close releases any resources held by the backend
	Close() error
}

package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// In-flight guards
	ErrFetchInFlight = errors.New("a fetch is already in progress")
	ErrSyncInFlight  = errors.New("a sync is already in progress")

	// Fetch / merge errors
	ErrNoSourceSelected   = errors.New("no source selected")
	ErrNoSuccessfulSource = errors.New("no source fetched successfully")

	// Reconciliation errors
	ErrCollectionNotFound = errors.New("collection not found")

	// Sync errors
	ErrInvalidBatchSize = errors.New("batch size must be positive")
	ErrNoPersister      = errors.New("no batch persister configured")
)

package domain

import "errors"

var (
	// ErrEmptyCatalog is returned when the catalog has no entries to index
	ErrEmptyCatalog = errors.New("catalog has no entries")

	// ErrCatalogNotReady is returned when matching is invoked before an index was built
	ErrCatalogNotReady = errors.New("catalog index not built")

	// ErrStrainNotFound is returned when no aggregate exists for a strain name
	ErrStrainNotFound = errors.New("strain not found in aggregate store")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidManifest is returned when a manifest document has no item array
	ErrInvalidManifest = errors.New("manifest contains no item array")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrTransferAPIFailure is returned when a remote manifest fetch fails
	ErrTransferAPIFailure = errors.New("transfer API request failed")
)

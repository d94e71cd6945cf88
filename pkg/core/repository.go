package core

import (
	"context"
	"time"
)

// Repository defines the contract for storing and retrieving documents.
// Adhering to this interface keeps the core independent of the underlying
// storage mechanism (Filesystem, SQL, S3, etc).
type Repository interface {
	// Initialize ensures the underlying storage is ready (e.g. create
	// directories, load the index).
	Initialize(ctx context.Context) error

	// Save persists a document. It creates if the key is absent, or replaces
	// if present; the original creation timestamp survives a replace.
	Save(ctx context.Context, doc Document) error

	// Get retrieves a document by key. An absent key fails with ErrNotFound;
	// an indexed key whose backing record is missing or unparsable fails
	// with ErrConsistency.
	Get(ctx context.Context, key string) (Document, error)

	// Delete removes a document and its index entry. Deleting an absent key
	// is a no-op, not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all document keys currently in the index, sorted.
	Keys(ctx context.Context) ([]string, error)

	// SearchByTag returns all documents whose tag set contains the tag
	// (exact, case-sensitive).
	SearchByTag(ctx context.Context, tag string) ([]Document, error)

	// SearchByType returns all documents with the exact type label.
	SearchByType(ctx context.Context, docType string) ([]Document, error)

	// SearchContent returns all documents whose content contains the query,
	// case-insensitively. Cost is linear in total content size: every
	// document record is loaded.
	SearchContent(ctx context.Context, query string) ([]Document, error)

	// KeysByDateRange returns the keys of documents created within the
	// inclusive range [start, end], answered from the index alone.
	KeysByDateRange(ctx context.Context, start, end time.Time) ([]string, error)

	// Stats computes repository statistics from the index alone.
	Stats(ctx context.Context) (Stats, error)
}

// Maintainer defines an interface for repositories that support explicit
// maintenance. Resync rebuilds the index from the records actually on disk:
// orphan records are adopted, dangling index entries dropped.
type Maintainer interface {
	Resync(ctx context.Context) (ResyncReport, error)
}

// Watchable defines an interface for repositories that can emit change
// events for documents whose keys match a glob pattern.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

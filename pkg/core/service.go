package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Service handles the business logic for documents.
type Service struct {
	repo Repository
	mu   sync.RWMutex
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SaveDocument validates and persists a document.
func (s *Service) SaveDocument(ctx context.Context, doc Document) error {
	if err := ValidateKey(doc.Key); err != nil {
		return err
	}
	return s.repo.Save(ctx, doc)
}

// GetDocument retrieves a document.
func (s *Service) GetDocument(ctx context.Context, key string) (Document, error) {
	if key == "" {
		return Document{}, errors.New("document key cannot be empty")
	}
	return s.repo.Get(ctx, key)
}

// DeleteDocument removes a document. Deleting an absent key is a no-op.
func (s *Service) DeleteDocument(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("document key cannot be empty")
	}
	return s.repo.Delete(ctx, key)
}

// ListKeys returns all document keys.
func (s *Service) ListKeys(ctx context.Context) ([]string, error) {
	return s.repo.Keys(ctx)
}

// SearchByTag returns all documents carrying the tag.
func (s *Service) SearchByTag(ctx context.Context, tag string) ([]Document, error) {
	return s.repo.SearchByTag(ctx, tag)
}

// SearchByType returns all documents with the type label.
func (s *Service) SearchByType(ctx context.Context, docType string) ([]Document, error) {
	return s.repo.SearchByType(ctx, docType)
}

// SearchContent returns all documents containing the query text.
func (s *Service) SearchContent(ctx context.Context, query string) ([]Document, error) {
	return s.repo.SearchContent(ctx, query)
}

// KeysByDateRange returns the keys of documents created in [start, end].
func (s *Service) KeysByDateRange(ctx context.Context, start, end time.Time) ([]string, error) {
	return s.repo.KeysByDateRange(ctx, start, end)
}

// Stats returns repository statistics.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

// Resync rebuilds the index from storage if the repository supports it.
// Exposed for maintenance tooling; the normal read/write path never repairs.
func (s *Service) Resync(ctx context.Context) (ResyncReport, error) {
	m, ok := s.repo.(Maintainer)
	if !ok {
		return ResyncReport{}, errors.New("repository does not support maintenance resync")
	}
	return m.Resync(ctx)
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, pattern)
}

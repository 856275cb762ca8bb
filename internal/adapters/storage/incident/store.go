package incident

import (
	"context"

	"ergosanitas/internal/adapters/storage/document"
	domain "ergosanitas/internal/domain/incident"
)

// Store persists the newest-first incident history.
type Store interface {
	All(ctx context.Context) ([]domain.Incident, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Incident, error)
	Replace(ctx context.Context, history []domain.Incident) error
	Clear(ctx context.Context) error
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit    int
	Offset   int
	Severity domain.Severity
}

// DocumentStore implements Store under KeyIncidentHistory.
type DocumentStore struct {
	doc document.Doc[[]domain.Incident]
}

var _ Store = (*DocumentStore)(nil)

// NewDocumentStore creates a new incident Store.
func NewDocumentStore(docs document.Store) *DocumentStore {
	return &DocumentStore{doc: document.Doc[[]domain.Incident]{Store: docs, Key: document.KeyIncidentHistory}}
}

// All returns the full history, newest first. Never nil.
func (s *DocumentStore) All(ctx context.Context) ([]domain.Incident, error) {
	return s.List(ctx, ListFilter{})
}

// List returns the history, newest first, filtered and paged.
// POST: never nil; empty when nothing is stored
func (s *DocumentStore) List(ctx context.Context, filter ListFilter) ([]domain.Incident, error) {
	history, _, err := s.doc.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Incident, 0, len(history))
	for _, inc := range history {
		if filter.Severity != "" && inc.Severity != filter.Severity {
			continue
		}
		out = append(out, inc)
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []domain.Incident{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Replace writes the full history.
func (s *DocumentStore) Replace(ctx context.Context, history []domain.Incident) error {
	if history == nil {
		history = []domain.Incident{}
	}
	return s.doc.Save(ctx, history)
}

// Clear removes the history.
func (s *DocumentStore) Clear(ctx context.Context) error {
	return s.doc.Clear(ctx)
}

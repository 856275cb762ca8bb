package brigadista

import (
	"context"

	"ergosanitas/internal/adapters/storage/document"
	domain "ergosanitas/internal/domain/brigadista"
)

// Store persists the brigade Status singleton.
type Store interface {
	Get(ctx context.Context) (domain.Status, bool, error)
	Save(ctx context.Context, value domain.Status) error
	Clear(ctx context.Context) error
}

// DocumentStore implements Store under KeyBrigadistaStatus.
type DocumentStore struct {
	document.Doc[domain.Status]
}

var _ Store = (*DocumentStore)(nil)

// NewDocumentStore creates a new status Store.
func NewDocumentStore(docs document.Store) *DocumentStore {
	return &DocumentStore{document.Doc[domain.Status]{Store: docs, Key: document.KeyBrigadistaStatus}}
}

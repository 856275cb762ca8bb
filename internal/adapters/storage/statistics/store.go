package statistics

import (
	"context"

	"ergosanitas/internal/adapters/storage/document"
	domain "ergosanitas/internal/domain/statistics"
)

// Store persists the cached Statistics aggregate.
type Store interface {
	Get(ctx context.Context) (domain.Statistics, bool, error)
	Save(ctx context.Context, value domain.Statistics) error
	Clear(ctx context.Context) error
}

// DocumentStore implements Store under KeyStatistics.
type DocumentStore struct {
	document.Doc[domain.Statistics]
}

var _ Store = (*DocumentStore)(nil)

// NewDocumentStore creates a new statistics Store.
func NewDocumentStore(docs document.Store) *DocumentStore {
	return &DocumentStore{document.Doc[domain.Statistics]{Store: docs, Key: document.KeyStatistics}}
}

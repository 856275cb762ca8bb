package club

import (
	"context"

	"ergosanitas/internal/adapters/storage/document"
	domain "ergosanitas/internal/domain/club"
)

// Store persists the league roster.
type Store interface {
	Get(ctx context.Context) (domain.Data, bool, error)
	Save(ctx context.Context, value domain.Data) error
	Clear(ctx context.Context) error
}

// DocumentStore implements Store under KeyClubData.
type DocumentStore struct {
	document.Doc[domain.Data]
}

var _ Store = (*DocumentStore)(nil)

// NewDocumentStore creates a new club Store.
func NewDocumentStore(docs document.Store) *DocumentStore {
	return &DocumentStore{document.Doc[domain.Data]{Store: docs, Key: document.KeyClubData}}
}

package session

import (
	"context"

	"ergosanitas/internal/adapters/storage/document"
	domain "ergosanitas/internal/domain/user"
)

// Store persists the workstation's signed-in user.
type Store interface {
	Get(ctx context.Context) (domain.Session, bool, error)
	Save(ctx context.Context, value domain.Session) error
	Clear(ctx context.Context) error
}

// DocumentStore implements Store under KeyCurrentUser.
type DocumentStore struct {
	document.Doc[domain.Session]
}

var _ Store = (*DocumentStore)(nil)

// NewDocumentStore creates a new session Store.
func NewDocumentStore(docs document.Store) *DocumentStore {
	return &DocumentStore{document.Doc[domain.Session]{Store: docs, Key: document.KeyCurrentUser}}
}

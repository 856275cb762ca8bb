package alert

import (
	"ergosanitas/internal/adapters/storage/document"
	domain "ergosanitas/internal/domain/alert"
)

// DocumentStore implements Store under KeyCurrentAlert.
type DocumentStore struct {
	document.Doc[domain.Alert]
}

var _ Store = (*DocumentStore)(nil)

// NewDocumentStore creates a new alert Store.
func NewDocumentStore(docs document.Store) *DocumentStore {
	return &DocumentStore{document.Doc[domain.Alert]{Store: docs, Key: document.KeyCurrentAlert}}
}

package user

import (
	"context"

	"ergosanitas/internal/adapters/storage/document"
	domain "ergosanitas/internal/domain/user"
)

// Store persists the user list.
type Store interface {
	// List returns all users; found is false when no list was ever stored.
	List(ctx context.Context) (users []domain.User, found bool, err error)
	Replace(ctx context.Context, users []domain.User) error
	Clear(ctx context.Context) error
}

// DocumentStore implements Store under KeyUsers.
type DocumentStore struct {
	doc document.Doc[[]domain.User]
}

var _ Store = (*DocumentStore)(nil)

// NewDocumentStore creates a new user Store.
func NewDocumentStore(docs document.Store) *DocumentStore {
	return &DocumentStore{doc: document.Doc[[]domain.User]{Store: docs, Key: document.KeyUsers}}
}

// List returns the stored users.
func (s *DocumentStore) List(ctx context.Context) ([]domain.User, bool, error) {
	users, found, err := s.doc.Get(ctx)
	if err != nil {
		return nil, false, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, found, nil
}

// Replace writes the full list.
func (s *DocumentStore) Replace(ctx context.Context, users []domain.User) error {
	if users == nil {
		users = []domain.User{}
	}
	return s.doc.Save(ctx, users)
}

// Clear removes the list.
func (s *DocumentStore) Clear(ctx context.Context) error {
	return s.doc.Clear(ctx)
}

// FindByUsername returns the user with exactly username.
func FindByUsername(users []domain.User, username string) (domain.User, bool) {
	for _, u := range users {
		if u.Username == username {
			return u, true
		}
	}
	return domain.User{}, false
}

// IndexOf returns the position of id in users, or -1.
func IndexOf(users []domain.User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

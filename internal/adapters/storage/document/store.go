// Package document is the key-value adapter every repository persists through.
// Values are JSON documents stored under fixed keys.
package document

import (
	"context"
	"encoding/json"
	"time"

	"ergosanitas/internal/domain/apperr"
)

// Stable storage keys.
const (
	KeyCurrentAlert     = "ergosanitas_current_alert"
	KeyBrigadistaStatus = "ergosanitas_brigadista_status"
	KeyIncidentHistory  = "ergosanitas_incident_history"
	KeyClubData         = "ergosanitas_club_data"
	KeyStatistics       = "ergosanitas_statistics"
	KeyUsers            = "ergosanitas_users"
	KeyCurrentUser      = "ergosanitas_current_user"
)

// Named pairs a semantic name with its storage key.
type Named struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// Keys lists every key the module owns, in a stable order.
func Keys() []Named {
	return []Named{
		{"CURRENT_ALERT", KeyCurrentAlert},
		{"BRIGADISTA_STATUS", KeyBrigadistaStatus},
		{"INCIDENT_HISTORY", KeyIncidentHistory},
		{"CLUB_DATA", KeyClubData},
		{"STATISTICS", KeyStatistics},
		{"USERS", KeyUsers},
		{"CURRENT_USER", KeyCurrentUser},
	}
}

// Store reads and writes raw documents.
type Store interface {
	Read(ctx context.Context, key string) (value string, found bool, err error)
	Write(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Change is a write observed by a view other than the one that made it.
type Change struct {
	Key     string    `json:"key"`
	Value   string    `json:"value,omitempty"`
	Removed bool      `json:"removed,omitempty"`
	Origin  string    `json:"origin"`
	At      time.Time `json:"at"`
}

// Watcher delivers foreign changes until ctx is cancelled.
// Watch blocks; it returns ctx.Err() on cancellation or a backend error.
type Watcher interface {
	Watch(ctx context.Context, fn func(Change)) error
}

// NoopWatcher never delivers anything.
type NoopWatcher struct{}

// Watch blocks until ctx is done.
func (NoopWatcher) Watch(ctx context.Context, _ func(Change)) error {
	<-ctx.Done()
	return ctx.Err()
}

// GetJSON decodes the document at key into v.
// POST: found is false and v untouched when the key is absent
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, found, err := s.Read(ctx, key)
	if err != nil {
		return false, apperr.Storage("read "+key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, apperr.Storage("decode "+key, err)
	}
	return true, nil
}

// PutJSON encodes v and writes it under key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return apperr.Storage("encode "+key, err)
	}
	if err := s.Write(ctx, key, string(raw)); err != nil {
		return apperr.Storage("write "+key, err)
	}
	return nil
}

// Delete removes key, classifying failures as storage errors.
func Delete(ctx context.Context, s Store, key string) error {
	if err := s.Remove(ctx, key); err != nil {
		return apperr.Storage("remove "+key, err)
	}
	return nil
}

// Doc is a typed view of one key.
type Doc[T any] struct {
	Store Store
	Key   string
}

// Get decodes the document. found is false when the key is absent.
func (d Doc[T]) Get(ctx context.Context) (T, bool, error) {
	var v T
	found, err := GetJSON(ctx, d.Store, d.Key, &v)
	return v, found, err
}

// Save encodes and writes v.
func (d Doc[T]) Save(ctx context.Context, v T) error {
	return PutJSON(ctx, d.Store, d.Key, v)
}

// Clear removes the document.
func (d Doc[T]) Clear(ctx context.Context) error {
	return Delete(ctx, d.Store, d.Key)
}

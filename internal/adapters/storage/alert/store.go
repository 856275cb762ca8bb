package alert

import (
	"context"

	domain "ergosanitas/internal/domain/alert"
)

// Store persists the single current Alert.
type Store interface {
	Get(ctx context.Context) (domain.Alert, bool, error)
	Save(ctx context.Context, value domain.Alert) error
	Clear(ctx context.Context) error
}

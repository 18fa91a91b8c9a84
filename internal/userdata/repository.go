package userdata

import "context"

// Repository persists one document per storage key. Load returns (nil, nil)
// when no document exists for the key; read errors are surfaced so the
// service can decide how to recover.
type Repository interface {
	Load(ctx context.Context, key string) (*Document, error)
	Save(ctx context.Context, key string, doc *Document) error
}

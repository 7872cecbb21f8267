package repository

import "context"

// SnapshotRepository is the durable key-value store behind draft autosave.
// Load returns (nil, nil) when the key is absent.
type SnapshotRepository interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

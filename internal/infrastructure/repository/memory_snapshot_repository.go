package repository

import (
	"context"
	"sync"

	"github.com/sangkips/po-composer/internal/domain/repository"
)

type memorySnapshotRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemorySnapshotRepository creates a process-local snapshot repository.
// Snapshots do not survive a restart.
func NewMemorySnapshotRepository() repository.SnapshotRepository {
	return &memorySnapshotRepository{data: make(map[string][]byte)}
}

func (r *memorySnapshotRepository) Load(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payload, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}

func (r *memorySnapshotRepository) Save(_ context.Context, key string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = append([]byte(nil), payload...)
	return nil
}

func (r *memorySnapshotRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

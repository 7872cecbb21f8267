package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/internal/domain/enum"
	"github.com/sangkips/po-composer/internal/domain/repository"
	"github.com/sangkips/po-composer/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// PersistenceManager autosaves a session's draft to the snapshot store and
// offers a previously saved draft for restore.
//
// The state is Dirty while the change version is ahead of the version last
// written, so an edit landing during a save keeps the draft Dirty. Storage
// failures are logged and swallowed; the in-memory draft is never affected.
type PersistenceManager struct {
	repo   repository.SnapshotRepository
	key    string
	source func() entity.Draft
	logger logrus.FieldLogger

	// io serializes store access so a delete cannot be overtaken by an
	// older save.
	io sync.Mutex

	mu      sync.Mutex
	version uint64
	saved   uint64
	pending *entity.Draft
}

// NewPersistenceManager creates a manager writing under key. source must
// return a consistent snapshot of the current draft.
func NewPersistenceManager(repo repository.SnapshotRepository, key string, source func() entity.Draft, logger logrus.FieldLogger) *PersistenceManager {
	return &PersistenceManager{
		repo:   repo,
		key:    key,
		source: source,
		logger: logger.WithField("snapshot_key", key),
	}
}

// Key returns the snapshot key
func (m *PersistenceManager) Key() string {
	return m.key
}

// Observe is a DraftListener: user edits mark the draft dirty, resets and
// restores do not.
func (m *PersistenceManager) Observe(ev DraftEvent) {
	if ev.Kind.IsUserEdit() {
		m.MarkDirty()
	}
}

// MarkDirty records an unsaved change
func (m *PersistenceManager) MarkDirty() {
	m.mu.Lock()
	m.version++
	m.mu.Unlock()
}

// State returns Idle when everything has been written, Dirty otherwise.
func (m *PersistenceManager) State() enum.PersistenceState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *PersistenceManager) stateLocked() enum.PersistenceState {
	if m.version != m.saved {
		return enum.PersistenceStateDirty
	}
	return enum.PersistenceStateIdle
}

// Tick writes the current draft if it is dirty and reports whether a write
// happened. Nothing is written while a restore decision is pending, so the
// saved draft cannot be overwritten before the user has seen it.
func (m *PersistenceManager) Tick(ctx context.Context) bool {
	m.io.Lock()
	defer m.io.Unlock()

	m.mu.Lock()
	if m.pending != nil || m.version == m.saved {
		m.mu.Unlock()
		return false
	}
	version := m.version
	m.mu.Unlock()

	payload, err := json.Marshal(m.source())
	if err != nil {
		m.logStorageError(apperror.NewStorageError("encode", m.key, err))
		return false
	}
	if err := m.repo.Save(ctx, m.key, payload); err != nil {
		m.logStorageError(apperror.NewStorageError("save", m.key, err))
		return false
	}

	m.mu.Lock()
	if version > m.saved {
		m.saved = version
	}
	m.mu.Unlock()

	m.logger.WithField("bytes", len(payload)).Debug("draft autosaved")
	return true
}

// Run calls Tick every interval until ctx is done.
func (m *PersistenceManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick(ctx)
		}
	}
}

// LoadPending reads the saved draft, if any, and holds it for the user to
// accept or discard. A missing, unreadable or corrupt snapshot counts as
// nothing to restore.
func (m *PersistenceManager) LoadPending(ctx context.Context) (*entity.Draft, bool) {
	m.io.Lock()
	defer m.io.Unlock()

	payload, err := m.repo.Load(ctx, m.key)
	if err != nil {
		m.logStorageError(apperror.NewStorageError("load", m.key, err))
		return nil, false
	}
	if payload == nil {
		return nil, false
	}

	var draft entity.Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		m.logStorageError(apperror.NewStorageError("decode", m.key, err))
		return nil, false
	}

	m.mu.Lock()
	m.pending = &draft
	m.mu.Unlock()

	out := draft.Clone()
	return &out, true
}

// Pending returns the draft awaiting a restore decision
func (m *PersistenceManager) Pending() (*entity.Draft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return nil, false
	}
	out := m.pending.Clone()
	return &out, true
}

// Accept hands the pending draft over for restoring. The store and the
// snapshot then agree, so the state becomes Idle.
func (m *PersistenceManager) Accept() (*entity.Draft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return nil, false
	}
	draft := m.pending
	m.pending = nil
	m.saved = m.version
	return draft, true
}

// Discard deletes the saved draft and drops the pending decision.
func (m *PersistenceManager) Discard(ctx context.Context) bool {
	m.io.Lock()
	defer m.io.Unlock()

	m.mu.Lock()
	hadPending := m.pending != nil
	m.pending = nil
	m.mu.Unlock()

	m.delete(ctx)
	return hadPending
}

// Clear deletes the saved draft unconditionally and returns to Idle. It runs
// after a successful submission and on an explicit clear.
func (m *PersistenceManager) Clear(ctx context.Context) {
	m.io.Lock()
	defer m.io.Unlock()

	m.mu.Lock()
	m.pending = nil
	m.saved = m.version
	m.mu.Unlock()

	m.delete(ctx)
}

func (m *PersistenceManager) delete(ctx context.Context) {
	if err := m.repo.Delete(ctx, m.key); err != nil {
		m.logStorageError(apperror.NewStorageError("delete", m.key, err))
	}
}

func (m *PersistenceManager) logStorageError(err *apperror.StorageError) {
	m.logger.WithFields(logrus.Fields{
		"op": err.Op,
	}).WithError(err.Err).Warn("draft snapshot storage failed")
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/internal/domain/enum"
	"github.com/sangkips/po-composer/internal/domain/repository"
	"github.com/sangkips/po-composer/pkg/apperror"
	"github.com/sangkips/po-composer/pkg/utils"
	"github.com/sirupsen/logrus"
)

// SessionConfig holds session lifecycle settings
type SessionConfig struct {
	AutosaveInterval time.Duration
	IdleTTL          time.Duration
	CleanupInterval  time.Duration
	KeyPrefix        string
}

// DraftView is what a client sees of its session's draft
type DraftView struct {
	SessionID        uuid.UUID             `json:"session_id"`
	Draft            entity.Draft          `json:"draft"`
	Totals           entity.Totals         `json:"totals"`
	State            enum.PersistenceState `json:"persistence_state"`
	RestoreAvailable bool                  `json:"restore_available"`
	SavedDraft       *entity.Draft         `json:"saved_draft,omitempty"`
}

// SessionManager owns every live draft session of the process
type SessionManager struct {
	cfg         SessionConfig
	snapshots   repository.SnapshotRepository
	catalogRepo repository.CatalogRepository
	orderRepo   repository.OrderRepository
	submissions *SubmissionService
	tokens      *utils.JWTManager
	logger      logrus.FieldLogger
	now         func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	loopCtx  context.Context
	stop     context.CancelFunc
	wg       sync.WaitGroup
}

// NewSessionManager creates a new session manager
func NewSessionManager(
	cfg SessionConfig,
	snapshots repository.SnapshotRepository,
	catalogRepo repository.CatalogRepository,
	orderRepo repository.OrderRepository,
	submissions *SubmissionService,
	tokens *utils.JWTManager,
	logger logrus.FieldLogger,
) *SessionManager {
	loopCtx, stop := context.WithCancel(context.Background())
	return &SessionManager{
		cfg:         cfg,
		snapshots:   snapshots,
		catalogRepo: catalogRepo,
		orderRepo:   orderRepo,
		submissions: submissions,
		tokens:      tokens,
		logger:      logger.WithField("module", "sessions"),
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*Session),
		loopCtx:     loopCtx,
		stop:        stop,
	}
}

// Open starts a draft session and returns it with a signed token. When
// existingID is set the session keeps that id: a live engine under it is
// flushed and replaced by a fresh one, and the saved draft is offered for
// restore again.
func (m *SessionManager) Open(ctx context.Context, existingID *uuid.UUID) (*Session, string, error) {
	id := uuid.New()
	if existingID != nil {
		id = *existingID
	}

	m.mu.Lock()
	old := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if old != nil {
		m.close(ctx, old)
	}

	token, err := m.tokens.GenerateSessionToken(id)
	if err != nil {
		return nil, "", err
	}

	s := m.newSession(ctx, id)
	m.register(s)

	s.logger.WithField("restore_available", s.RestoreAvailable()).Info("session opened")
	return s, token, nil
}

// Get returns the live session for id. A session evicted for idleness or
// lost to a restart is re-created from its saved draft.
func (m *SessionManager) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	if id == uuid.Nil {
		return nil, apperror.ErrSessionNotFound
	}

	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		s.touch(m.now())
		return s, nil
	}

	s = m.newSession(ctx, id)
	if live := m.register(s); live != s {
		s.stopLoop()
		live.touch(m.now())
		return live, nil
	}

	s.logger.Info("session resumed")
	return s, nil
}

// ValidateToken resolves a session token to its session id
func (m *SessionManager) ValidateToken(token string) (uuid.UUID, error) {
	claims, err := m.tokens.ValidateSessionToken(token)
	if err != nil {
		return uuid.Nil, apperror.ErrInvalidToken
	}
	return claims.SessionID, nil
}

// Len returns the number of live sessions
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Start runs the idle-session cleanup loop until Shutdown.
func (m *SessionManager) Start() {
	if m.cfg.CleanupInterval <= 0 {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.cfg.CleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-m.loopCtx.Done():
				return
			case <-ticker.C:
				m.EvictIdle(m.loopCtx)
			}
		}
	}()
}

// EvictIdle closes sessions idle for longer than the configured TTL, saving
// any unsaved edits first. It returns the number evicted.
func (m *SessionManager) EvictIdle(ctx context.Context) int {
	if m.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.lastSeen().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		m.close(ctx, s)
		s.logger.Info("idle session evicted")
	}
	return len(idle)
}

// Shutdown stops the background loops and flushes every live session.
func (m *SessionManager) Shutdown(ctx context.Context) {
	m.stop()
	m.wg.Wait()

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		m.close(ctx, s)
	}
	m.logger.WithField("sessions", len(sessions)).Info("sessions flushed")
}

// register stores s unless another goroutine got there first, and returns
// the session now registered under the id.
func (m *SessionManager) register(s *Session) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if live, ok := m.sessions[s.ID]; ok {
		return live
	}
	m.sessions[s.ID] = s
	return s
}

func (m *SessionManager) close(ctx context.Context, s *Session) {
	s.stopLoop()
	s.persistence.Tick(ctx)
}

func (m *SessionManager) newSession(ctx context.Context, id uuid.UUID) *Session {
	logger := m.logger.WithField("session_id", id.String())

	s := &Session{
		ID:          id,
		defaults:    m.draftDefaults,
		catalog:     NewCatalogService(m.catalogRepo, logger),
		submissions: m.submissions,
		logger:      logger,
		seen:        m.now(),
		done:        make(chan struct{}),
	}
	s.store = NewDraftStore(s.defaults(ctx, logger))
	s.persistence = NewPersistenceManager(m.snapshots, m.snapshotKey(id), s.snapshot, logger)
	s.store.Subscribe(s.persistence.Observe)
	s.store.Initialize()
	s.persistence.LoadPending(ctx)

	loopCtx, cancel := context.WithCancel(m.loopCtx)
	s.cancel = cancel
	if m.cfg.AutosaveInterval > 0 {
		go func() {
			defer close(s.done)
			s.persistence.Run(loopCtx, m.cfg.AutosaveInterval)
		}()
	} else {
		close(s.done)
	}
	return s
}

// draftDefaults returns today's date and the backend's next order number.
// The number is left blank when the backend cannot be reached.
func (m *SessionManager) draftDefaults(ctx context.Context, logger logrus.FieldLogger) entity.DraftDefaults {
	defaults := entity.DraftDefaults{PODate: m.now().Format("2006-01-02")}
	poNumber, err := m.orderRepo.NextPONumber(ctx)
	if err != nil {
		logger.WithError(err).Warn("next order number unavailable")
		return defaults
	}
	defaults.PONumber = poNumber
	return defaults
}

func (m *SessionManager) snapshotKey(id uuid.UUID) string {
	return m.cfg.KeyPrefix + ":" + id.String()
}

// Session is one browser's draft engine: a Draft Store, its Persistence
// Manager and a catalog cache. All Draft Store access goes through mu.
type Session struct {
	ID uuid.UUID

	mu          sync.Mutex
	store       *DraftStore
	persistence *PersistenceManager
	catalog     *CatalogService
	submissions *SubmissionService
	defaults    func(context.Context, logrus.FieldLogger) entity.DraftDefaults
	logger      logrus.FieldLogger

	seenMu sync.Mutex
	seen   time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func (s *Session) snapshot() entity.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

func (s *Session) touch(t time.Time) {
	s.seenMu.Lock()
	s.seen = t
	s.seenMu.Unlock()
}

func (s *Session) lastSeen() time.Time {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	return s.seen
}

func (s *Session) stopLoop() {
	s.cancel()
	<-s.done
}

// Catalog returns the session's catalog cache
func (s *Session) Catalog() *CatalogService {
	return s.catalog
}

// Persistence returns the session's persistence manager
func (s *Session) Persistence() *PersistenceManager {
	return s.persistence
}

// RestoreAvailable reports whether a saved draft awaits a decision
func (s *Session) RestoreAvailable() bool {
	_, ok := s.persistence.Pending()
	return ok
}

// Subscribe registers a listener on the session's draft.
func (s *Session) Subscribe(l DraftListener) func() {
	s.mu.Lock()
	unsubscribe := s.store.Subscribe(l)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		unsubscribe()
		s.mu.Unlock()
	}
}

// View returns the draft, its totals and persistence status.
func (s *Session) View() DraftView {
	s.mu.Lock()
	view := DraftView{
		SessionID: s.ID,
		Draft:     s.store.Snapshot(),
		Totals:    s.store.Totals(),
	}
	s.mu.Unlock()

	view.State = s.persistence.State()
	view.SavedDraft, view.RestoreAvailable = s.persistence.Pending()
	return view
}

// AddLineItem appends a blank line item and returns its position.
func (s *Session) AddLineItem() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.AddLineItem()
}

// RemoveLineItem removes the item at index; out-of-range is a no-op.
func (s *Session) RemoveLineItem(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.RemoveLineItem(index)
}

// UpdateLineItem merges patch into the item at index.
func (s *Session) UpdateLineItem(index int, patch entity.LineItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.UpdateLineItem(index, patch) {
		return apperror.NewNotFoundError("Line item")
	}
	return nil
}

// ApplyProduct fills the item at index from a catalog product.
func (s *Session) ApplyProduct(ctx context.Context, index int, productID string) error {
	product, err := s.catalog.ProductAutofill(ctx, productID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.ApplyProduct(index, product) {
		return apperror.NewNotFoundError("Line item")
	}
	return nil
}

// SetHeader merges header field updates and reports whether the draft changed
func (s *Session) SetHeader(patch entity.HeaderPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SetHeader(patch)
}

// AcceptRestore replaces the draft with the saved one.
func (s *Session) AcceptRestore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.persistence.Accept()
	if !ok {
		return apperror.ErrNoPendingRestore
	}
	s.store.Restore(*draft)
	s.logger.WithField("items", s.store.ItemCount()).Info("draft restored")
	return nil
}

// DiscardRestore deletes the saved draft and keeps the fresh one.
func (s *Session) DiscardRestore(ctx context.Context) error {
	if !s.persistence.Discard(ctx) {
		return apperror.ErrNoPendingRestore
	}
	s.logger.Info("saved draft discarded")
	return nil
}

// Clear deletes the saved draft and starts a new one with a fresh order
// number.
func (s *Session) Clear(ctx context.Context) {
	defaults := s.defaults(ctx, s.logger)

	s.mu.Lock()
	s.store.SetDefaults(defaults)
	s.store.Initialize()
	s.mu.Unlock()

	s.persistence.Clear(ctx)
	s.logger.Info("draft cleared")
}

// Submit sends the current draft as an order. On success the saved draft is
// deleted and the draft reset before the submission latch is released; on
// failure both are left as they were.
func (s *Session) Submit(ctx context.Context) (*entity.Order, error) {
	s.mu.Lock()
	draft := s.store.Snapshot()
	totals := s.store.Totals()
	s.mu.Unlock()

	return s.submissions.SubmitThen(ctx, s.ID.String(), draft, totals, s.Clear)
}
